package types

import (
	errorsmod "cosmossdk.io/errors"
)

// x/treasury module sentinel errors
var (
	ErrInvalidSigner   = errorsmod.Register(ModuleName, 1400, "invalid signer")
	ErrUnauthorized    = errorsmod.Register(ModuleName, 1401, "unauthorized")
	ErrTreasuryPaused  = errorsmod.Register(ModuleName, 1402, "rentals are paused")
	ErrInvalidDeposit  = errorsmod.Register(ModuleName, 1403, "deposit must be greater than 0")
	ErrDuplicateRental = errorsmod.Register(ModuleName, 1404, "rental already exists")
	ErrRentalNotFound  = errorsmod.Register(ModuleName, 1405, "rental does not exist")
	ErrRentalNotActive = errorsmod.Register(ModuleName, 1406, "rental is not active")
	ErrRentalEnded     = errorsmod.Register(ModuleName, 1407, "rental has already ended")
	ErrRentalNotEnded  = errorsmod.Register(ModuleName, 1408, "rental period has not ended")
	ErrInvalidDispute  = errorsmod.Register(ModuleName, 1409, "invalid dispute amount")
	ErrNoDispute       = errorsmod.Register(ModuleName, 1410, "no pending dispute")
	ErrRecipientUnset  = errorsmod.Register(ModuleName, 1411, "revenue share recipient is not set")
	ErrNoOp            = errorsmod.Register(ModuleName, 1412, "state is already set to this value")
	ErrInvalidPercent  = errorsmod.Register(ModuleName, 1413, "revenue share percent cannot exceed 100")
)
