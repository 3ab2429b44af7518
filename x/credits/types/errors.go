package types

import (
	errorsmod "cosmossdk.io/errors"
)

// DONTCOVER

var (
	ErrInvalidSigner         = errorsmod.Register(ModuleName, 1300, "invalid signer")
	ErrUnauthorized          = errorsmod.Register(ModuleName, 1301, "unauthorized: caller is not the system account")
	ErrInvalidAmount         = errorsmod.Register(ModuleName, 1302, "amount must be greater than 0")
	ErrInsufficientAllowance = errorsmod.Register(ModuleName, 1303, "insufficient allowance")
	ErrInsufficientFunds     = errorsmod.Register(ModuleName, 1304, "insufficient funds")
	ErrInsufficientReserve   = errorsmod.Register(ModuleName, 1305, "insufficient reserved credits")
	ErrSystemAccountUnset    = errorsmod.Register(ModuleName, 1306, "system account is not set")
)
