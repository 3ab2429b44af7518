package types

import (
	errorsmod "cosmossdk.io/errors"
)

// DONTCOVER

var (
	ErrInvalidSigner     = errorsmod.Register(ModuleName, 1100, "invalid signer")
	ErrUnauthorized      = errorsmod.Register(ModuleName, 1101, "unauthorized")
	ErrInvalidAmount     = errorsmod.Register(ModuleName, 1102, "amount must be greater than 0")
	ErrPoolPaused        = errorsmod.Register(ModuleName, 1103, "staking is paused")
	ErrLimitExceeded     = errorsmod.Register(ModuleName, 1104, "staking limit exceeded")
	ErrInvalidIndex      = errorsmod.Register(ModuleName, 1105, "invalid stake index")
	ErrInsufficientStake = errorsmod.Register(ModuleName, 1106, "insufficient staked amount")
	ErrStakeLocked       = errorsmod.Register(ModuleName, 1107, "stake is still locked")
	ErrNotEarly          = errorsmod.Register(ModuleName, 1108, "stake is not in early unstake period")
	ErrNoRewards         = errorsmod.Register(ModuleName, 1109, "no rewards available")
	ErrDeadWalletUnset   = errorsmod.Register(ModuleName, 1110, "dead wallet is not set")
)
