package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrInvalidAddress    = errors.Register(ModuleName, 1, "invalid address")
	ErrInvalidAmount     = errors.Register(ModuleName, 2, "invalid amount")
	ErrInvalidDenom      = errors.Register(ModuleName, 3, "invalid stake denom")
	ErrDuplicateDenom    = errors.Register(ModuleName, 4, "stake denom already has a pool")
	ErrInvalidFee        = errors.Register(ModuleName, 5, "deposit fee above maximum")
	ErrInvalidSplit      = errors.Register(ModuleName, 6, "emission split above maximum")
	ErrPoolNotFound      = errors.Register(ModuleName, 7, "pool not found")
	ErrRateAboveCeiling  = errors.Register(ModuleName, 8, "emission rate above ceiling")
	ErrTooManyPools      = errors.Register(ModuleName, 9, "too many pools in batch")
	ErrUnknownRewarder   = errors.Register(ModuleName, 10, "rewarder not registered")
	ErrRewarderRejected  = errors.Register(ModuleName, 11, "rewarder rejected a zero-effect call")
	ErrProtectedDenom    = errors.Register(ModuleName, 12, "denom cannot be recovered")
	ErrInvalidParams     = errors.Register(ModuleName, 13, "invalid params")
	ErrDuplicatePool     = errors.Register(ModuleName, 14, "duplicate pool in batch")
	ErrInsufficientStake = errors.Register(ModuleName, 20, "withdraw amount exceeds staked amount")

	// Authorization errors
	ErrUnauthorized       = errors.Register(ModuleName, 30, "unauthorized")
	ErrNotRecipientHolder = errors.Register(ModuleName, 31, "signer is not the current holder of this role")

	ErrPaused         = errors.Register(ModuleName, 40, "deposits are paused")
	ErrReentrantCall  = errors.Register(ModuleName, 41, "reentrant call")
	ErrRewarderFailed = errors.Register(ModuleName, 50, "rewarder hook failed")
)
