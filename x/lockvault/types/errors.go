package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrInvalidAddress   = errors.Register(ModuleName, 1, "invalid address")
	ErrInvalidAmount    = errors.Register(ModuleName, 2, "invalid amount")
	ErrDepositTooSmall  = errors.Register(ModuleName, 3, "deposit below minimum")
	ErrWithdrawTooSmall = errors.Register(ModuleName, 4, "withdraw below minimum")
	ErrZeroShares       = errors.Register(ModuleName, 5, "amount is worth zero shares")
	ErrInvalidParams    = errors.Register(ModuleName, 6, "invalid params")
	ErrProtectedDenom   = errors.Register(ModuleName, 7, "denom cannot be recovered")
	ErrFarmPoolNotFound = errors.Register(ModuleName, 8, "farm pool not found")

	ErrNoShares      = errors.Register(ModuleName, 20, "no shares to withdraw")
	ErrLockViolation = errors.Register(ModuleName, 21, "shares are still locked")

	ErrUnauthorized      = errors.Register(ModuleName, 30, "unauthorized")
	ErrContractCaller    = errors.Register(ModuleName, 31, "module accounts cannot use the vault")
	ErrNotTreasuryHolder = errors.Register(ModuleName, 32, "signer is not the current treasury")
	ErrPaused            = errors.Register(ModuleName, 40, "vault deposits are paused")
	ErrReentrantCall     = errors.Register(ModuleName, 41, "reentrant call")
)
