package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetSupply(ctx context.Context, denom string) sdk.Coin
	HasSupply(ctx context.Context, denom string) bool
}

// AccountKeeper defines the expected interface for the auth module
type AccountKeeper interface {
	GetModuleAddress(moduleName string) sdk.AccAddress
}

// Rewarder is an optional secondary-reward hook attached to a pool. It is
// told about every stake change after the primary reward has been paid.
type Rewarder interface {
	// OnStakeChanged pays the user's pending secondary reward and records
	// their new stake.
	OnStakeChanged(ctx sdk.Context, pid uint64, user sdk.AccAddress, newStake math.Int) error
	PendingReward(ctx sdk.Context, pid uint64, user sdk.AccAddress) (sdk.Coin, error)
	RewardDenom(ctx sdk.Context) string
}
