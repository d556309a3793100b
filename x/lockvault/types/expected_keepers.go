package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	farmtypes "github.com/openalpha/farmchain/x/farm/types"
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// AccountKeeper defines the expected interface for the auth module
type AccountKeeper interface {
	GetModuleAddress(moduleName string) sdk.AccAddress
	GetAccount(ctx context.Context, addr sdk.AccAddress) sdk.AccountI
	GetModuleAccount(ctx context.Context, moduleName string) sdk.ModuleAccountI
}

// FarmKeeper is the distributor the vault stakes into
type FarmKeeper interface {
	Deposit(ctx context.Context, depositor string, pid uint64, amount math.Int) (*farmtypes.ActionResult, error)
	Withdraw(ctx context.Context, withdrawer string, pid uint64, amount math.Int) (*farmtypes.ActionResult, error)
	PendingReward(ctx context.Context, pid uint64, user string) (math.Int, error)
	GetParams(ctx sdk.Context) farmtypes.Params
	GetPool(ctx sdk.Context, pid uint64) *farmtypes.Pool
	GetPosition(ctx sdk.Context, pid uint64, owner string) *farmtypes.UserPosition
}
