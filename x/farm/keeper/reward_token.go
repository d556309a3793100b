package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/farm/types"
)

// RewardSupply returns the circulating supply of the reward denom
func (k *Keeper) RewardSupply(ctx sdk.Context) math.Int {
	return k.bankKeeper.GetSupply(ctx, k.GetParams(ctx).RewardDenom).Amount
}

// mintCapped mints up to amount of the reward denom into the farm module
// account. Anything past RewardSupplyCap is silently not minted.
func (k *Keeper) mintCapped(ctx sdk.Context, params types.Params, amount math.Int) (math.Int, error) {
	if !amount.IsPositive() {
		return math.ZeroInt(), nil
	}
	supply := k.bankKeeper.GetSupply(ctx, params.RewardDenom).Amount
	headroom := params.RewardSupplyCap.Sub(supply)
	if !headroom.IsPositive() {
		return math.ZeroInt(), nil
	}
	minted := math.MinInt(amount, headroom)
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, sdk.NewCoins(sdk.NewCoin(params.RewardDenom, minted))); err != nil {
		return math.ZeroInt(), err
	}
	return minted, nil
}

// mintToAccount mints capped rewards straight to a recipient address. An
// unset recipient forfeits its split.
func (k *Keeper) mintToAccount(ctx sdk.Context, params types.Params, role, recipient string, amount math.Int) (math.Int, error) {
	if recipient == "" || !amount.IsPositive() {
		return math.ZeroInt(), nil
	}
	addr, err := sdk.AccAddressFromBech32(recipient)
	if err != nil {
		return math.ZeroInt(), types.ErrInvalidAddress.Wrapf("%s recipient: %s", role, err)
	}
	minted, err := k.mintCapped(ctx, params, amount)
	if err != nil || minted.IsZero() {
		return minted, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(params.RewardDenom, minted))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, coins); err != nil {
		return math.ZeroInt(), err
	}
	metrics.GetCollector().RecordMint(role, minted)
	return minted, nil
}

// mintToReserve mints capped rewards into the reserve
func (k *Keeper) mintToReserve(ctx sdk.Context, params types.Params, amount math.Int) (math.Int, error) {
	minted, err := k.mintCapped(ctx, params, amount)
	if err != nil || minted.IsZero() {
		return minted, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(params.RewardDenom, minted))
	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, types.ReserveModuleName, coins); err != nil {
		return math.ZeroInt(), err
	}
	metrics.GetCollector().RecordMint("reserve", minted)
	return minted, nil
}
