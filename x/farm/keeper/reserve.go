package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/farm/types"
)

// ReserveBalance returns the reward tokens held by the reserve
func (k *Keeper) ReserveBalance(ctx sdk.Context) math.Int {
	addr := k.accountKeeper.GetModuleAddress(types.ReserveModuleName)
	return k.bankKeeper.GetBalance(ctx, addr, k.GetParams(ctx).RewardDenom).Amount
}

// payFromReserve pays min(amount, reserve balance) to the user and returns
// what was paid. The unpaid remainder is forfeited.
func (k *Keeper) payFromReserve(ctx sdk.Context, params types.Params, pid uint64, to sdk.AccAddress, amount math.Int) (math.Int, error) {
	if !amount.IsPositive() {
		return math.ZeroInt(), nil
	}
	reserve := k.bankKeeper.GetBalance(ctx, k.accountKeeper.GetModuleAddress(types.ReserveModuleName), params.RewardDenom).Amount
	paid := math.MinInt(amount, reserve)
	shortfall := amount.Sub(paid)

	if paid.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(params.RewardDenom, paid))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ReserveModuleName, to, coins); err != nil {
			return math.ZeroInt(), err
		}
	}

	if shortfall.IsPositive() {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeReserveShortfall,
				sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pid, 10)),
				sdk.NewAttribute(types.AttributeKeyUser, to.String()),
				sdk.NewAttribute(types.AttributeKeyReward, paid.String()),
				sdk.NewAttribute(types.AttributeKeyShortfall, shortfall.String()),
			),
		)
		k.logger.Warn("Reserve short of pending reward",
			"pool_id", pid,
			"user", to.String(),
			"owed", amount.String(),
			"paid", paid.String(),
		)
	}

	metrics.GetCollector().RecordPayout(strconv.FormatUint(pid, 10), paid, shortfall)
	return paid, nil
}
