package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/farm/types"
)

// EndBlocker exports pool gauges. Rewards accrue lazily, so nothing here
// touches state.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	timer := metrics.NewTimer()
	collector := metrics.GetCollector()

	params := k.GetParams(ctx)
	for _, pool := range k.GetAllPools(ctx) {
		collector.RecordPool(strconv.FormatUint(pool.ID, 10), pool.StakeDenom, pool.Weight, pool.TotalStaked, pool.AccRewardPerShare)
	}
	collector.RecordEmission(params.RewardPerSecond, k.ReserveBalance(ctx))
	collector.RecordEndBlock(types.ModuleName, timer.ElapsedMs())

	if ctx.BlockHeight()%100 == 0 {
		k.logger.Debug("Farm state",
			"height", ctx.BlockHeight(),
			"pools", k.PoolLength(ctx),
			"total_weight", k.GetTotalWeight(ctx),
			"reward_supply", k.RewardSupply(ctx).String(),
		)
	}
	return nil
}
