package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/lockvault/types"
)

// EndBlocker exports the vault gauges
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	timer := metrics.NewTimer()
	collector := metrics.GetCollector()

	params := k.GetParams(ctx)
	denom, err := k.VaultAsset(ctx, params)
	if err != nil {
		// not configured yet
		collector.RecordEndBlock(types.ModuleName, timer.ElapsedMs())
		return nil
	}

	state := k.GetVaultState(ctx)
	idle, staked := k.Underlying(ctx, params, denom)
	pps, err := k.PricePerShare(ctx)
	if err != nil {
		k.logger.Error("Failed to price vault shares", "error", err)
		pps = types.PricePerShare(idle.Add(staked), state.TotalShares)
	}

	collector.RecordVault(state.TotalShares, idle.Add(staked), pps)
	collector.RecordEndBlock(types.ModuleName, timer.ElapsedMs())
	return nil
}
