package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/farm/types"
)

// InitGenesis loads the farm state from genesis
func (k *Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) {
	if err := gs.Validate(); err != nil {
		panic(err)
	}

	k.SetParams(ctx, gs.Params)
	k.SetRecipients(ctx, gs.Recipients)

	var totalWeight uint64
	for _, pool := range gs.Pools {
		k.StorePool(ctx, pool)
		k.setDenomIndex(ctx, pool.StakeDenom, pool.ID)
		totalWeight, _ = types.ReweighTotal(totalWeight, 0, pool.Weight)
	}
	k.setPoolLength(ctx, uint64(len(gs.Pools)))
	k.setTotalWeight(ctx, totalWeight)

	for _, pos := range gs.Positions {
		k.SetPosition(ctx, pos)
	}

	k.logger.Info("Initialized farm genesis",
		"pools", len(gs.Pools),
		"positions", len(gs.Positions),
	)
}

// ExportGenesis exports the farm state
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	return &types.GenesisState{
		Params:     k.GetParams(ctx),
		Recipients: k.GetRecipients(ctx),
		Pools:      k.GetAllPools(ctx),
		Positions:  k.GetAllPositions(ctx),
	}
}
