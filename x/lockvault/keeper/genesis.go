package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/lockvault/types"
)

// InitGenesis loads the vault state from genesis
func (k *Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) {
	if err := gs.Validate(); err != nil {
		panic(err)
	}

	// the vault receives farm payouts as a plain account transfer, so its
	// module account must exist before the first harvest
	k.accountKeeper.GetModuleAccount(ctx, types.ModuleName)

	k.SetParams(ctx, gs.Params)
	if gs.Treasury != "" {
		k.SetTreasury(ctx, gs.Treasury)
	}
	k.SetVaultState(ctx, gs.State)
	for _, user := range gs.Users {
		k.SetUserInfo(ctx, user)
	}

	var next uint64
	for _, action := range gs.Actions {
		k.setAction(ctx, action)
		if action.Seq >= next {
			next = action.Seq + 1
		}
	}
	k.setActionSeq(ctx, next)

	k.logger.Info("Initialized lockvault genesis",
		"users", len(gs.Users),
		"total_shares", gs.State.TotalShares.String(),
	)
}

// ExportGenesis exports the vault state
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	actions := k.GetActions(ctx, 0)
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}

	return &types.GenesisState{
		Params:   k.GetParams(ctx),
		Treasury: k.GetTreasury(ctx),
		State:    k.GetVaultState(ctx),
		Users:    k.GetAllUsers(ctx),
		Actions:  actions,
	}
}
