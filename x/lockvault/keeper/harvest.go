package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/lockvault/types"
)

// Harvest claims the vault's farm reward, pays the performance fee to the
// treasury and the call fee to caller, and stakes the rest. Anyone may call
// it. It returns the harvested amount and the call fee.
func (k *Keeper) Harvest(ctx context.Context, caller string) (math.Int, math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr, err := sdk.AccAddressFromBech32(caller)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInvalidAddress.Wrapf("caller: %s", err)
	}

	harvested, callFee := math.ZeroInt(), math.ZeroInt()
	err = k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		h, c, err := k.harvestWithFees(ctx, addr)
		harvested, callFee = h, c
		return err
	})
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	metrics.GetCollector().RecordVaultAction(types.ActionHarvest)
	metrics.GetCollector().RecordVaultHarvest(harvested)
	k.logger.Info("Vault harvested",
		"caller", caller,
		"harvested", harvested.String(),
		"call_fee", callFee.String(),
	)
	return harvested, callFee, nil
}

func (k *Keeper) harvestWithFees(ctx sdk.Context, caller sdk.AccAddress) (math.Int, math.Int, error) {
	params := k.GetParams(ctx)
	denom, err := k.VaultAsset(ctx, params)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	harvested, err := k.harvest(ctx, params, denom)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	performanceFee, callFee := k.harvestFees(ctx, params, harvested)
	if err := k.payFee(ctx, denom, k.GetTreasury(ctx), performanceFee); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	if err := k.payFee(ctx, denom, caller.String(), callFee); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	if err := k.earn(ctx, params, denom); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	state := k.GetVaultState(ctx)
	state.LastHarvestTime = ctx.BlockTime().Unix()
	k.SetVaultState(ctx, state)

	idle, staked := k.Underlying(ctx, params, denom)
	pps := types.PricePerShare(idle.Add(staked), state.TotalShares)
	action := k.recordAction(ctx, caller.String(), types.ActionHarvest, harvested, math.ZeroInt(), pps)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeHarvest,
			sdk.NewAttribute(types.AttributeKeyUser, caller.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, harvested.String()),
			sdk.NewAttribute(types.AttributeKeyPerformFee, performanceFee.String()),
			sdk.NewAttribute(types.AttributeKeyCallFee, callFee.String()),
			sdk.NewAttribute(types.AttributeKeyPricePerShare, pps.String()),
			sdk.NewAttribute(types.AttributeKeyActionID, action.ID),
		),
	)
	return harvested, callFee, nil
}

// harvestFees splits the fees a public harvest takes out of harvested. No
// performance fee is taken while the treasury is unset.
func (k *Keeper) harvestFees(ctx sdk.Context, params types.Params, harvested math.Int) (math.Int, math.Int) {
	performanceFee := math.ZeroInt()
	if k.GetTreasury(ctx) != "" {
		performanceFee = types.BpsOf(harvested, params.PerformanceFeeBps)
	}
	return performanceFee, types.BpsOf(harvested, params.CallFeeBps)
}

func (k *Keeper) payFee(ctx sdk.Context, denom, to string, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	addr, err := sdk.AccAddressFromBech32(to)
	if err != nil {
		return types.ErrInvalidAddress.Wrap(err.Error())
	}
	return k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, sdk.NewCoins(sdk.NewCoin(denom, amount)))
}
