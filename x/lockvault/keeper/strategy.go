package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	farmtypes "github.com/openalpha/farmchain/x/farm/types"
	"github.com/openalpha/farmchain/x/lockvault/types"
)

// VaultAsset returns the denom the vault compounds. The configured farm pool
// must stake the farm's reward denom so harvested rewards are underlying.
func (k *Keeper) VaultAsset(ctx sdk.Context, params types.Params) (string, error) {
	pool := k.farmKeeper.GetPool(ctx, params.FarmPoolID)
	if pool == nil {
		return "", types.ErrFarmPoolNotFound.Wrapf("pool %d", params.FarmPoolID)
	}
	if rewardDenom := k.farmKeeper.GetParams(ctx).RewardDenom; pool.StakeDenom != rewardDenom {
		return "", types.ErrInvalidParams.Wrapf("pool %d stakes %s, not the reward denom %s", pool.ID, pool.StakeDenom, rewardDenom)
	}
	return pool.StakeDenom, nil
}

// Underlying returns the vault's idle balance and its stake in the farm
func (k *Keeper) Underlying(ctx sdk.Context, params types.Params, denom string) (idle, staked math.Int) {
	vault := k.ModuleAddress()
	idle = k.bankKeeper.GetBalance(ctx, vault, denom).Amount
	staked = k.farmKeeper.GetPosition(ctx, params.FarmPoolID, vault.String()).StakedAmount
	return idle, staked
}

// harvest claims the vault's pending farm reward and returns the amount
// that landed in the idle balance.
func (k *Keeper) harvest(ctx sdk.Context, params types.Params, denom string) (math.Int, error) {
	vault := k.ModuleAddress()
	before := k.bankKeeper.GetBalance(ctx, vault, denom).Amount
	if _, err := k.farmKeeper.Deposit(ctx, vault.String(), params.FarmPoolID, math.ZeroInt()); err != nil {
		return math.ZeroInt(), err
	}
	after := k.bankKeeper.GetBalance(ctx, vault, denom).Amount
	return after.Sub(before), nil
}

// earn stakes the whole idle balance into the farm pool. While the farm is
// paused the balance stays idle and still counts as underlying.
func (k *Keeper) earn(ctx sdk.Context, params types.Params, denom string) error {
	vault := k.ModuleAddress()
	idle := k.bankKeeper.GetBalance(ctx, vault, denom).Amount
	if !idle.IsPositive() {
		return nil
	}
	_, err := k.farmKeeper.Deposit(ctx, vault.String(), params.FarmPoolID, idle)
	if errorsmod.IsOf(err, farmtypes.ErrPaused) {
		k.logger.Debug("Farm paused, keeping balance idle", "amount", idle.String())
		return nil
	}
	return err
}

// unstake withdraws amount from the farm pool into the idle balance
func (k *Keeper) unstake(ctx sdk.Context, params types.Params, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	_, err := k.farmKeeper.Withdraw(ctx, k.ModuleAddress().String(), params.FarmPoolID, amount)
	return err
}

// sweep moves everything the vault holds to the treasury. It only runs while
// no shares exist, so the balance belongs to nobody.
func (k *Keeper) sweep(ctx sdk.Context, params types.Params, denom string) (math.Int, error) {
	treasury := k.GetTreasury(ctx)
	if treasury == "" {
		return math.ZeroInt(), nil
	}
	to, err := sdk.AccAddressFromBech32(treasury)
	if err != nil {
		return math.ZeroInt(), types.ErrInvalidAddress.Wrapf("treasury: %s", err)
	}

	_, staked := k.Underlying(ctx, params, denom)
	if err := k.unstake(ctx, params, staked); err != nil {
		return math.ZeroInt(), err
	}

	idle := k.bankKeeper.GetBalance(ctx, k.ModuleAddress(), denom).Amount
	if !idle.IsPositive() {
		return math.ZeroInt(), nil
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, sdk.NewCoins(sdk.NewCoin(denom, idle))); err != nil {
		return math.ZeroInt(), err
	}

	k.recordAction(ctx, treasury, types.ActionSweep, idle, math.ZeroInt(), types.PricePerShareScale)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSweep,
			sdk.NewAttribute(types.AttributeKeyUser, treasury),
			sdk.NewAttribute(types.AttributeKeyAmount, idle.String()),
		),
	)
	k.logger.Info("Swept ownerless vault balance", "treasury", treasury, "amount", idle.String())
	return idle, nil
}

// PricePerShare returns the 1e18-scaled underlying per share including the
// farm reward not yet harvested, net of the fees a harvest would take.
func (k *Keeper) PricePerShare(ctx sdk.Context) (math.Int, error) {
	state := k.GetVaultState(ctx)
	if state.TotalShares.IsZero() {
		return types.PricePerShareScale, nil
	}

	params := k.GetParams(ctx)
	denom, err := k.VaultAsset(ctx, params)
	if err != nil {
		return math.ZeroInt(), err
	}
	pending, err := k.PendingHarvest(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	performanceFee, callFee := k.harvestFees(ctx, params, pending)
	pending = pending.Sub(performanceFee).Sub(callFee)

	idle, staked := k.Underlying(ctx, params, denom)
	return types.PricePerShare(idle.Add(staked).Add(pending), state.TotalShares), nil
}

// PendingHarvest returns the vault's unharvested farm reward
func (k *Keeper) PendingHarvest(ctx sdk.Context) (math.Int, error) {
	return k.farmKeeper.PendingReward(ctx, k.GetParams(ctx).FarmPoolID, k.ModuleAddress().String())
}
