package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/lockvault/types"
)

// Withdraw redeems the shares worth amount of underlying, capped at the
// caller's balance. It fails while the caller's lock is active.
func (k *Keeper) Withdraw(ctx context.Context, withdrawer string, amount math.Int) (math.Int, math.Int, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInvalidAmount.Wrap("withdraw amount must be positive")
	}
	return k.redeem(ctx, withdrawer, amount, false)
}

// WithdrawAll redeems every share the caller holds
func (k *Keeper) WithdrawAll(ctx context.Context, withdrawer string) (math.Int, math.Int, error) {
	return k.redeem(ctx, withdrawer, math.ZeroInt(), true)
}

// redeem returns the shares burned and the underlying paid out
func (k *Keeper) redeem(ctx context.Context, withdrawer string, amount math.Int, all bool) (math.Int, math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr, err := sdk.AccAddressFromBech32(withdrawer)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInvalidAddress.Wrapf("withdrawer: %s", err)
	}

	burned, payout := math.ZeroInt(), math.ZeroInt()
	err = k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		b, p, err := k.withdraw(ctx, addr, amount, all)
		burned, payout = b, p
		return err
	})
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	metrics.GetCollector().RecordVaultAction(types.ActionWithdraw)
	k.logger.Info("Vault withdrawal processed",
		"withdrawer", withdrawer,
		"shares", burned.String(),
		"payout", payout.String(),
	)
	return burned, payout, nil
}

func (k *Keeper) withdraw(ctx sdk.Context, addr sdk.AccAddress, amount math.Int, all bool) (math.Int, math.Int, error) {
	params := k.GetParams(ctx)
	now := ctx.BlockTime().Unix()

	user := k.GetUserInfo(ctx, addr.String())
	if !user.Shares.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrNoShares
	}
	if user.IsLocked(now) {
		return math.ZeroInt(), math.ZeroInt(), types.ErrLockViolation.Wrapf("locked until %d, now %d", user.LockEndTime, now)
	}
	if !all && amount.LT(params.MinWithdraw) {
		return math.ZeroInt(), math.ZeroInt(), types.ErrWithdrawTooSmall.Wrapf("%s < %s", amount, params.MinWithdraw)
	}
	if err := k.checkDirectCaller(ctx, addr); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	denom, err := k.VaultAsset(ctx, params)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	if _, err := k.harvest(ctx, params, denom); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	state := k.GetVaultState(ctx)
	idle, staked := k.Underlying(ctx, params, denom)
	total := idle.Add(staked)

	shares := user.Shares
	if !all {
		shares = math.MinInt(types.SharesForAmount(amount, total, state.TotalShares), user.Shares)
	}
	if !shares.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrZeroShares.Wrapf("withdraw of %s", amount)
	}
	payout := types.ValueOfShares(shares, total, state.TotalShares)

	user.Shares = user.Shares.Sub(shares)
	state.TotalShares = state.TotalShares.Sub(shares)
	user.LastActionTime = now
	user.ValueAtLastAction = types.ValueOfShares(user.Shares, total.Sub(payout), state.TotalShares)
	k.SetUserInfo(ctx, user)
	k.SetVaultState(ctx, state)

	if idle.LT(payout) {
		if err := k.unstake(ctx, params, payout.Sub(idle)); err != nil {
			return math.ZeroInt(), math.ZeroInt(), err
		}
	}
	if payout.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(denom, payout))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, coins); err != nil {
			return math.ZeroInt(), math.ZeroInt(), err
		}
	}
	if err := k.burnShareToken(ctx, params, addr, shares); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	pps := types.PricePerShare(total.Sub(payout), state.TotalShares)
	action := k.recordAction(ctx, addr.String(), types.ActionWithdraw, payout, shares, pps)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyUser, addr.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, payout.String()),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyActionID, action.ID),
		),
	)
	return shares, payout, nil
}
