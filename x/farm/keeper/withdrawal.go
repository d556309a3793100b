package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/farm/types"
)

// Withdraw settles the pool, pays the pending reward and returns amount of
// stake. It is allowed while deposits are paused.
func (k *Keeper) Withdraw(ctx context.Context, withdrawer string, pid uint64, amount math.Int) (*types.ActionResult, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr, err := sdk.AccAddressFromBech32(withdrawer)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("withdrawer: %s", err)
	}
	if amount.IsNil() || amount.IsNegative() {
		return nil, types.ErrInvalidAmount.Wrap("withdraw amount must be non-negative")
	}

	var result *types.ActionResult
	err = k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		r, err := k.withdraw(ctx, k.GetParams(ctx), addr, pid, amount)
		result = r
		return err
	})
	if err != nil {
		return nil, err
	}

	if amount.IsPositive() {
		metrics.GetCollector().RecordStakeAction(strconv.FormatUint(pid, 10), "withdraw", amount)
	}

	k.logger.Info("Withdrawal processed",
		"pool_id", pid,
		"withdrawer", withdrawer,
		"amount", amount.String(),
		"reward", result.RewardPaid.String(),
	)

	return result, nil
}

func (k *Keeper) withdraw(ctx sdk.Context, params types.Params, user sdk.AccAddress, pid uint64, amount math.Int) (*types.ActionResult, error) {
	pool := k.GetPool(ctx, pid)
	if pool == nil {
		return nil, types.ErrPoolNotFound.Wrapf("pool %d", pid)
	}

	pos := k.GetPosition(ctx, pid, user.String())
	if pos.StakedAmount.LT(amount) {
		return nil, types.ErrInsufficientStake.Wrapf("staked %s, requested %s", pos.StakedAmount, amount)
	}

	if err := k.settle(ctx, params, pool); err != nil {
		return nil, err
	}

	paid, err := k.payFromReserve(ctx, params, pid, user, pos.Pending(pool))
	if err != nil {
		return nil, err
	}

	if amount.IsPositive() {
		pos.StakedAmount = pos.StakedAmount.Sub(amount)
		pool.TotalStaked = pool.TotalStaked.Sub(amount)
		coins := sdk.NewCoins(sdk.NewCoin(pool.StakeDenom, amount))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, user, coins); err != nil {
			return nil, err
		}
	}

	pos.Rebase(pool)
	k.StorePool(ctx, pool)
	k.SetPosition(ctx, pos)

	if err := k.notifyRewarder(ctx, pool, user, pos.StakedAmount, params.RewarderPolicy == types.RewarderPolicyTolerate); err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pid, 10)),
			sdk.NewAttribute(types.AttributeKeyUser, user.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyReward, paid.String()),
		),
	)

	return &types.ActionResult{
		PoolID:     pid,
		RewardPaid: paid,
		Amount:     amount,
		Fee:        math.ZeroInt(),
		Position:   pos,
	}, nil
}

// EmergencyWithdraw returns the user's whole stake without settling the
// pool. Pending rewards are forfeited and a failing rewarder never blocks it.
func (k *Keeper) EmergencyWithdraw(ctx context.Context, withdrawer string, pid uint64) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr, err := sdk.AccAddressFromBech32(withdrawer)
	if err != nil {
		return math.ZeroInt(), types.ErrInvalidAddress.Wrapf("withdrawer: %s", err)
	}

	amount := math.ZeroInt()
	err = k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		pool := k.GetPool(ctx, pid)
		if pool == nil {
			return types.ErrPoolNotFound.Wrapf("pool %d", pid)
		}

		pos := k.GetPosition(ctx, pid, addr.String())
		amount = pos.StakedAmount
		pos.StakedAmount = math.ZeroInt()
		pos.RewardDebt = math.ZeroInt()
		pool.TotalStaked = pool.TotalStaked.Sub(amount)
		k.StorePool(ctx, pool)
		k.SetPosition(ctx, pos)

		if amount.IsPositive() {
			coins := sdk.NewCoins(sdk.NewCoin(pool.StakeDenom, amount))
			if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, coins); err != nil {
				return err
			}
		}

		if err := k.notifyRewarder(ctx, pool, addr, math.ZeroInt(), true); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeEmergencyWithdraw,
				sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pid, 10)),
				sdk.NewAttribute(types.AttributeKeyUser, addr.String()),
				sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	metrics.GetCollector().RecordStakeAction(strconv.FormatUint(pid, 10), "emergency_withdraw", amount)
	k.logger.Info("Emergency withdrawal processed",
		"pool_id", pid,
		"withdrawer", withdrawer,
		"amount", amount.String(),
	)
	return amount, nil
}
