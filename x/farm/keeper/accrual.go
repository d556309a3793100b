package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/farm/types"
)

// settle brings a pool's accumulator up to the current block time, minting
// the recipient splits and the pool's share into the reserve. The pool is
// saved before returning.
func (k *Keeper) settle(ctx sdk.Context, params types.Params, pool *types.Pool) error {
	now := ctx.BlockTime().Unix()
	from := pool.LastAccrualTime
	if params.StartTime > from {
		from = params.StartTime
	}
	if now <= from {
		return nil
	}

	supply := k.StakedSupply(ctx, pool)
	totalWeight := k.GetTotalWeight(ctx)
	if supply.IsZero() || totalWeight == 0 || pool.Weight == 0 {
		pool.LastAccrualTime = now
		k.StorePool(ctx, pool)
		return nil
	}

	gross := types.PoolEmission(now-from, params.RewardPerSecond, pool.Weight, totalWeight)
	split := types.SplitEmission(gross, params.DevBps, params.TreasuryBps, params.InvestorBps)

	recipients := k.GetRecipients(ctx)
	if _, err := k.mintToAccount(ctx, params, types.RoleDev, recipients.Dev, split.Dev); err != nil {
		return err
	}
	if _, err := k.mintToAccount(ctx, params, types.RoleTreasury, recipients.Treasury, split.Treasury); err != nil {
		return err
	}
	if _, err := k.mintToAccount(ctx, params, types.RoleInvestor, recipients.Investor, split.Investor); err != nil {
		return err
	}
	if _, err := k.mintToReserve(ctx, params, split.Pool); err != nil {
		return err
	}

	pool.AccRewardPerShare = pool.AccRewardPerShare.Add(types.AccIncrement(split.Pool, supply))
	pool.LastAccrualTime = now
	k.StorePool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSettle,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyReward, split.Pool.String()),
			sdk.NewAttribute("gross", gross.String()),
			sdk.NewAttribute("acc_reward_per_share", pool.AccRewardPerShare.String()),
		),
	)

	k.logger.Debug("Pool settled",
		"pool_id", pool.ID,
		"elapsed", now-from,
		"gross", gross.String(),
		"supply", supply.String(),
	)
	return nil
}

// massUpdate settles every pool
func (k *Keeper) massUpdate(ctx sdk.Context, params types.Params) error {
	for _, pool := range k.GetAllPools(ctx) {
		if err := k.settle(ctx, params, pool); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePool settles a single pool. Anyone may call it.
func (k *Keeper) UpdatePool(ctx context.Context, pid uint64) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	var updated *types.Pool
	err := k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		pool := k.GetPool(ctx, pid)
		if pool == nil {
			return types.ErrPoolNotFound.Wrapf("pool %d", pid)
		}
		if err := k.settle(ctx, k.GetParams(ctx), pool); err != nil {
			return err
		}
		updated = pool
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MassUpdatePools settles every pool. Anyone may call it.
func (k *Keeper) MassUpdatePools(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		return k.massUpdate(ctx, k.GetParams(ctx))
	})
}

// PendingReward returns what the user would be paid if the pool settled at
// the current block time. Nothing is minted.
func (k *Keeper) PendingReward(ctx context.Context, pid uint64, user string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx, pid)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound.Wrapf("pool %d", pid)
	}
	pos := k.GetPosition(sdkCtx, pid, user)

	params := k.GetParams(sdkCtx)
	now := sdkCtx.BlockTime().Unix()
	from := pool.LastAccrualTime
	if params.StartTime > from {
		from = params.StartTime
	}

	virtual := *pool
	supply := k.StakedSupply(sdkCtx, pool)
	totalWeight := k.GetTotalWeight(sdkCtx)
	if now > from && supply.IsPositive() && totalWeight > 0 {
		gross := types.PoolEmission(now-from, params.RewardPerSecond, pool.Weight, totalWeight)
		split := types.SplitEmission(gross, params.DevBps, params.TreasuryBps, params.InvestorBps)
		virtual.AccRewardPerShare = pool.AccRewardPerShare.Add(types.AccIncrement(split.Pool, supply))
	}
	return pos.Pending(&virtual), nil
}
