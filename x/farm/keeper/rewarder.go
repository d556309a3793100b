package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/farm/types"
)

// GetRewarder returns a registered rewarder
func (k *Keeper) GetRewarder(name string) (types.Rewarder, bool) {
	r, ok := k.rewarders[name]
	return r, ok
}

// vetRewarder checks a rewarder is registered and accepts a zero-effect
// call. The trial call runs on a branch that is always thrown away.
func (k *Keeper) vetRewarder(ctx sdk.Context, name string, pid uint64) error {
	if name == "" {
		return nil
	}
	r, ok := k.rewarders[name]
	if !ok {
		return types.ErrUnknownRewarder.Wrap(name)
	}
	trialCtx, _ := ctx.CacheContext()
	if err := r.OnStakeChanged(trialCtx, pid, k.ModuleAddress(), math.ZeroInt()); err != nil {
		return types.ErrRewarderRejected.Wrapf("%s: %s", name, err)
	}
	if r.RewardDenom(trialCtx) == "" {
		return types.ErrRewarderRejected.Wrapf("%s has no reward denom", name)
	}
	return nil
}

// notifyRewarder tells the pool's rewarder about a stake change. The hook
// runs on its own branch. A failure aborts the caller unless tolerate is
// set, in which case the hook's writes are dropped and an event records it.
func (k *Keeper) notifyRewarder(ctx sdk.Context, pool *types.Pool, user sdk.AccAddress, newStake math.Int, tolerate bool) error {
	if pool.Rewarder == "" {
		return nil
	}
	r, ok := k.rewarders[pool.Rewarder]
	if !ok {
		return types.ErrUnknownRewarder.Wrap(pool.Rewarder)
	}

	hookCtx, write := ctx.CacheContext()
	err := r.OnStakeChanged(hookCtx, pool.ID, user, newStake)
	if err == nil {
		write()
		return nil
	}

	if !tolerate {
		return types.ErrRewarderFailed.Wrapf("%s: %s", pool.Rewarder, err)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRewarderFailed,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyUser, user.String()),
			sdk.NewAttribute(types.AttributeKeyRewarder, pool.Rewarder),
			sdk.NewAttribute(types.AttributeKeyError, err.Error()),
		),
	)
	k.logger.Warn("Rewarder hook failed, continuing",
		"pool_id", pool.ID,
		"rewarder", pool.Rewarder,
		"user", user.String(),
		"error", err.Error(),
	)
	metrics.GetCollector().RecordRewarderFailure(pool.Rewarder)
	return nil
}

// PendingRewarderReward returns the pool rewarder's pending reward for user
func (k *Keeper) PendingRewarderReward(ctx sdk.Context, pid uint64, user sdk.AccAddress) (sdk.Coin, bool, error) {
	pool := k.GetPool(ctx, pid)
	if pool == nil {
		return sdk.Coin{}, false, types.ErrPoolNotFound.Wrapf("pool %d", pid)
	}
	if pool.Rewarder == "" {
		return sdk.Coin{}, false, nil
	}
	r, ok := k.rewarders[pool.Rewarder]
	if !ok {
		return sdk.Coin{}, false, types.ErrUnknownRewarder.Wrap(pool.Rewarder)
	}
	coin, err := r.PendingReward(ctx, pid, user)
	return coin, true, err
}
