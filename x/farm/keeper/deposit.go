package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/farm/types"
)

// Deposit settles the pool, pays the depositor's pending reward and stakes
// amount net of the pool's deposit fee. An amount of zero only harvests.
func (k *Keeper) Deposit(ctx context.Context, depositor string, pid uint64, amount math.Int) (*types.ActionResult, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr, err := sdk.AccAddressFromBech32(depositor)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("depositor: %s", err)
	}
	if amount.IsNil() || amount.IsNegative() {
		return nil, types.ErrInvalidAmount.Wrap("deposit amount must be non-negative")
	}

	var result *types.ActionResult
	err = k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		r, err := k.deposit(ctx, k.GetParams(ctx), addr, pid, amount)
		result = r
		return err
	})
	if err != nil {
		return nil, err
	}

	if amount.IsPositive() {
		metrics.GetCollector().RecordStakeAction(strconv.FormatUint(pid, 10), "deposit", result.Amount)
		metrics.GetCollector().RecordDepositFee(strconv.FormatUint(pid, 10), result.Fee)
	}

	k.logger.Info("Deposit processed",
		"pool_id", pid,
		"depositor", depositor,
		"amount", result.Amount.String(),
		"fee", result.Fee.String(),
		"reward", result.RewardPaid.String(),
	)

	return result, nil
}

func (k *Keeper) deposit(ctx sdk.Context, params types.Params, user sdk.AccAddress, pid uint64, amount math.Int) (*types.ActionResult, error) {
	if params.Paused && amount.IsPositive() {
		return nil, types.ErrPaused
	}

	pool := k.GetPool(ctx, pid)
	if pool == nil {
		return nil, types.ErrPoolNotFound.Wrapf("pool %d", pid)
	}
	if err := k.settle(ctx, params, pool); err != nil {
		return nil, err
	}

	pos := k.GetPosition(ctx, pid, user.String())
	paid, err := k.payFromReserve(ctx, params, pid, user, pos.Pending(pool))
	if err != nil {
		return nil, err
	}

	net, fee := math.ZeroInt(), math.ZeroInt()
	if amount.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(pool.StakeDenom, amount))
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, user, types.ModuleName, coins); err != nil {
			return nil, err
		}

		fee = types.DepositFee(amount, pool.DepositFeeBps)
		if fee.IsPositive() {
			if err := k.sendDepositFee(ctx, pool.StakeDenom, fee); err != nil {
				return nil, err
			}
		}

		net = amount.Sub(fee)
		pos.StakedAmount = pos.StakedAmount.Add(net)
		pool.TotalStaked = pool.TotalStaked.Add(net)
	}

	pos.Rebase(pool)
	k.StorePool(ctx, pool)
	k.SetPosition(ctx, pos)

	if err := k.notifyRewarder(ctx, pool, user, pos.StakedAmount, params.RewarderPolicy == types.RewarderPolicyTolerate); err != nil {
		return nil, err
	}

	eventType := types.EventTypeDeposit
	if amount.IsZero() {
		eventType = types.EventTypeHarvest
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pid, 10)),
			sdk.NewAttribute(types.AttributeKeyUser, user.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, net.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
			sdk.NewAttribute(types.AttributeKeyReward, paid.String()),
		),
	)

	return &types.ActionResult{
		PoolID:     pid,
		RewardPaid: paid,
		Amount:     net,
		Fee:        fee,
		Position:   pos,
	}, nil
}

func (k *Keeper) sendDepositFee(ctx sdk.Context, denom string, fee math.Int) error {
	sink := k.GetRecipients(ctx).FeeSink
	addr, err := sdk.AccAddressFromBech32(sink)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("fee sink: %s", err)
	}
	return k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, sdk.NewCoins(sdk.NewCoin(denom, fee)))
}

// HarvestMany pays the pending reward of each listed pool
func (k *Keeper) HarvestMany(ctx context.Context, harvester string, pids []uint64) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr, err := sdk.AccAddressFromBech32(harvester)
	if err != nil {
		return math.ZeroInt(), types.ErrInvalidAddress.Wrapf("harvester: %s", err)
	}
	if err := types.ValidateHarvestBatch(pids); err != nil {
		return math.ZeroInt(), err
	}

	total := math.ZeroInt()
	err = k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		params := k.GetParams(ctx)
		for _, pid := range pids {
			result, err := k.deposit(ctx, params, addr, pid, math.ZeroInt())
			if err != nil {
				return err
			}
			total = total.Add(result.RewardPaid)
		}
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	k.logger.Info("Harvested pools",
		"harvester", harvester,
		"pools", len(pids),
		"reward", total.String(),
	)
	return total, nil
}
