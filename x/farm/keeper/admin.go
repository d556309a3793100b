package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/farm/types"
)

func (k *Keeper) checkAuthority(signer string) error {
	if signer != k.authority {
		return types.ErrUnauthorized.Wrapf("expected %s, got %s", k.authority, signer)
	}
	return nil
}

// AddPool registers a new pool for stakeDenom. The denom must have supply
// on chain and must not already back another pool.
func (k *Keeper) AddPool(ctx context.Context, authority, stakeDenom string, weight uint64, depositFeeBps uint32, rewarder string, withUpdate bool) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.checkAuthority(authority); err != nil {
		return nil, err
	}
	if err := sdk.ValidateDenom(stakeDenom); err != nil {
		return nil, types.ErrInvalidDenom.Wrap(err.Error())
	}
	if depositFeeBps > types.DepositFeeMaxBps {
		return nil, types.ErrInvalidFee.Wrapf("%d > %d", depositFeeBps, types.DepositFeeMaxBps)
	}

	var pool *types.Pool
	err := k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		if !k.bankKeeper.HasSupply(ctx, stakeDenom) {
			return types.ErrInvalidDenom.Wrapf("%s has no supply", stakeDenom)
		}
		if pid, exists := k.GetPoolIDByDenom(ctx, stakeDenom); exists {
			return types.ErrDuplicateDenom.Wrapf("%s is staked by pool %d", stakeDenom, pid)
		}

		params := k.GetParams(ctx)
		if withUpdate {
			if err := k.massUpdate(ctx, params); err != nil {
				return err
			}
		}

		if err := k.vetRewarder(ctx, rewarder, k.PoolLength(ctx)); err != nil {
			return err
		}

		start := ctx.BlockTime().Unix()
		if params.StartTime > start {
			start = params.StartTime
		}
		pool = types.NewPool(0, stakeDenom, weight, depositFeeBps, rewarder, start)
		if err := k.appendPool(ctx, pool); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeAddPool,
				sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.ID, 10)),
				sdk.NewAttribute("stake_denom", stakeDenom),
				sdk.NewAttribute("weight", strconv.FormatUint(weight, 10)),
				sdk.NewAttribute(types.AttributeKeyFee, strconv.FormatUint(uint64(depositFeeBps), 10)),
				sdk.NewAttribute(types.AttributeKeyRewarder, rewarder),
			),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	k.logger.Info("Pool added",
		"pool_id", pool.ID,
		"stake_denom", stakeDenom,
		"weight", weight,
		"deposit_fee_bps", depositFeeBps,
		"rewarder", rewarder,
	)
	return pool, nil
}

// SetPool changes a pool's weight and deposit fee, and its rewarder when
// overwriteRewarder is set. The pool is always settled first.
func (k *Keeper) SetPool(ctx context.Context, authority string, pid, weight uint64, depositFeeBps uint32, rewarder string, overwriteRewarder, withUpdate bool) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.checkAuthority(authority); err != nil {
		return nil, err
	}
	if depositFeeBps > types.DepositFeeMaxBps {
		return nil, types.ErrInvalidFee.Wrapf("%d > %d", depositFeeBps, types.DepositFeeMaxBps)
	}

	var pool *types.Pool
	err := k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		pool = k.GetPool(ctx, pid)
		if pool == nil {
			return types.ErrPoolNotFound.Wrapf("pool %d", pid)
		}

		params := k.GetParams(ctx)
		if withUpdate {
			if err := k.massUpdate(ctx, params); err != nil {
				return err
			}
			pool = k.GetPool(ctx, pid)
		} else if err := k.settle(ctx, params, pool); err != nil {
			return err
		}

		if overwriteRewarder && rewarder != pool.Rewarder {
			if err := k.vetRewarder(ctx, rewarder, pid); err != nil {
				return err
			}
			pool.Rewarder = rewarder
		}

		total, ok := types.ReweighTotal(k.GetTotalWeight(ctx), pool.Weight, weight)
		if !ok {
			return types.ErrInvalidParams.Wrapf("total weight overflows setting pool %d to %d", pid, weight)
		}
		k.setTotalWeight(ctx, total)
		pool.Weight = weight
		pool.DepositFeeBps = depositFeeBps
		k.StorePool(ctx, pool)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSetPool,
				sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pid, 10)),
				sdk.NewAttribute("weight", strconv.FormatUint(weight, 10)),
				sdk.NewAttribute(types.AttributeKeyFee, strconv.FormatUint(uint64(depositFeeBps), 10)),
				sdk.NewAttribute(types.AttributeKeyRewarder, pool.Rewarder),
			),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	k.logger.Info("Pool updated",
		"pool_id", pid,
		"weight", weight,
		"deposit_fee_bps", depositFeeBps,
		"rewarder", pool.Rewarder,
	)
	return pool, nil
}

// UpdateEmissionRate sets the reward per second. The new rate may never
// exceed the ceiling fixed at genesis.
func (k *Keeper) UpdateEmissionRate(ctx context.Context, authority string, rate math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	if rate.IsNil() || rate.IsNegative() {
		return types.ErrInvalidAmount.Wrap("emission rate must be non-negative")
	}

	return k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		params := k.GetParams(ctx)
		if rate.GT(params.MaxRewardPerSecond) {
			return types.ErrRateAboveCeiling.Wrapf("%s > %s", rate, params.MaxRewardPerSecond)
		}
		if err := k.massUpdate(ctx, params); err != nil {
			return err
		}

		previous := params.RewardPerSecond
		params.RewardPerSecond = rate
		k.SetParams(ctx, params)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeEmissionRate,
				sdk.NewAttribute("previous", previous.String()),
				sdk.NewAttribute("rate", rate.String()),
			),
		)
		k.logger.Info("Emission rate updated", "previous", previous.String(), "rate", rate.String())
		return nil
	})
}

// UpdateSplits sets the dev/treasury/investor emission splits
func (k *Keeper) UpdateSplits(ctx context.Context, authority string, devBps, treasuryBps, investorBps uint32) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	if err := types.ValidateSplits(devBps, treasuryBps, investorBps); err != nil {
		return err
	}

	return k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		params := k.GetParams(ctx)
		if err := k.massUpdate(ctx, params); err != nil {
			return err
		}
		params.DevBps = devBps
		params.TreasuryBps = treasuryBps
		params.InvestorBps = investorBps
		k.SetParams(ctx, params)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSplits,
				sdk.NewAttribute(types.RoleDev, strconv.FormatUint(uint64(devBps), 10)),
				sdk.NewAttribute(types.RoleTreasury, strconv.FormatUint(uint64(treasuryBps), 10)),
				sdk.NewAttribute(types.RoleInvestor, strconv.FormatUint(uint64(investorBps), 10)),
			),
		)
		k.logger.Info("Emission splits updated", "dev_bps", devBps, "treasury_bps", treasuryBps, "investor_bps", investorBps)
		return nil
	})
}

// SetRecipient hands role to newAddr. Only the role's current holder may
// do this; the authority has no say.
func (k *Keeper) SetRecipient(ctx context.Context, holder, role, newAddr string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if _, err := sdk.AccAddressFromBech32(newAddr); err != nil {
		return types.ErrInvalidAddress.Wrapf("new %s: %s", role, err)
	}

	return k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		recipients := k.GetRecipients(ctx)
		current, ok := recipients.Get(role)
		if !ok {
			return types.ErrInvalidParams.Wrapf("unknown role %q", role)
		}
		if current == "" || current != holder {
			return types.ErrNotRecipientHolder.Wrapf("%s is held by %s", role, current)
		}
		k.SetRecipients(ctx, recipients.With(role, newAddr))

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSetRecipient,
				sdk.NewAttribute("role", role),
				sdk.NewAttribute("previous", current),
				sdk.NewAttribute("address", newAddr),
			),
		)
		k.logger.Info("Recipient rotated", "role", role, "previous", current, "address", newAddr)
		return nil
	})
}

// SetPaused blocks or allows new deposits. Withdrawals, harvests and
// emergency withdrawals are never paused.
func (k *Keeper) SetPaused(ctx context.Context, authority string, paused bool) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.checkAuthority(authority); err != nil {
		return err
	}

	return k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		params := k.GetParams(ctx)
		params.Paused = paused
		k.SetParams(ctx, params)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(types.EventTypePaused, sdk.NewAttribute("paused", strconv.FormatBool(paused))),
		)
		k.logger.Info("Deposits pause toggled", "paused", paused)
		return nil
	})
}

// RecoverTokens sends tokens that were sent to the module by mistake. Pool
// stake denoms and the reward denom can never be recovered.
func (k *Keeper) RecoverTokens(ctx context.Context, authority, denom string, amount math.Int, recipient string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	to, err := sdk.AccAddressFromBech32(recipient)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("recipient: %s", err)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("recover amount must be positive")
	}

	return k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		if denom == k.GetParams(ctx).RewardDenom {
			return types.ErrProtectedDenom.Wrapf("%s is the reward denom", denom)
		}
		if pid, ok := k.GetPoolIDByDenom(ctx, denom); ok {
			return types.ErrProtectedDenom.Wrapf("%s is staked by pool %d", denom, pid)
		}

		coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, coins); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRecoverTokens,
				sdk.NewAttribute("denom", denom),
				sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
				sdk.NewAttribute("recipient", recipient),
			),
		)
		k.logger.Info("Tokens recovered", "denom", denom, "amount", amount.String(), "recipient", recipient)
		return nil
	})
}
