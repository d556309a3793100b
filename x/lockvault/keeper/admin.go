package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/lockvault/types"
)

func (k *Keeper) checkAuthority(signer string) error {
	if signer != k.authority {
		return types.ErrUnauthorized.Wrapf("expected %s, got %s", k.authority, signer)
	}
	return nil
}

// UpdateParams replaces the vault params. The farm pool and share denom
// cannot change while shares are outstanding.
func (k *Keeper) UpdateParams(ctx context.Context, authority string, params types.Params) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}

	err := k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		current := k.GetParams(ctx)
		if k.GetVaultState(ctx).TotalShares.IsPositive() {
			if params.FarmPoolID != current.FarmPoolID {
				return types.ErrInvalidParams.Wrap("farm pool is fixed while shares exist")
			}
			if params.ShareDenom != current.ShareDenom {
				return types.ErrInvalidParams.Wrap("share denom is fixed while shares exist")
			}
		}
		if _, err := k.VaultAsset(ctx, params); err != nil {
			return err
		}

		k.SetParams(ctx, params)
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeParams,
				sdk.NewAttribute("farm_pool_id", strconv.FormatUint(params.FarmPoolID, 10)),
				sdk.NewAttribute("lock_duration", strconv.FormatInt(params.LockDuration, 10)),
			),
		)
		return nil
	})
	if err != nil {
		return err
	}

	k.logger.Info("Vault params updated",
		"farm_pool_id", params.FarmPoolID,
		"lock_duration", params.LockDuration,
		"performance_fee_bps", params.PerformanceFeeBps,
		"call_fee_bps", params.CallFeeBps,
	)
	return nil
}

// SetPaused pauses or resumes deposits. Withdrawals and harvests continue.
func (k *Keeper) SetPaused(ctx context.Context, authority string, paused bool) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.checkAuthority(authority); err != nil {
		return err
	}

	params := k.GetParams(sdkCtx)
	params.Paused = paused
	k.SetParams(sdkCtx, params)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypePaused, sdk.NewAttribute("paused", strconv.FormatBool(paused))),
	)
	k.logger.Info("Vault pause state changed", "paused", paused)
	return nil
}

// RotateTreasury hands the treasury role from its current holder to newAddr
func (k *Keeper) RotateTreasury(ctx context.Context, holder, newAddr string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if _, err := sdk.AccAddressFromBech32(newAddr); err != nil {
		return types.ErrInvalidAddress.Wrapf("new treasury: %s", err)
	}
	current := k.GetTreasury(sdkCtx)
	if current == "" || holder != current {
		return types.ErrNotTreasuryHolder.Wrapf("%s is not the treasury", holder)
	}

	k.SetTreasury(sdkCtx, newAddr)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTreasury,
			sdk.NewAttribute("previous", current),
			sdk.NewAttribute(types.AttributeKeyUser, newAddr),
		),
	)
	k.logger.Info("Vault treasury rotated", "previous", current, "treasury", newAddr)
	return nil
}

// RecoverTokens sends tokens that landed in the vault by mistake to
// recipient. The vault asset and the share denom are never recoverable.
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

	params := k.GetParams(sdkCtx)
	if params.ShareDenom != "" && denom == params.ShareDenom {
		return types.ErrProtectedDenom.Wrapf("%s is the share denom", denom)
	}
	if pool := k.farmKeeper.GetPool(sdkCtx, params.FarmPoolID); pool != nil && pool.StakeDenom == denom {
		return types.ErrProtectedDenom.Wrapf("%s is the vault asset", denom)
	}

	err = k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, sdk.NewCoins(sdk.NewCoin(denom, amount))); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRecoverTokens,
				sdk.NewAttribute("denom", denom),
				sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
				sdk.NewAttribute(types.AttributeKeyUser, recipient),
			),
		)
		return nil
	})
	if err != nil {
		return err
	}

	k.logger.Info("Recovered tokens from vault", "denom", denom, "amount", amount.String(), "recipient", recipient)
	return nil
}
