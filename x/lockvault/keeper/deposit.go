package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/metrics"
	"github.com/openalpha/farmchain/x/lockvault/types"
)

// Deposit converts amount of the vault asset into shares at the current
// underlying value and restarts the depositor's lock window.
func (k *Keeper) Deposit(ctx context.Context, depositor string, amount math.Int) (math.Int, *types.UserInfo, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr, err := sdk.AccAddressFromBech32(depositor)
	if err != nil {
		return math.ZeroInt(), nil, types.ErrInvalidAddress.Wrapf("depositor: %s", err)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), nil, types.ErrInvalidAmount.Wrap("deposit amount must be positive")
	}

	shares := math.ZeroInt()
	var user *types.UserInfo
	err = k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		s, u, err := k.deposit(ctx, addr, amount)
		shares, user = s, u
		return err
	})
	if err != nil {
		return math.ZeroInt(), nil, err
	}

	metrics.GetCollector().RecordVaultAction(types.ActionDeposit)
	k.logger.Info("Vault deposit processed",
		"depositor", depositor,
		"amount", amount.String(),
		"shares", shares.String(),
		"lock_end", user.LockEndTime,
	)
	return shares, user, nil
}

func (k *Keeper) deposit(ctx sdk.Context, addr sdk.AccAddress, amount math.Int) (math.Int, *types.UserInfo, error) {
	params := k.GetParams(ctx)
	if params.Paused {
		return math.ZeroInt(), nil, types.ErrPaused
	}
	if amount.LT(params.MinDeposit) {
		return math.ZeroInt(), nil, types.ErrDepositTooSmall.Wrapf("%s < %s", amount, params.MinDeposit)
	}
	if err := k.checkDirectCaller(ctx, addr); err != nil {
		return math.ZeroInt(), nil, err
	}

	denom, err := k.VaultAsset(ctx, params)
	if err != nil {
		return math.ZeroInt(), nil, err
	}
	if _, err := k.harvest(ctx, params, denom); err != nil {
		return math.ZeroInt(), nil, err
	}

	state := k.GetVaultState(ctx)
	if state.TotalShares.IsZero() {
		if _, err := k.sweep(ctx, params, denom); err != nil {
			return math.ZeroInt(), nil, err
		}
	}

	idle, staked := k.Underlying(ctx, params, denom)
	pool := idle.Add(staked)

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, addr, types.ModuleName, coins); err != nil {
		return math.ZeroInt(), nil, err
	}

	shares := types.SharesForDeposit(amount, pool, state.TotalShares)
	if !shares.IsPositive() {
		return math.ZeroInt(), nil, types.ErrZeroShares.Wrapf("deposit of %s", amount)
	}

	now := ctx.BlockTime().Unix()
	user := k.GetUserInfo(ctx, addr.String())
	user.Shares = user.Shares.Add(shares)
	state.TotalShares = state.TotalShares.Add(shares)
	user.Relock(now, params.LockDuration)
	user.LastActionTime = now
	user.ValueAtLastAction = types.ValueOfShares(user.Shares, pool.Add(amount), state.TotalShares)
	k.SetUserInfo(ctx, user)
	k.SetVaultState(ctx, state)

	if err := k.earn(ctx, params, denom); err != nil {
		return math.ZeroInt(), nil, err
	}
	if err := k.mintShareToken(ctx, params, addr, shares); err != nil {
		return math.ZeroInt(), nil, err
	}

	pps := types.PricePerShare(pool.Add(amount), state.TotalShares)
	action := k.recordAction(ctx, addr.String(), types.ActionDeposit, amount, shares, pps)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyUser, addr.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyLockEnd, strconv.FormatInt(user.LockEndTime, 10)),
			sdk.NewAttribute(types.AttributeKeyActionID, action.ID),
		),
	)
	return shares, user, nil
}

// mintShareToken mirrors newly issued shares as a bank token
func (k *Keeper) mintShareToken(ctx sdk.Context, params types.Params, to sdk.AccAddress, shares math.Int) error {
	if params.ShareDenom == "" {
		return nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(params.ShareDenom, shares))
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, coins); err != nil {
		return err
	}
	return k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, coins)
}

// burnShareToken takes the mirror token back from the owner and burns it
func (k *Keeper) burnShareToken(ctx sdk.Context, params types.Params, from sdk.AccAddress, shares math.Int) error {
	if params.ShareDenom == "" {
		return nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(params.ShareDenom, shares))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, from, types.ModuleName, coins); err != nil {
		return err
	}
	return k.bankKeeper.BurnCoins(ctx, types.ModuleName, coins)
}
