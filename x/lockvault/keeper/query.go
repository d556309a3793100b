package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/lockvault/types"
)

// QueryServer defines the lockvault QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Params returns the vault params
func (q *QueryServer) Params(ctx context.Context) (types.Params, error) {
	return q.keeper.GetParams(sdk.UnwrapSDKContext(ctx)), nil
}

// Treasury returns the treasury address
func (q *QueryServer) Treasury(ctx context.Context) (string, error) {
	return q.keeper.GetTreasury(sdk.UnwrapSDKContext(ctx)), nil
}

// VaultState returns the share totals
func (q *QueryServer) VaultState(ctx context.Context) (types.VaultState, error) {
	return q.keeper.GetVaultState(sdk.UnwrapSDKContext(ctx)), nil
}

// UserInfo returns a depositor's record with its current value
func (q *QueryServer) UserInfo(ctx context.Context, owner string) (*types.QueryUserInfoResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if _, err := sdk.AccAddressFromBech32(owner); err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	user := q.keeper.GetUserInfo(sdkCtx, owner)
	pps, err := q.keeper.PricePerShare(sdkCtx)
	if err != nil {
		return nil, err
	}

	return &types.QueryUserInfoResponse{
		User:         user,
		CurrentValue: user.Shares.Mul(pps).Quo(types.PricePerShareScale).String(),
		Locked:       user.IsLocked(sdkCtx.BlockTime().Unix()),
	}, nil
}

// PricePerShare returns the 1e18-scaled price per share
func (q *QueryServer) PricePerShare(ctx context.Context) (*types.QueryPricePerShareResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pps, err := q.keeper.PricePerShare(sdkCtx)
	if err != nil {
		return nil, err
	}
	return &types.QueryPricePerShareResponse{
		PricePerShare: pps.String(),
		TotalShares:   q.keeper.GetVaultState(sdkCtx).TotalShares.String(),
	}, nil
}

// Underlying returns the vault's idle and staked balances
func (q *QueryServer) Underlying(ctx context.Context) (*types.QueryUnderlyingResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := q.keeper.GetParams(sdkCtx)
	denom, err := q.keeper.VaultAsset(sdkCtx, params)
	if err != nil {
		return nil, err
	}
	idle, staked := q.keeper.Underlying(sdkCtx, params, denom)
	return &types.QueryUnderlyingResponse{
		Idle:   idle.String(),
		Staked: staked.String(),
		Total:  idle.Add(staked).String(),
	}, nil
}

// PendingHarvest returns the farm reward the next harvest would claim
func (q *QueryServer) PendingHarvest(ctx context.Context) (string, error) {
	pending, err := q.keeper.PendingHarvest(sdk.UnwrapSDKContext(ctx))
	if err != nil {
		return "", err
	}
	return pending.String(), nil
}

// Actions returns the most recent vault actions
func (q *QueryServer) Actions(ctx context.Context, limit uint64) ([]*types.VaultAction, error) {
	return q.keeper.GetActions(sdk.UnwrapSDKContext(ctx), limit), nil
}
