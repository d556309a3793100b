package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/farm/types"
)

// QueryServer defines the farm QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Params returns the module params
func (q *QueryServer) Params(ctx context.Context) (types.Params, error) {
	return q.keeper.GetParams(sdk.UnwrapSDKContext(ctx)), nil
}

// Recipients returns the emission and fee recipients
func (q *QueryServer) Recipients(ctx context.Context) (types.Recipients, error) {
	return q.keeper.GetRecipients(sdk.UnwrapSDKContext(ctx)), nil
}

// Pool returns a pool by ID
func (q *QueryServer) Pool(ctx context.Context, pid uint64) (*types.Pool, error) {
	pool := q.keeper.GetPool(sdk.UnwrapSDKContext(ctx), pid)
	if pool == nil {
		return nil, types.ErrPoolNotFound.Wrapf("pool %d", pid)
	}
	return pool, nil
}

// Pools returns a page of pools
func (q *QueryServer) Pools(ctx context.Context, offset, limit uint64) (*types.QueryPoolsResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	allPools := q.keeper.GetAllPools(sdkCtx)
	total := uint64(len(allPools))

	resp := &types.QueryPoolsResponse{
		Pools:       []*types.Pool{},
		Total:       total,
		TotalWeight: q.keeper.GetTotalWeight(sdkCtx),
	}
	if offset >= total {
		return resp, nil
	}
	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}
	resp.Pools = allPools[offset:end]
	return resp, nil
}

// PoolLength returns the number of pools
func (q *QueryServer) PoolLength(ctx context.Context) (uint64, error) {
	return q.keeper.PoolLength(sdk.UnwrapSDKContext(ctx)), nil
}

// TotalWeight returns the sum of pool weights
func (q *QueryServer) TotalWeight(ctx context.Context) (uint64, error) {
	return q.keeper.GetTotalWeight(sdk.UnwrapSDKContext(ctx)), nil
}

// Position returns a user's position with its pending reward
func (q *QueryServer) Position(ctx context.Context, pid uint64, user string) (*types.QueryPositionResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if q.keeper.GetPool(sdkCtx, pid) == nil {
		return nil, types.ErrPoolNotFound.Wrapf("pool %d", pid)
	}
	pending, err := q.keeper.PendingReward(ctx, pid, user)
	if err != nil {
		return nil, err
	}
	return &types.QueryPositionResponse{
		Position:      q.keeper.GetPosition(sdkCtx, pid, user),
		PendingReward: pending.String(),
	}, nil
}

// PendingReward returns the user's pending primary and rewarder rewards
func (q *QueryServer) PendingReward(ctx context.Context, pid uint64, user string) (*types.QueryPendingRewardResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	addr, err := sdk.AccAddressFromBech32(user)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("user: %s", err)
	}

	pending, err := q.keeper.PendingReward(ctx, pid, user)
	if err != nil {
		return nil, err
	}
	resp := &types.QueryPendingRewardResponse{
		PoolID:  pid,
		User:    user,
		Pending: pending.String(),
	}

	coin, ok, err := q.keeper.PendingRewarderReward(sdkCtx, pid, addr)
	if err != nil {
		return nil, err
	}
	if ok {
		resp.RewarderPending = coin.String()
	}
	return resp, nil
}
