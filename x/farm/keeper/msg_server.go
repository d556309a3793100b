package keeper

import (
	"context"

	"github.com/openalpha/farmchain/x/farm/types"
)

var _ types.MsgServer = (*MsgServer)(nil)

// MsgServer defines the farm MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// Deposit handles MsgDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	amount, err := types.ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	result, err := m.keeper.Deposit(ctx, msg.Depositor, msg.PoolID, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgDepositResponse{
		RewardPaid:   result.RewardPaid.String(),
		NetDeposited: result.Amount.String(),
		StakedAmount: result.Position.StakedAmount.String(),
	}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	amount, err := types.ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	result, err := m.keeper.Withdraw(ctx, msg.Withdrawer, msg.PoolID, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgWithdrawResponse{
		RewardPaid:   result.RewardPaid.String(),
		StakedAmount: result.Position.StakedAmount.String(),
	}, nil
}

// EmergencyWithdraw handles MsgEmergencyWithdraw
func (m *MsgServer) EmergencyWithdraw(ctx context.Context, msg *types.MsgEmergencyWithdraw) (*types.MsgEmergencyWithdrawResponse, error) {
	amount, err := m.keeper.EmergencyWithdraw(ctx, msg.Withdrawer, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgEmergencyWithdrawResponse{Amount: amount.String()}, nil
}

// HarvestMany handles MsgHarvestMany
func (m *MsgServer) HarvestMany(ctx context.Context, msg *types.MsgHarvestMany) (*types.MsgHarvestManyResponse, error) {
	total, err := m.keeper.HarvestMany(ctx, msg.Harvester, msg.PoolIDs)
	if err != nil {
		return nil, err
	}
	return &types.MsgHarvestManyResponse{RewardPaid: total.String()}, nil
}

// UpdatePool handles MsgUpdatePool
func (m *MsgServer) UpdatePool(ctx context.Context, msg *types.MsgUpdatePool) (*types.MsgEmptyResponse, error) {
	if _, err := m.keeper.UpdatePool(ctx, msg.PoolID); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// MassUpdatePools handles MsgMassUpdatePools
func (m *MsgServer) MassUpdatePools(ctx context.Context, msg *types.MsgMassUpdatePools) (*types.MsgEmptyResponse, error) {
	if err := m.keeper.MassUpdatePools(ctx); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// AddPool handles MsgAddPool
func (m *MsgServer) AddPool(ctx context.Context, msg *types.MsgAddPool) (*types.MsgAddPoolResponse, error) {
	pool, err := m.keeper.AddPool(ctx, msg.Authority, msg.StakeDenom, msg.Weight, msg.DepositFeeBps, msg.Rewarder, msg.WithUpdate)
	if err != nil {
		return nil, err
	}
	return &types.MsgAddPoolResponse{PoolID: pool.ID}, nil
}

// SetPool handles MsgSetPool
func (m *MsgServer) SetPool(ctx context.Context, msg *types.MsgSetPool) (*types.MsgEmptyResponse, error) {
	_, err := m.keeper.SetPool(ctx, msg.Authority, msg.PoolID, msg.Weight, msg.DepositFeeBps, msg.Rewarder, msg.OverwriteRewarder, msg.WithUpdate)
	if err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// UpdateEmissionRate handles MsgUpdateEmissionRate
func (m *MsgServer) UpdateEmissionRate(ctx context.Context, msg *types.MsgUpdateEmissionRate) (*types.MsgEmptyResponse, error) {
	rate, err := types.ParseAmount(msg.RewardPerSecond)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.UpdateEmissionRate(ctx, msg.Authority, rate); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// UpdateSplits handles MsgUpdateSplits
func (m *MsgServer) UpdateSplits(ctx context.Context, msg *types.MsgUpdateSplits) (*types.MsgEmptyResponse, error) {
	if err := m.keeper.UpdateSplits(ctx, msg.Authority, msg.DevBps, msg.TreasuryBps, msg.InvestorBps); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// SetRecipient handles MsgSetRecipient
func (m *MsgServer) SetRecipient(ctx context.Context, msg *types.MsgSetRecipient) (*types.MsgEmptyResponse, error) {
	if err := m.keeper.SetRecipient(ctx, msg.Holder, msg.Role, msg.NewAddress); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// SetPaused handles MsgSetPaused
func (m *MsgServer) SetPaused(ctx context.Context, msg *types.MsgSetPaused) (*types.MsgEmptyResponse, error) {
	if err := m.keeper.SetPaused(ctx, msg.Authority, msg.Paused); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// RecoverTokens handles MsgRecoverTokens
func (m *MsgServer) RecoverTokens(ctx context.Context, msg *types.MsgRecoverTokens) (*types.MsgEmptyResponse, error) {
	amount, err := types.ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.RecoverTokens(ctx, msg.Authority, msg.Denom, amount, msg.Recipient); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}
