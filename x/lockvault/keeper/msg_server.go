package keeper

import (
	"context"

	"github.com/openalpha/farmchain/x/lockvault/types"
)

var _ types.MsgServer = (*MsgServer)(nil)

// MsgServer defines the lockvault MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// Deposit handles MsgVaultDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgVaultDeposit) (*types.MsgVaultDepositResponse, error) {
	amount, err := types.ParsePositiveAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	shares, user, err := m.keeper.Deposit(ctx, msg.Depositor, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgVaultDepositResponse{
		SharesMinted: shares.String(),
		LockEndTime:  user.LockEndTime,
	}, nil
}

// Withdraw handles MsgVaultWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgVaultWithdraw) (*types.MsgVaultWithdrawResponse, error) {
	amount, err := types.ParsePositiveAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	shares, payout, err := m.keeper.Withdraw(ctx, msg.Withdrawer, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgVaultWithdrawResponse{SharesBurned: shares.String(), Payout: payout.String()}, nil
}

// WithdrawAll handles MsgVaultWithdrawAll
func (m *MsgServer) WithdrawAll(ctx context.Context, msg *types.MsgVaultWithdrawAll) (*types.MsgVaultWithdrawResponse, error) {
	shares, payout, err := m.keeper.WithdrawAll(ctx, msg.Withdrawer)
	if err != nil {
		return nil, err
	}

	return &types.MsgVaultWithdrawResponse{SharesBurned: shares.String(), Payout: payout.String()}, nil
}

// Harvest handles MsgVaultHarvest
func (m *MsgServer) Harvest(ctx context.Context, msg *types.MsgVaultHarvest) (*types.MsgVaultHarvestResponse, error) {
	harvested, callFee, err := m.keeper.Harvest(ctx, msg.Caller)
	if err != nil {
		return nil, err
	}

	return &types.MsgVaultHarvestResponse{Harvested: harvested.String(), CallFee: callFee.String()}, nil
}

// UpdateParams handles MsgUpdateVaultParams
func (m *MsgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateVaultParams) (*types.MsgEmptyResponse, error) {
	if err := m.keeper.UpdateParams(ctx, msg.Authority, msg.Params); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// SetPaused handles MsgSetVaultPaused
func (m *MsgServer) SetPaused(ctx context.Context, msg *types.MsgSetVaultPaused) (*types.MsgEmptyResponse, error) {
	if err := m.keeper.SetPaused(ctx, msg.Authority, msg.Paused); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// SetTreasury handles MsgSetVaultTreasury
func (m *MsgServer) SetTreasury(ctx context.Context, msg *types.MsgSetVaultTreasury) (*types.MsgEmptyResponse, error) {
	if err := m.keeper.RotateTreasury(ctx, msg.Holder, msg.NewAddress); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// RecoverTokens handles MsgVaultRecoverTokens
func (m *MsgServer) RecoverTokens(ctx context.Context, msg *types.MsgVaultRecoverTokens) (*types.MsgEmptyResponse, error) {
	amount, err := types.ParsePositiveAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.RecoverTokens(ctx, msg.Authority, msg.Denom, amount, msg.Recipient); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}
