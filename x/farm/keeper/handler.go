package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/openalpha/farmchain/x/farm/types"
)

// Handle validates msg and routes it to the matching MsgServer method
func (m *MsgServer) Handle(ctx context.Context, msg sdk.Msg) (any, error) {
	if v, ok := msg.(sdk.HasValidateBasic); ok {
		if err := v.ValidateBasic(); err != nil {
			return nil, err
		}
	}

	switch msg := msg.(type) {
	case *types.MsgDeposit:
		return m.Deposit(ctx, msg)
	case *types.MsgWithdraw:
		return m.Withdraw(ctx, msg)
	case *types.MsgEmergencyWithdraw:
		return m.EmergencyWithdraw(ctx, msg)
	case *types.MsgHarvestMany:
		return m.HarvestMany(ctx, msg)
	case *types.MsgUpdatePool:
		return m.UpdatePool(ctx, msg)
	case *types.MsgMassUpdatePools:
		return m.MassUpdatePools(ctx, msg)
	case *types.MsgAddPool:
		return m.AddPool(ctx, msg)
	case *types.MsgSetPool:
		return m.SetPool(ctx, msg)
	case *types.MsgUpdateEmissionRate:
		return m.UpdateEmissionRate(ctx, msg)
	case *types.MsgUpdateSplits:
		return m.UpdateSplits(ctx, msg)
	case *types.MsgSetRecipient:
		return m.SetRecipient(ctx, msg)
	case *types.MsgSetPaused:
		return m.SetPaused(ctx, msg)
	case *types.MsgRecoverTokens:
		return m.RecoverTokens(ctx, msg)
	default:
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
	}
}
