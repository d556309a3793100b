package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/openalpha/farmchain/x/lockvault/types"
)

// Handle validates msg and routes it to the matching MsgServer method
func (m *MsgServer) Handle(ctx context.Context, msg sdk.Msg) (any, error) {
	if v, ok := msg.(sdk.HasValidateBasic); ok {
		if err := v.ValidateBasic(); err != nil {
			return nil, err
		}
	}

	switch msg := msg.(type) {
	case *types.MsgVaultDeposit:
		return m.Deposit(ctx, msg)
	case *types.MsgVaultWithdraw:
		return m.Withdraw(ctx, msg)
	case *types.MsgVaultWithdrawAll:
		return m.WithdrawAll(ctx, msg)
	case *types.MsgVaultHarvest:
		return m.Harvest(ctx, msg)
	case *types.MsgUpdateVaultParams:
		return m.UpdateParams(ctx, msg)
	case *types.MsgSetVaultPaused:
		return m.SetPaused(ctx, msg)
	case *types.MsgSetVaultTreasury:
		return m.SetTreasury(ctx, msg)
	case *types.MsgVaultRecoverTokens:
		return m.RecoverTokens(ctx, msg)
	default:
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
	}
}
