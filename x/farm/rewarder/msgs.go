package rewarder

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// RegisterInterfaces registers the rewarder messages
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgSetRewarderPool{},
		&MsgSetRewardRate{},
		&MsgFundRewarder{},
	)
}

func signer(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

// MsgSetRewarderPool sets the rewarder weight of a farm pool
type MsgSetRewarderPool struct {
	Authority string `json:"authority"`
	PoolID    uint64 `json:"pool_id"`
	Weight    uint64 `json:"weight"`
}

func (msg MsgSetRewarderPool) Route() string { return ModuleName }
func (msg MsgSetRewarderPool) Type() string  { return "set_rewarder_pool" }

// ValidateBasic implements sdk.Msg
func (msg MsgSetRewarderPool) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Authority)
	return err
}

func (msg MsgSetRewarderPool) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgSetRewarderPool) ProtoMessage()                  {}
func (msg *MsgSetRewarderPool) Reset()                     { *msg = MsgSetRewarderPool{} }
func (msg MsgSetRewarderPool) String() string {
	return fmt.Sprintf("MsgSetRewarderPool{PoolID: %d, Weight: %d}", msg.PoolID, msg.Weight)
}
func (*MsgSetRewarderPool) XXX_MessageName() string { return "farmchain.farm.rewarder.v1.MsgSetRewarderPool" }

// MsgSetRewardRate sets the secondary reward per second
type MsgSetRewardRate struct {
	Authority       string `json:"authority"`
	RewardPerSecond string `json:"reward_per_second"`
}

func (msg MsgSetRewardRate) Route() string { return ModuleName }
func (msg MsgSetRewardRate) Type() string  { return "set_reward_rate" }

// ValidateBasic implements sdk.Msg
func (msg MsgSetRewardRate) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if rate, ok := math.NewIntFromString(msg.RewardPerSecond); !ok || rate.IsNegative() {
		return ErrInvalidAmount.Wrapf("%q", msg.RewardPerSecond)
	}
	return nil
}

func (msg MsgSetRewardRate) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgSetRewardRate) ProtoMessage()                  {}
func (msg *MsgSetRewardRate) Reset()                     { *msg = MsgSetRewardRate{} }
func (msg MsgSetRewardRate) String() string {
	return fmt.Sprintf("MsgSetRewardRate{RewardPerSecond: %s}", msg.RewardPerSecond)
}
func (*MsgSetRewardRate) XXX_MessageName() string { return "farmchain.farm.rewarder.v1.MsgSetRewardRate" }

// MsgFundRewarder tops up the rewarder's funds
type MsgFundRewarder struct {
	Funder string `json:"funder"`
	Amount string `json:"amount"`
}

func (msg MsgFundRewarder) Route() string { return ModuleName }
func (msg MsgFundRewarder) Type() string  { return "fund_rewarder" }

// ValidateBasic implements sdk.Msg
func (msg MsgFundRewarder) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Funder); err != nil {
		return err
	}
	if amount, ok := math.NewIntFromString(msg.Amount); !ok || !amount.IsPositive() {
		return ErrInvalidAmount.Wrapf("%q", msg.Amount)
	}
	return nil
}

func (msg MsgFundRewarder) GetSigners() []sdk.AccAddress { return signer(msg.Funder) }
func (*MsgFundRewarder) ProtoMessage()                  {}
func (msg *MsgFundRewarder) Reset()                     { *msg = MsgFundRewarder{} }
func (msg MsgFundRewarder) String() string {
	return fmt.Sprintf("MsgFundRewarder{Funder: %s, Amount: %s}", msg.Funder, msg.Amount)
}
func (*MsgFundRewarder) XXX_MessageName() string { return "farmchain.farm.rewarder.v1.MsgFundRewarder" }

// MsgResponse is the empty response of every rewarder message
type MsgResponse struct{}

// MsgServer handles rewarder messages
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// SetRewarderPool handles MsgSetRewarderPool
func (m *MsgServer) SetRewarderPool(ctx context.Context, msg *MsgSetRewarderPool) (*MsgResponse, error) {
	if err := m.keeper.SetPool(ctx, msg.Authority, msg.PoolID, msg.Weight); err != nil {
		return nil, err
	}
	return &MsgResponse{}, nil
}

// SetRewardRate handles MsgSetRewardRate
func (m *MsgServer) SetRewardRate(ctx context.Context, msg *MsgSetRewardRate) (*MsgResponse, error) {
	rate, ok := math.NewIntFromString(msg.RewardPerSecond)
	if !ok {
		return nil, ErrInvalidAmount.Wrapf("%q", msg.RewardPerSecond)
	}
	if err := m.keeper.SetRewardRate(ctx, msg.Authority, rate); err != nil {
		return nil, err
	}
	return &MsgResponse{}, nil
}

// FundRewarder handles MsgFundRewarder
func (m *MsgServer) FundRewarder(ctx context.Context, msg *MsgFundRewarder) (*MsgResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, ErrInvalidAmount.Wrapf("%q", msg.Amount)
	}
	if err := m.keeper.Fund(ctx, msg.Funder, amount); err != nil {
		return nil, err
	}
	return &MsgResponse{}, nil
}

// Handle validates msg and routes it to the matching MsgServer method
func (m *MsgServer) Handle(ctx context.Context, msg sdk.Msg) (any, error) {
	if v, ok := msg.(sdk.HasValidateBasic); ok {
		if err := v.ValidateBasic(); err != nil {
			return nil, err
		}
	}

	switch msg := msg.(type) {
	case *MsgSetRewarderPool:
		return m.SetRewarderPool(ctx, msg)
	case *MsgSetRewardRate:
		return m.SetRewardRate(ctx, msg)
	case *MsgFundRewarder:
		return m.FundRewarder(ctx, msg)
	default:
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", ModuleName, msg)
	}
}
