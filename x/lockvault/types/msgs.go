package types

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgVaultDeposit       = "vault_deposit"
	TypeMsgVaultWithdraw      = "vault_withdraw"
	TypeMsgVaultWithdrawAll   = "vault_withdraw_all"
	TypeMsgVaultHarvest       = "vault_harvest"
	TypeMsgUpdateVaultParams  = "update_vault_params"
	TypeMsgSetVaultPaused     = "set_vault_paused"
	TypeMsgSetVaultTreasury   = "set_vault_treasury"
	TypeMsgVaultRecoverTokens = "vault_recover_tokens"
)

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgVaultDeposit{},
		&MsgVaultWithdraw{},
		&MsgVaultWithdrawAll{},
		&MsgVaultHarvest{},
		&MsgUpdateVaultParams{},
		&MsgSetVaultPaused{},
		&MsgSetVaultTreasury{},
		&MsgVaultRecoverTokens{},
	)
}

// MsgServer defines the lockvault module's message service
type MsgServer interface {
	Deposit(context.Context, *MsgVaultDeposit) (*MsgVaultDepositResponse, error)
	Withdraw(context.Context, *MsgVaultWithdraw) (*MsgVaultWithdrawResponse, error)
	WithdrawAll(context.Context, *MsgVaultWithdrawAll) (*MsgVaultWithdrawResponse, error)
	Harvest(context.Context, *MsgVaultHarvest) (*MsgVaultHarvestResponse, error)
	UpdateParams(context.Context, *MsgUpdateVaultParams) (*MsgEmptyResponse, error)
	SetPaused(context.Context, *MsgSetVaultPaused) (*MsgEmptyResponse, error)
	SetTreasury(context.Context, *MsgSetVaultTreasury) (*MsgEmptyResponse, error)
	RecoverTokens(context.Context, *MsgVaultRecoverTokens) (*MsgEmptyResponse, error)
}

func signer(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return ErrInvalidAddress.Wrapf("%s: %s", field, err)
	}
	return nil
}

// ParsePositiveAmount parses a strictly positive integer amount
func ParsePositiveAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(s)
	if !ok || !amount.IsPositive() {
		return math.Int{}, ErrInvalidAmount.Wrapf("%q", s)
	}
	return amount, nil
}

// MsgEmptyResponse is returned by messages with no result payload
type MsgEmptyResponse struct{}

// MsgVaultDeposit deposits Amount of the underlying asset
type MsgVaultDeposit struct {
	Depositor string `json:"depositor"`
	Amount    string `json:"amount"`
}

func (msg MsgVaultDeposit) Route() string { return ModuleName }
func (msg MsgVaultDeposit) Type() string  { return TypeMsgVaultDeposit }

// ValidateBasic implements sdk.Msg
func (msg MsgVaultDeposit) ValidateBasic() error {
	if err := validateAddress("depositor", msg.Depositor); err != nil {
		return err
	}
	_, err := ParsePositiveAmount(msg.Amount)
	return err
}

func (msg MsgVaultDeposit) GetSigners() []sdk.AccAddress { return signer(msg.Depositor) }
func (*MsgVaultDeposit) ProtoMessage()                  {}
func (msg *MsgVaultDeposit) Reset()                     { *msg = MsgVaultDeposit{} }
func (msg MsgVaultDeposit) String() string {
	return fmt.Sprintf("MsgVaultDeposit{Depositor: %s, Amount: %s}", msg.Depositor, msg.Amount)
}

// MsgVaultDepositResponse returns the shares minted and the lock end
type MsgVaultDepositResponse struct {
	SharesMinted string `json:"shares_minted"`
	LockEndTime  int64  `json:"lock_end_time"`
}

// MsgVaultWithdraw withdraws Amount of the underlying asset
type MsgVaultWithdraw struct {
	Withdrawer string `json:"withdrawer"`
	Amount     string `json:"amount"`
}

func (msg MsgVaultWithdraw) Route() string { return ModuleName }
func (msg MsgVaultWithdraw) Type() string  { return TypeMsgVaultWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgVaultWithdraw) ValidateBasic() error {
	if err := validateAddress("withdrawer", msg.Withdrawer); err != nil {
		return err
	}
	_, err := ParsePositiveAmount(msg.Amount)
	return err
}

func (msg MsgVaultWithdraw) GetSigners() []sdk.AccAddress { return signer(msg.Withdrawer) }
func (*MsgVaultWithdraw) ProtoMessage()                  {}
func (msg *MsgVaultWithdraw) Reset()                     { *msg = MsgVaultWithdraw{} }
func (msg MsgVaultWithdraw) String() string {
	return fmt.Sprintf("MsgVaultWithdraw{Withdrawer: %s, Amount: %s}", msg.Withdrawer, msg.Amount)
}

// MsgVaultWithdrawResponse returns the shares burned and the payout
type MsgVaultWithdrawResponse struct {
	SharesBurned string `json:"shares_burned"`
	Payout       string `json:"payout"`
}

// MsgVaultWithdrawAll redeems every share of the sender
type MsgVaultWithdrawAll struct {
	Withdrawer string `json:"withdrawer"`
}

func (msg MsgVaultWithdrawAll) Route() string                { return ModuleName }
func (msg MsgVaultWithdrawAll) Type() string                 { return TypeMsgVaultWithdrawAll }
func (msg MsgVaultWithdrawAll) ValidateBasic() error         { return validateAddress("withdrawer", msg.Withdrawer) }
func (msg MsgVaultWithdrawAll) GetSigners() []sdk.AccAddress { return signer(msg.Withdrawer) }
func (*MsgVaultWithdrawAll) ProtoMessage()                  {}
func (msg *MsgVaultWithdrawAll) Reset()                     { *msg = MsgVaultWithdrawAll{} }
func (msg MsgVaultWithdrawAll) String() string {
	return fmt.Sprintf("MsgVaultWithdrawAll{Withdrawer: %s}", msg.Withdrawer)
}

// MsgVaultHarvest compounds the vault's farm rewards and pays a call fee
type MsgVaultHarvest struct {
	Caller string `json:"caller"`
}

func (msg MsgVaultHarvest) Route() string                { return ModuleName }
func (msg MsgVaultHarvest) Type() string                 { return TypeMsgVaultHarvest }
func (msg MsgVaultHarvest) ValidateBasic() error         { return validateAddress("caller", msg.Caller) }
func (msg MsgVaultHarvest) GetSigners() []sdk.AccAddress { return signer(msg.Caller) }
func (*MsgVaultHarvest) ProtoMessage()                  {}
func (msg *MsgVaultHarvest) Reset()                     { *msg = MsgVaultHarvest{} }
func (msg MsgVaultHarvest) String() string {
	return fmt.Sprintf("MsgVaultHarvest{Caller: %s}", msg.Caller)
}

// MsgVaultHarvestResponse returns the harvested amount and the call fee
type MsgVaultHarvestResponse struct {
	Harvested string `json:"harvested"`
	CallFee   string `json:"call_fee"`
}

// MsgUpdateVaultParams replaces the vault params
type MsgUpdateVaultParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

func (msg MsgUpdateVaultParams) Route() string { return ModuleName }
func (msg MsgUpdateVaultParams) Type() string  { return TypeMsgUpdateVaultParams }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateVaultParams) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	return msg.Params.Validate()
}

func (msg MsgUpdateVaultParams) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgUpdateVaultParams) ProtoMessage()                  {}
func (msg *MsgUpdateVaultParams) Reset()                     { *msg = MsgUpdateVaultParams{} }
func (msg MsgUpdateVaultParams) String() string {
	return fmt.Sprintf("MsgUpdateVaultParams{Authority: %s}", msg.Authority)
}

// MsgSetVaultPaused pauses or resumes vault deposits
type MsgSetVaultPaused struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`
}

func (msg MsgSetVaultPaused) Route() string                { return ModuleName }
func (msg MsgSetVaultPaused) Type() string                 { return TypeMsgSetVaultPaused }
func (msg MsgSetVaultPaused) ValidateBasic() error         { return validateAddress("authority", msg.Authority) }
func (msg MsgSetVaultPaused) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgSetVaultPaused) ProtoMessage()                  {}
func (msg *MsgSetVaultPaused) Reset()                     { *msg = MsgSetVaultPaused{} }
func (msg MsgSetVaultPaused) String() string {
	return fmt.Sprintf("MsgSetVaultPaused{Paused: %t}", msg.Paused)
}

// MsgSetVaultTreasury hands the treasury role to a new address
type MsgSetVaultTreasury struct {
	Holder     string `json:"holder"`
	NewAddress string `json:"new_address"`
}

func (msg MsgSetVaultTreasury) Route() string { return ModuleName }
func (msg MsgSetVaultTreasury) Type() string  { return TypeMsgSetVaultTreasury }

// ValidateBasic implements sdk.Msg
func (msg MsgSetVaultTreasury) ValidateBasic() error {
	if err := validateAddress("holder", msg.Holder); err != nil {
		return err
	}
	return validateAddress("new address", msg.NewAddress)
}

func (msg MsgSetVaultTreasury) GetSigners() []sdk.AccAddress { return signer(msg.Holder) }
func (*MsgSetVaultTreasury) ProtoMessage()                  {}
func (msg *MsgSetVaultTreasury) Reset()                     { *msg = MsgSetVaultTreasury{} }
func (msg MsgSetVaultTreasury) String() string {
	return fmt.Sprintf("MsgSetVaultTreasury{NewAddress: %s}", msg.NewAddress)
}

// MsgVaultRecoverTokens sends stray tokens held by the vault to Recipient
type MsgVaultRecoverTokens struct {
	Authority string `json:"authority"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
}

func (msg MsgVaultRecoverTokens) Route() string { return ModuleName }
func (msg MsgVaultRecoverTokens) Type() string  { return TypeMsgVaultRecoverTokens }

// ValidateBasic implements sdk.Msg
func (msg MsgVaultRecoverTokens) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	if err := validateAddress("recipient", msg.Recipient); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return ErrInvalidParams.Wrap(err.Error())
	}
	_, err := ParsePositiveAmount(msg.Amount)
	return err
}

func (msg MsgVaultRecoverTokens) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgVaultRecoverTokens) ProtoMessage()                  {}
func (msg *MsgVaultRecoverTokens) Reset()                     { *msg = MsgVaultRecoverTokens{} }
func (msg MsgVaultRecoverTokens) String() string {
	return fmt.Sprintf("MsgVaultRecoverTokens{Denom: %s, Amount: %s}", msg.Denom, msg.Amount)
}

// Type URLs for the interface registry
func (*MsgVaultDeposit) XXX_MessageName() string     { return "farmchain.lockvault.v1.MsgVaultDeposit" }
func (*MsgVaultWithdraw) XXX_MessageName() string    { return "farmchain.lockvault.v1.MsgVaultWithdraw" }
func (*MsgVaultWithdrawAll) XXX_MessageName() string { return "farmchain.lockvault.v1.MsgVaultWithdrawAll" }
func (*MsgVaultHarvest) XXX_MessageName() string     { return "farmchain.lockvault.v1.MsgVaultHarvest" }
func (*MsgUpdateVaultParams) XXX_MessageName() string {
	return "farmchain.lockvault.v1.MsgUpdateVaultParams"
}
func (*MsgSetVaultPaused) XXX_MessageName() string { return "farmchain.lockvault.v1.MsgSetVaultPaused" }
func (*MsgSetVaultTreasury) XXX_MessageName() string {
	return "farmchain.lockvault.v1.MsgSetVaultTreasury"
}
func (*MsgVaultRecoverTokens) XXX_MessageName() string {
	return "farmchain.lockvault.v1.MsgVaultRecoverTokens"
}
