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
	TypeMsgDeposit            = "deposit"
	TypeMsgWithdraw           = "withdraw"
	TypeMsgEmergencyWithdraw  = "emergency_withdraw"
	TypeMsgHarvestMany        = "harvest_many"
	TypeMsgUpdatePool         = "update_pool"
	TypeMsgMassUpdatePools    = "mass_update_pools"
	TypeMsgAddPool            = "add_pool"
	TypeMsgSetPool            = "set_pool"
	TypeMsgUpdateEmissionRate = "update_emission_rate"
	TypeMsgUpdateSplits       = "update_splits"
	TypeMsgSetRecipient       = "set_recipient"
	TypeMsgSetPaused          = "set_paused"
	TypeMsgRecoverTokens      = "recover_tokens"
)

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgDeposit{},
		&MsgWithdraw{},
		&MsgEmergencyWithdraw{},
		&MsgHarvestMany{},
		&MsgUpdatePool{},
		&MsgMassUpdatePools{},
		&MsgAddPool{},
		&MsgSetPool{},
		&MsgUpdateEmissionRate{},
		&MsgUpdateSplits{},
		&MsgSetRecipient{},
		&MsgSetPaused{},
		&MsgRecoverTokens{},
	)
}

// MsgServer defines the farm module's message service
type MsgServer interface {
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	EmergencyWithdraw(context.Context, *MsgEmergencyWithdraw) (*MsgEmergencyWithdrawResponse, error)
	HarvestMany(context.Context, *MsgHarvestMany) (*MsgHarvestManyResponse, error)
	UpdatePool(context.Context, *MsgUpdatePool) (*MsgEmptyResponse, error)
	MassUpdatePools(context.Context, *MsgMassUpdatePools) (*MsgEmptyResponse, error)
	AddPool(context.Context, *MsgAddPool) (*MsgAddPoolResponse, error)
	SetPool(context.Context, *MsgSetPool) (*MsgEmptyResponse, error)
	UpdateEmissionRate(context.Context, *MsgUpdateEmissionRate) (*MsgEmptyResponse, error)
	UpdateSplits(context.Context, *MsgUpdateSplits) (*MsgEmptyResponse, error)
	SetRecipient(context.Context, *MsgSetRecipient) (*MsgEmptyResponse, error)
	SetPaused(context.Context, *MsgSetPaused) (*MsgEmptyResponse, error)
	RecoverTokens(context.Context, *MsgRecoverTokens) (*MsgEmptyResponse, error)
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

// ParseAmount parses a non-negative integer amount
func ParseAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(s)
	if !ok || amount.IsNegative() {
		return math.Int{}, ErrInvalidAmount.Wrapf("%q", s)
	}
	return amount, nil
}

// MsgEmptyResponse is returned by messages with no result payload
type MsgEmptyResponse struct{}

// ============ User messages ============

// MsgDeposit stakes Amount into a pool. Amount "0" harvests only.
type MsgDeposit struct {
	Depositor string `json:"depositor"`
	PoolID    uint64 `json:"pool_id"`
	Amount    string `json:"amount"`
}

func (msg MsgDeposit) Route() string { return ModuleName }
func (msg MsgDeposit) Type() string  { return TypeMsgDeposit }

// ValidateBasic implements sdk.Msg
func (msg MsgDeposit) ValidateBasic() error {
	if err := validateAddress("depositor", msg.Depositor); err != nil {
		return err
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

func (msg MsgDeposit) GetSigners() []sdk.AccAddress { return signer(msg.Depositor) }
func (*MsgDeposit) ProtoMessage()                  {}
func (msg *MsgDeposit) Reset()                     { *msg = MsgDeposit{} }
func (msg MsgDeposit) String() string {
	return fmt.Sprintf("MsgDeposit{Depositor: %s, PoolID: %d, Amount: %s}", msg.Depositor, msg.PoolID, msg.Amount)
}

// MsgDepositResponse returns the reward paid and the net amount staked
type MsgDepositResponse struct {
	RewardPaid   string `json:"reward_paid"`
	NetDeposited string `json:"net_deposited"`
	StakedAmount string `json:"staked_amount"`
}

// MsgWithdraw unstakes Amount from a pool
type MsgWithdraw struct {
	Withdrawer string `json:"withdrawer"`
	PoolID     uint64 `json:"pool_id"`
	Amount     string `json:"amount"`
}

func (msg MsgWithdraw) Route() string { return ModuleName }
func (msg MsgWithdraw) Type() string  { return TypeMsgWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdraw) ValidateBasic() error {
	if err := validateAddress("withdrawer", msg.Withdrawer); err != nil {
		return err
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

func (msg MsgWithdraw) GetSigners() []sdk.AccAddress { return signer(msg.Withdrawer) }
func (*MsgWithdraw) ProtoMessage()                  {}
func (msg *MsgWithdraw) Reset()                     { *msg = MsgWithdraw{} }
func (msg MsgWithdraw) String() string {
	return fmt.Sprintf("MsgWithdraw{Withdrawer: %s, PoolID: %d, Amount: %s}", msg.Withdrawer, msg.PoolID, msg.Amount)
}

// MsgWithdrawResponse returns the reward paid and the remaining stake
type MsgWithdrawResponse struct {
	RewardPaid   string `json:"reward_paid"`
	StakedAmount string `json:"staked_amount"`
}

// MsgEmergencyWithdraw returns the whole stake and forfeits pending rewards
type MsgEmergencyWithdraw struct {
	Withdrawer string `json:"withdrawer"`
	PoolID     uint64 `json:"pool_id"`
}

func (msg MsgEmergencyWithdraw) Route() string { return ModuleName }
func (msg MsgEmergencyWithdraw) Type() string  { return TypeMsgEmergencyWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgEmergencyWithdraw) ValidateBasic() error {
	return validateAddress("withdrawer", msg.Withdrawer)
}

func (msg MsgEmergencyWithdraw) GetSigners() []sdk.AccAddress { return signer(msg.Withdrawer) }
func (*MsgEmergencyWithdraw) ProtoMessage()                  {}
func (msg *MsgEmergencyWithdraw) Reset()                     { *msg = MsgEmergencyWithdraw{} }
func (msg MsgEmergencyWithdraw) String() string {
	return fmt.Sprintf("MsgEmergencyWithdraw{Withdrawer: %s, PoolID: %d}", msg.Withdrawer, msg.PoolID)
}

// MsgEmergencyWithdrawResponse returns the amount returned
type MsgEmergencyWithdrawResponse struct {
	Amount string `json:"amount"`
}

// MsgHarvestMany harvests several pools in one call
type MsgHarvestMany struct {
	Harvester string   `json:"harvester"`
	PoolIDs   []uint64 `json:"pool_ids"`
}

func (msg MsgHarvestMany) Route() string { return ModuleName }
func (msg MsgHarvestMany) Type() string  { return TypeMsgHarvestMany }

// ValidateBasic implements sdk.Msg
func (msg MsgHarvestMany) ValidateBasic() error {
	if err := validateAddress("harvester", msg.Harvester); err != nil {
		return err
	}
	return ValidateHarvestBatch(msg.PoolIDs)
}

func (msg MsgHarvestMany) GetSigners() []sdk.AccAddress { return signer(msg.Harvester) }
func (*MsgHarvestMany) ProtoMessage()                  {}
func (msg *MsgHarvestMany) Reset()                     { *msg = MsgHarvestMany{} }
func (msg MsgHarvestMany) String() string {
	return fmt.Sprintf("MsgHarvestMany{Harvester: %s, PoolIDs: %v}", msg.Harvester, msg.PoolIDs)
}

// ValidateHarvestBatch rejects empty, oversized and duplicated batches
func ValidateHarvestBatch(pids []uint64) error {
	if len(pids) == 0 {
		return ErrInvalidAmount.Wrap("no pools to harvest")
	}
	if len(pids) > MaxHarvestBatch {
		return ErrTooManyPools.Wrapf("%d > %d", len(pids), MaxHarvestBatch)
	}
	seen := make(map[uint64]struct{}, len(pids))
	for _, pid := range pids {
		if _, ok := seen[pid]; ok {
			return ErrDuplicatePool.Wrapf("pool %d", pid)
		}
		seen[pid] = struct{}{}
	}
	return nil
}

// MsgHarvestManyResponse returns the total reward paid
type MsgHarvestManyResponse struct {
	RewardPaid string `json:"reward_paid"`
}

// MsgUpdatePool settles one pool. Anyone may send it.
type MsgUpdatePool struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
}

func (msg MsgUpdatePool) Route() string                { return ModuleName }
func (msg MsgUpdatePool) Type() string                 { return TypeMsgUpdatePool }
func (msg MsgUpdatePool) ValidateBasic() error         { return validateAddress("sender", msg.Sender) }
func (msg MsgUpdatePool) GetSigners() []sdk.AccAddress { return signer(msg.Sender) }
func (*MsgUpdatePool) ProtoMessage()                  {}
func (msg *MsgUpdatePool) Reset()                     { *msg = MsgUpdatePool{} }
func (msg MsgUpdatePool) String() string {
	return fmt.Sprintf("MsgUpdatePool{Sender: %s, PoolID: %d}", msg.Sender, msg.PoolID)
}

// MsgMassUpdatePools settles every pool. Anyone may send it.
type MsgMassUpdatePools struct {
	Sender string `json:"sender"`
}

func (msg MsgMassUpdatePools) Route() string                { return ModuleName }
func (msg MsgMassUpdatePools) Type() string                 { return TypeMsgMassUpdatePools }
func (msg MsgMassUpdatePools) ValidateBasic() error         { return validateAddress("sender", msg.Sender) }
func (msg MsgMassUpdatePools) GetSigners() []sdk.AccAddress { return signer(msg.Sender) }
func (*MsgMassUpdatePools) ProtoMessage()                  {}
func (msg *MsgMassUpdatePools) Reset()                     { *msg = MsgMassUpdatePools{} }
func (msg MsgMassUpdatePools) String() string {
	return fmt.Sprintf("MsgMassUpdatePools{Sender: %s}", msg.Sender)
}

// ============ Authority messages ============

// MsgAddPool registers a new staking pool
type MsgAddPool struct {
	Authority     string `json:"authority"`
	StakeDenom    string `json:"stake_denom"`
	Weight        uint64 `json:"weight"`
	DepositFeeBps uint32 `json:"deposit_fee_bps"`
	Rewarder      string `json:"rewarder,omitempty"`
	WithUpdate    bool   `json:"with_update"`
}

func (msg MsgAddPool) Route() string { return ModuleName }
func (msg MsgAddPool) Type() string  { return TypeMsgAddPool }

// ValidateBasic implements sdk.Msg
func (msg MsgAddPool) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.StakeDenom); err != nil {
		return ErrInvalidDenom.Wrap(err.Error())
	}
	if msg.DepositFeeBps > DepositFeeMaxBps {
		return ErrInvalidFee.Wrapf("%d > %d", msg.DepositFeeBps, DepositFeeMaxBps)
	}
	return nil
}

func (msg MsgAddPool) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgAddPool) ProtoMessage()                  {}
func (msg *MsgAddPool) Reset()                     { *msg = MsgAddPool{} }
func (msg MsgAddPool) String() string {
	return fmt.Sprintf("MsgAddPool{StakeDenom: %s, Weight: %d, DepositFeeBps: %d}", msg.StakeDenom, msg.Weight, msg.DepositFeeBps)
}

// MsgAddPoolResponse returns the new pool id
type MsgAddPoolResponse struct {
	PoolID uint64 `json:"pool_id"`
}

// MsgSetPool changes a pool's weight, fee and optionally its rewarder
type MsgSetPool struct {
	Authority         string `json:"authority"`
	PoolID            uint64 `json:"pool_id"`
	Weight            uint64 `json:"weight"`
	DepositFeeBps     uint32 `json:"deposit_fee_bps"`
	Rewarder          string `json:"rewarder,omitempty"`
	OverwriteRewarder bool   `json:"overwrite_rewarder"`
	WithUpdate        bool   `json:"with_update"`
}

func (msg MsgSetPool) Route() string { return ModuleName }
func (msg MsgSetPool) Type() string  { return TypeMsgSetPool }

// ValidateBasic implements sdk.Msg
func (msg MsgSetPool) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	if msg.DepositFeeBps > DepositFeeMaxBps {
		return ErrInvalidFee.Wrapf("%d > %d", msg.DepositFeeBps, DepositFeeMaxBps)
	}
	return nil
}

func (msg MsgSetPool) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgSetPool) ProtoMessage()                  {}
func (msg *MsgSetPool) Reset()                     { *msg = MsgSetPool{} }
func (msg MsgSetPool) String() string {
	return fmt.Sprintf("MsgSetPool{PoolID: %d, Weight: %d, DepositFeeBps: %d}", msg.PoolID, msg.Weight, msg.DepositFeeBps)
}

// MsgUpdateEmissionRate lowers or restores the emission rate up to the ceiling
type MsgUpdateEmissionRate struct {
	Authority       string `json:"authority"`
	RewardPerSecond string `json:"reward_per_second"`
}

func (msg MsgUpdateEmissionRate) Route() string { return ModuleName }
func (msg MsgUpdateEmissionRate) Type() string  { return TypeMsgUpdateEmissionRate }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateEmissionRate) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	_, err := ParseAmount(msg.RewardPerSecond)
	return err
}

func (msg MsgUpdateEmissionRate) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgUpdateEmissionRate) ProtoMessage()                  {}
func (msg *MsgUpdateEmissionRate) Reset()                     { *msg = MsgUpdateEmissionRate{} }
func (msg MsgUpdateEmissionRate) String() string {
	return fmt.Sprintf("MsgUpdateEmissionRate{RewardPerSecond: %s}", msg.RewardPerSecond)
}

// MsgUpdateSplits sets the dev/treasury/investor emission splits
type MsgUpdateSplits struct {
	Authority   string `json:"authority"`
	DevBps      uint32 `json:"dev_bps"`
	TreasuryBps uint32 `json:"treasury_bps"`
	InvestorBps uint32 `json:"investor_bps"`
}

func (msg MsgUpdateSplits) Route() string { return ModuleName }
func (msg MsgUpdateSplits) Type() string  { return TypeMsgUpdateSplits }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateSplits) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	return ValidateSplits(msg.DevBps, msg.TreasuryBps, msg.InvestorBps)
}

func (msg MsgUpdateSplits) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgUpdateSplits) ProtoMessage()                  {}
func (msg *MsgUpdateSplits) Reset()                     { *msg = MsgUpdateSplits{} }
func (msg MsgUpdateSplits) String() string {
	return fmt.Sprintf("MsgUpdateSplits{Dev: %d, Treasury: %d, Investor: %d}", msg.DevBps, msg.TreasuryBps, msg.InvestorBps)
}

// MsgSetRecipient hands a recipient role to a new address. Only the
// current holder of the role may send it.
type MsgSetRecipient struct {
	Holder     string `json:"holder"`
	Role       string `json:"role"`
	NewAddress string `json:"new_address"`
}

func (msg MsgSetRecipient) Route() string { return ModuleName }
func (msg MsgSetRecipient) Type() string  { return TypeMsgSetRecipient }

// ValidateBasic implements sdk.Msg
func (msg MsgSetRecipient) ValidateBasic() error {
	if err := validateAddress("holder", msg.Holder); err != nil {
		return err
	}
	if err := validateAddress("new address", msg.NewAddress); err != nil {
		return err
	}
	if _, ok := (Recipients{}).Get(msg.Role); !ok {
		return ErrInvalidParams.Wrapf("unknown role %q", msg.Role)
	}
	return nil
}

func (msg MsgSetRecipient) GetSigners() []sdk.AccAddress { return signer(msg.Holder) }
func (*MsgSetRecipient) ProtoMessage()                  {}
func (msg *MsgSetRecipient) Reset()                     { *msg = MsgSetRecipient{} }
func (msg MsgSetRecipient) String() string {
	return fmt.Sprintf("MsgSetRecipient{Role: %s, NewAddress: %s}", msg.Role, msg.NewAddress)
}

// MsgSetPaused pauses or resumes deposits
type MsgSetPaused struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`
}

func (msg MsgSetPaused) Route() string                { return ModuleName }
func (msg MsgSetPaused) Type() string                 { return TypeMsgSetPaused }
func (msg MsgSetPaused) ValidateBasic() error         { return validateAddress("authority", msg.Authority) }
func (msg MsgSetPaused) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgSetPaused) ProtoMessage()                  {}
func (msg *MsgSetPaused) Reset()                     { *msg = MsgSetPaused{} }
func (msg MsgSetPaused) String() string {
	return fmt.Sprintf("MsgSetPaused{Paused: %t}", msg.Paused)
}

// MsgRecoverTokens sends stray tokens held by the module to Recipient
type MsgRecoverTokens struct {
	Authority string `json:"authority"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
}

func (msg MsgRecoverTokens) Route() string { return ModuleName }
func (msg MsgRecoverTokens) Type() string  { return TypeMsgRecoverTokens }

// ValidateBasic implements sdk.Msg
func (msg MsgRecoverTokens) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	if err := validateAddress("recipient", msg.Recipient); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return ErrInvalidDenom.Wrap(err.Error())
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

func (msg MsgRecoverTokens) GetSigners() []sdk.AccAddress { return signer(msg.Authority) }
func (*MsgRecoverTokens) ProtoMessage()                  {}
func (msg *MsgRecoverTokens) Reset()                     { *msg = MsgRecoverTokens{} }
func (msg MsgRecoverTokens) String() string {
	return fmt.Sprintf("MsgRecoverTokens{Denom: %s, Amount: %s, Recipient: %s}", msg.Denom, msg.Amount, msg.Recipient)
}

// Type URLs for the interface registry
func (*MsgDeposit) XXX_MessageName() string           { return "farmchain.farm.v1.MsgDeposit" }
func (*MsgWithdraw) XXX_MessageName() string          { return "farmchain.farm.v1.MsgWithdraw" }
func (*MsgEmergencyWithdraw) XXX_MessageName() string { return "farmchain.farm.v1.MsgEmergencyWithdraw" }
func (*MsgHarvestMany) XXX_MessageName() string       { return "farmchain.farm.v1.MsgHarvestMany" }
func (*MsgUpdatePool) XXX_MessageName() string        { return "farmchain.farm.v1.MsgUpdatePool" }
func (*MsgMassUpdatePools) XXX_MessageName() string   { return "farmchain.farm.v1.MsgMassUpdatePools" }
func (*MsgAddPool) XXX_MessageName() string           { return "farmchain.farm.v1.MsgAddPool" }
func (*MsgSetPool) XXX_MessageName() string           { return "farmchain.farm.v1.MsgSetPool" }
func (*MsgUpdateEmissionRate) XXX_MessageName() string {
	return "farmchain.farm.v1.MsgUpdateEmissionRate"
}
func (*MsgUpdateSplits) XXX_MessageName() string  { return "farmchain.farm.v1.MsgUpdateSplits" }
func (*MsgSetRecipient) XXX_MessageName() string  { return "farmchain.farm.v1.MsgSetRecipient" }
func (*MsgSetPaused) XXX_MessageName() string     { return "farmchain.farm.v1.MsgSetPaused" }
func (*MsgRecoverTokens) XXX_MessageName() string { return "farmchain.farm.v1.MsgRecoverTokens" }
