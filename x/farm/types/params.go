package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Rewarder failure policies
const (
	// RewarderPolicyPropagate aborts the whole operation when a rewarder hook fails.
	RewarderPolicyPropagate = "propagate"
	// RewarderPolicyTolerate drops the hook's writes, emits an event and keeps going.
	RewarderPolicyTolerate = "tolerate"
)

const DefaultRewardDenom = "ufarm"

// Params holds the distributor configuration
type Params struct {
	RewardDenom        string   `json:"reward_denom"`
	RewardPerSecond    math.Int `json:"reward_per_second"`
	MaxRewardPerSecond math.Int `json:"max_reward_per_second"`
	RewardSupplyCap    math.Int `json:"reward_supply_cap"`
	StartTime          int64    `json:"start_time"`
	DevBps             uint32   `json:"dev_bps"`
	TreasuryBps        uint32   `json:"treasury_bps"`
	InvestorBps        uint32   `json:"investor_bps"`
	Paused             bool     `json:"paused"`
	RewarderPolicy     string   `json:"rewarder_policy"`
}

// DefaultParams returns the default distributor params
func DefaultParams() Params {
	return Params{
		RewardDenom:        DefaultRewardDenom,
		RewardPerSecond:    math.NewInt(1_000_000),
		MaxRewardPerSecond: math.NewInt(1_000_000),
		RewardSupplyCap:    math.NewInt(1_000_000_000_000_000),
		DevBps:             1000,
		TreasuryBps:        500,
		InvestorBps:        500,
		RewarderPolicy:     RewarderPolicyPropagate,
	}
}

// Validate checks the params
func (p Params) Validate() error {
	if err := sdk.ValidateDenom(p.RewardDenom); err != nil {
		return ErrInvalidParams.Wrapf("reward denom: %s", err)
	}
	if p.RewardPerSecond.IsNil() || p.RewardPerSecond.IsNegative() {
		return ErrInvalidParams.Wrap("reward per second must be non-negative")
	}
	if p.MaxRewardPerSecond.IsNil() || p.RewardPerSecond.GT(p.MaxRewardPerSecond) {
		return ErrRateAboveCeiling.Wrapf("reward per second %s", p.RewardPerSecond)
	}
	if p.RewardSupplyCap.IsNil() || !p.RewardSupplyCap.IsPositive() {
		return ErrInvalidParams.Wrap("reward supply cap must be positive")
	}
	if p.StartTime < 0 {
		return ErrInvalidParams.Wrap("start time must be non-negative")
	}
	if err := ValidateSplits(p.DevBps, p.TreasuryBps, p.InvestorBps); err != nil {
		return err
	}
	switch p.RewarderPolicy {
	case RewarderPolicyPropagate, RewarderPolicyTolerate:
	default:
		return ErrInvalidParams.Wrapf("unknown rewarder policy %q", p.RewarderPolicy)
	}
	return nil
}

// ValidateSplits checks each emission split and their sum against SplitMaxBps
func ValidateSplits(dev, treasury, investor uint32) error {
	splits := []struct {
		name string
		bps  uint32
	}{{RoleDev, dev}, {RoleTreasury, treasury}, {RoleInvestor, investor}}
	for _, s := range splits {
		if s.bps > SplitMaxBps {
			return ErrInvalidSplit.Wrapf("%s split %d > %d", s.name, s.bps, SplitMaxBps)
		}
	}
	if dev+treasury+investor > SplitMaxBps {
		return ErrInvalidSplit.Wrapf("combined split %d > %d", dev+treasury+investor, SplitMaxBps)
	}
	return nil
}

// Recipient roles
const (
	RoleDev      = "dev"
	RoleTreasury = "treasury"
	RoleInvestor = "investor"
	RoleFee      = "fee"
)

// Recipients are the emission split and deposit fee destinations. Each one
// is rotated only by its current holder.
type Recipients struct {
	Dev      string `json:"dev"`
	Treasury string `json:"treasury"`
	Investor string `json:"investor"`
	FeeSink  string `json:"fee_sink"`
}

// Get returns the holder of a role
func (r Recipients) Get(role string) (string, bool) {
	switch role {
	case RoleDev:
		return r.Dev, true
	case RoleTreasury:
		return r.Treasury, true
	case RoleInvestor:
		return r.Investor, true
	case RoleFee:
		return r.FeeSink, true
	}
	return "", false
}

// With returns a copy with the role reassigned
func (r Recipients) With(role, addr string) Recipients {
	switch role {
	case RoleDev:
		r.Dev = addr
	case RoleTreasury:
		r.Treasury = addr
	case RoleInvestor:
		r.Investor = addr
	case RoleFee:
		r.FeeSink = addr
	}
	return r
}

// Validate checks every recipient is a valid address
func (r Recipients) Validate() error {
	for _, role := range []string{RoleDev, RoleTreasury, RoleInvestor, RoleFee} {
		addr, _ := r.Get(role)
		if _, err := sdk.AccAddressFromBech32(addr); err != nil {
			return ErrInvalidAddress.Wrapf("%s recipient: %s", role, err)
		}
	}
	return nil
}
