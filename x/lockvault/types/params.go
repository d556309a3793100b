package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DefaultLockDuration is 30 days
const DefaultLockDuration int64 = 30 * 24 * 60 * 60

// Params holds the lock vault configuration
type Params struct {
	FarmPoolID        uint64   `json:"farm_pool_id"`
	LockDuration      int64    `json:"lock_duration"`
	MinDeposit        math.Int `json:"min_deposit"`
	MinWithdraw       math.Int `json:"min_withdraw"`
	PerformanceFeeBps uint32   `json:"performance_fee_bps"`
	CallFeeBps        uint32   `json:"call_fee_bps"`
	ShareDenom        string   `json:"share_denom,omitempty"`
	Paused            bool     `json:"paused"`
}

// DefaultParams returns the default vault params
func DefaultParams() Params {
	return Params{
		FarmPoolID:        0,
		LockDuration:      DefaultLockDuration,
		MinDeposit:        math.NewInt(1000),
		MinWithdraw:       math.NewInt(1000),
		PerformanceFeeBps: 200,
		CallFeeBps:        25,
		ShareDenom:        "ulockshare",
	}
}

// Validate checks the params
func (p Params) Validate() error {
	if p.LockDuration < 0 {
		return ErrInvalidParams.Wrap("lock duration must be non-negative")
	}
	if p.MinDeposit.IsNil() || p.MinDeposit.IsNegative() {
		return ErrInvalidParams.Wrap("min deposit must be non-negative")
	}
	if p.MinWithdraw.IsNil() || p.MinWithdraw.IsNegative() {
		return ErrInvalidParams.Wrap("min withdraw must be non-negative")
	}
	if p.PerformanceFeeBps > PerformanceFeeMaxBps {
		return ErrInvalidParams.Wrapf("performance fee %d > %d", p.PerformanceFeeBps, PerformanceFeeMaxBps)
	}
	if p.CallFeeBps > CallFeeMaxBps {
		return ErrInvalidParams.Wrapf("call fee %d > %d", p.CallFeeBps, CallFeeMaxBps)
	}
	if p.ShareDenom != "" {
		if err := sdk.ValidateDenom(p.ShareDenom); err != nil {
			return ErrInvalidParams.Wrap(fmt.Sprintf("share denom: %s", err))
		}
	}
	return nil
}
