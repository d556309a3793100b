package types

import (
	"math/bits"

	"cosmossdk.io/math"
)

// Pool is a staking pool. Pools are append-only and indexed by ID.
type Pool struct {
	ID                uint64   `json:"id"`
	StakeDenom        string   `json:"stake_denom"`
	Weight            uint64   `json:"weight"`
	LastAccrualTime   int64    `json:"last_accrual_time"`
	AccRewardPerShare math.Int `json:"acc_reward_per_share"`
	DepositFeeBps     uint32   `json:"deposit_fee_bps"`
	Rewarder          string   `json:"rewarder,omitempty"`
	TotalStaked       math.Int `json:"total_staked"`
}

// NewPool creates a pool with an empty accumulator
func NewPool(id uint64, denom string, weight uint64, feeBps uint32, rewarder string, startTime int64) *Pool {
	return &Pool{
		ID:                id,
		StakeDenom:        denom,
		Weight:            weight,
		LastAccrualTime:   startTime,
		AccRewardPerShare: math.ZeroInt(),
		DepositFeeBps:     feeBps,
		Rewarder:          rewarder,
		TotalStaked:       math.ZeroInt(),
	}
}

// RewardDebtFor returns stake * acc / PRECISION
func (p *Pool) RewardDebtFor(stake math.Int) math.Int {
	return stake.Mul(p.AccRewardPerShare).Quo(Precision)
}

// UserPosition is a user's stake in one pool
type UserPosition struct {
	PoolID       uint64   `json:"pool_id"`
	Owner        string   `json:"owner"`
	StakedAmount math.Int `json:"staked_amount"`
	RewardDebt   math.Int `json:"reward_debt"`
}

// NewUserPosition returns an empty position
func NewUserPosition(pid uint64, owner string) *UserPosition {
	return &UserPosition{
		PoolID:       pid,
		Owner:        owner,
		StakedAmount: math.ZeroInt(),
		RewardDebt:   math.ZeroInt(),
	}
}

// Pending returns the reward owed to the position at the pool's accumulator.
func (u *UserPosition) Pending(pool *Pool) math.Int {
	if u.StakedAmount.IsZero() {
		return math.ZeroInt()
	}
	pending := pool.RewardDebtFor(u.StakedAmount).Sub(u.RewardDebt)
	if pending.IsNegative() {
		return math.ZeroInt()
	}
	return pending
}

// Rebase resets the reward debt after a stake change
func (u *UserPosition) Rebase(pool *Pool) {
	u.RewardDebt = pool.RewardDebtFor(u.StakedAmount)
}

// EmissionSplit is how one settlement's gross emission is divided
type EmissionSplit struct {
	Gross    math.Int
	Dev      math.Int
	Treasury math.Int
	Investor math.Int
	Pool     math.Int
}

// ReweighTotal returns total with one pool's weight moved from old to weight.
// ok is false when the new total does not fit in a uint64.
func ReweighTotal(total, old, weight uint64) (uint64, bool) {
	sum, carry := bits.Add64(total-old, weight, 0)
	return sum, carry == 0
}

// PoolEmission returns elapsed * rate * weight / totalWeight
func PoolEmission(elapsed int64, rate math.Int, weight, totalWeight uint64) math.Int {
	if elapsed <= 0 || totalWeight == 0 || weight == 0 {
		return math.ZeroInt()
	}
	return math.NewInt(elapsed).
		Mul(rate).
		Mul(math.NewIntFromUint64(weight)).
		Quo(math.NewIntFromUint64(totalWeight))
}

// SplitEmission carves the recipient shares out of gross. The pool keeps the
// remainder so the parts always sum to gross.
func SplitEmission(gross math.Int, devBps, treasuryBps, investorBps uint32) EmissionSplit {
	bpsOf := func(bps uint32) math.Int {
		return gross.Mul(math.NewIntFromUint64(uint64(bps))).Quo(math.NewIntFromUint64(uint64(BpsDenominator)))
	}
	s := EmissionSplit{
		Gross:    gross,
		Dev:      bpsOf(devBps),
		Treasury: bpsOf(treasuryBps),
		Investor: bpsOf(investorBps),
	}
	s.Pool = gross.Sub(s.Dev).Sub(s.Treasury).Sub(s.Investor)
	return s
}

// AccIncrement returns poolReward * PRECISION / supply
func AccIncrement(poolReward, supply math.Int) math.Int {
	if !supply.IsPositive() {
		return math.ZeroInt()
	}
	return poolReward.Mul(Precision).Quo(supply)
}

// DepositFee returns amount * feeBps / 10000
func DepositFee(amount math.Int, feeBps uint32) math.Int {
	if feeBps == 0 {
		return math.ZeroInt()
	}
	return amount.Mul(math.NewIntFromUint64(uint64(feeBps))).Quo(math.NewIntFromUint64(uint64(BpsDenominator)))
}

// ActionResult summarises a stake change
type ActionResult struct {
	PoolID     uint64
	RewardPaid math.Int
	// Amount is the net stake moved after deposit fees
	Amount   math.Int
	Fee      math.Int
	Position *UserPosition
}
