package rewarder

import (
	"encoding/binary"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	farmtypes "github.com/openalpha/farmchain/x/farm/types"
)

const (
	// ModuleName is also the name pools use to attach this rewarder
	ModuleName = "farm_rewarder"

	// StoreKey shares no prefix with the farm store key
	StoreKey = "rewarder"
)

// Store key prefixes
var (
	ParamsKey         = []byte{0x01}
	PoolKeyPrefix     = []byte{0x02}
	PositionKeyPrefix = []byte{0x03}
	TotalWeightKey    = []byte{0x04}

	ReentrancyGuardKey = []byte{0x05}
)

var (
	ErrUnauthorized  = errors.Register(ModuleName, 1, "unauthorized")
	ErrInvalidAmount = errors.Register(ModuleName, 2, "invalid amount")
	ErrInvalidParams = errors.Register(ModuleName, 3, "invalid params")

	ErrInvalidAddress = errors.Register(ModuleName, 4, "invalid address")
	ErrReentrantCall  = errors.Register(ModuleName, 5, "reentrant call")
)

func poolKey(pid uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, pid)
	return append(append([]byte{}, PoolKeyPrefix...), bz...)
}

func positionKey(pid uint64, user string) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, pid)
	key := append(append([]byte{}, PositionKeyPrefix...), bz...)
	return append(key, []byte(user)...)
}

// Params configures the secondary emission
type Params struct {
	RewardDenom     string   `json:"reward_denom"`
	RewardPerSecond math.Int `json:"reward_per_second"`
}

// DefaultParams returns a disabled emission
func DefaultParams() Params {
	return Params{
		RewardDenom:     "ubonus",
		RewardPerSecond: math.ZeroInt(),
	}
}

// Validate checks the params
func (p Params) Validate() error {
	if err := sdk.ValidateDenom(p.RewardDenom); err != nil {
		return ErrInvalidParams.Wrapf("reward denom: %s", err)
	}
	if p.RewardPerSecond.IsNil() || p.RewardPerSecond.IsNegative() {
		return ErrInvalidAmount.Wrap("reward per second must be non-negative")
	}
	return nil
}

// Pool is the rewarder's view of a farm pool. TotalStake is the sum of the
// stakes the farm has reported, not the farm's own balance.
type Pool struct {
	PoolID            uint64   `json:"pool_id"`
	Weight            uint64   `json:"weight"`
	AccRewardPerShare math.Int `json:"acc_reward_per_share"`
	LastAccrualTime   int64    `json:"last_accrual_time"`
	TotalStake        math.Int `json:"total_stake"`
}

func newPool(pid uint64, now int64) *Pool {
	return &Pool{
		PoolID:            pid,
		AccRewardPerShare: math.ZeroInt(),
		LastAccrualTime:   now,
		TotalStake:        math.ZeroInt(),
	}
}

// Position is a user's stake as last reported by the farm. Unpaid carries
// rewards the rewarder could not cover when they fell due.
type Position struct {
	PoolID     uint64   `json:"pool_id"`
	User       string   `json:"user"`
	Amount     math.Int `json:"amount"`
	RewardDebt math.Int `json:"reward_debt"`
	Unpaid     math.Int `json:"unpaid"`
}

func newPosition(pid uint64, user string) *Position {
	return &Position{
		PoolID:     pid,
		User:       user,
		Amount:     math.ZeroInt(),
		RewardDebt: math.ZeroInt(),
		Unpaid:     math.ZeroInt(),
	}
}

// pending returns accrued plus carried rewards at acc
func (p *Position) pending(acc math.Int) math.Int {
	accrued := p.Amount.Mul(acc).Quo(farmtypes.Precision).Sub(p.RewardDebt)
	if accrued.IsNegative() {
		accrued = math.ZeroInt()
	}
	return accrued.Add(p.Unpaid)
}

// GenesisState is the rewarder genesis
type GenesisState struct {
	Params    Params      `json:"params"`
	Pools     []*Pool     `json:"pools"`
	Positions []*Position `json:"positions"`
}

// DefaultGenesis returns the default rewarder genesis
func DefaultGenesis() *GenesisState {
	return &GenesisState{Params: DefaultParams()}
}

// Validate checks genesis consistency
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	var totalWeight uint64
	seen := make(map[uint64]struct{}, len(gs.Pools))
	for _, pool := range gs.Pools {
		if _, ok := seen[pool.PoolID]; ok {
			return ErrInvalidParams.Wrapf("duplicate rewarder pool %d", pool.PoolID)
		}
		seen[pool.PoolID] = struct{}{}
		var ok bool
		if totalWeight, ok = farmtypes.ReweighTotal(totalWeight, 0, pool.Weight); !ok {
			return ErrInvalidParams.Wrapf("total weight overflows at pool %d", pool.PoolID)
		}
	}
	return nil
}
