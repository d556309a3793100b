package types

import (
	"encoding/binary"

	"cosmossdk.io/math"
)

const (
	ModuleName = "lockvault"
	StoreKey   = ModuleName
)

const (
	// PerformanceFeeMaxBps caps the harvest fee sent to the treasury
	PerformanceFeeMaxBps uint32 = 500
	// CallFeeMaxBps caps the harvest fee paid to whoever calls Harvest
	CallFeeMaxBps uint32 = 100

	BpsDenominator uint32 = 10000

	// ActionHistoryLimit is how many vault actions are kept in state
	ActionHistoryLimit uint64 = 1000
)

// PricePerShareScale is the fixed-point scale of PricePerShare
var PricePerShareScale = math.NewIntWithDecimal(1, 18)

// Store key prefixes
var (
	ParamsKey          = []byte{0x01}
	TreasuryKey        = []byte{0x02}
	VaultStateKey      = []byte{0x03}
	UserInfoKeyPrefix  = []byte{0x04}
	ActionKeyPrefix    = []byte{0x05}
	ActionSeqKey       = []byte{0x06}
	ReentrancyGuardKey = []byte{0x0F}
)

// UserInfoKey returns the store key of a depositor
func UserInfoKey(user string) []byte {
	return append(append([]byte{}, UserInfoKeyPrefix...), []byte(user)...)
}

// ActionKey returns the store key of an action by sequence
func ActionKey(seq uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, seq)
	return append(append([]byte{}, ActionKeyPrefix...), bz...)
}
