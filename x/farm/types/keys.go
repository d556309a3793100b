package types

import (
	"encoding/binary"

	"cosmossdk.io/math"
)

const (
	ModuleName = "farm"
	StoreKey   = ModuleName

	// ReserveModuleName holds minted pool rewards until they are paid out.
	ReserveModuleName = "farm_reserve"
)

const (
	// DepositFeeMaxBps caps a pool's deposit fee at 10%.
	DepositFeeMaxBps uint32 = 1000

	// SplitMaxBps caps each of the dev/treasury/investor emission splits
	// and their sum at 30%.
	SplitMaxBps uint32 = 3000

	BpsDenominator uint32 = 10000

	// MaxHarvestBatch bounds the pool ids accepted by one HarvestMany call.
	MaxHarvestBatch = 20
)

// Precision scales AccRewardPerShare.
var Precision = math.NewInt(1_000_000_000_000)

// Store key prefixes
var (
	ParamsKey          = []byte{0x01}
	RecipientsKey      = []byte{0x02}
	PoolKeyPrefix      = []byte{0x03}
	PositionKeyPrefix  = []byte{0x04}
	PoolCountKey       = []byte{0x05}
	TotalWeightKey     = []byte{0x06}
	DenomIndexPrefix   = []byte{0x07}
	ReentrancyGuardKey = []byte{0x0F}
)

// PoolKey returns the store key of a pool
func PoolKey(pid uint64) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), uint64Bytes(pid)...)
}

// PositionKey returns the store key of a user position in a pool
func PositionKey(pid uint64, owner string) []byte {
	key := append(append([]byte{}, PositionKeyPrefix...), uint64Bytes(pid)...)
	return append(key, []byte(owner)...)
}

// PoolPositionsPrefix returns the prefix of every position in a pool
func PoolPositionsPrefix(pid uint64) []byte {
	return append(append([]byte{}, PositionKeyPrefix...), uint64Bytes(pid)...)
}

// DenomIndexKey maps a stake denom to its pool id
func DenomIndexKey(denom string) []byte {
	return append(append([]byte{}, DenomIndexPrefix...), []byte(denom)...)
}

func uint64Bytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}
