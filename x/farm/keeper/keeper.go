package keeper

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/farm/types"
)

// Keeper manages the farm module state
type Keeper struct {
	cdc           codec.BinaryCodec
	storeKey      storetypes.StoreKey
	bankKeeper    types.BankKeeper
	accountKeeper types.AccountKeeper
	rewarders     map[string]types.Rewarder
	logger        log.Logger
	authority     string
}

// NewKeeper creates a new farm keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	accountKeeper types.AccountKeeper,
	bankKeeper types.BankKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	if addr := accountKeeper.GetModuleAddress(types.ModuleName); addr == nil {
		panic(fmt.Sprintf("%s module account has not been set", types.ModuleName))
	}
	if addr := accountKeeper.GetModuleAddress(types.ReserveModuleName); addr == nil {
		panic(fmt.Sprintf("%s module account has not been set", types.ReserveModuleName))
	}

	return &Keeper{
		cdc:           cdc,
		storeKey:      storeKey,
		bankKeeper:    bankKeeper,
		accountKeeper: accountKeeper,
		rewarders:     make(map[string]types.Rewarder),
		authority:     authority,
		logger:        logger.With("module", "x/farm"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ModuleAddress holds the staked assets of every pool
func (k *Keeper) ModuleAddress() sdk.AccAddress {
	return k.accountKeeper.GetModuleAddress(types.ModuleName)
}

// RegisterRewarder makes a rewarder available to pools under name. It is
// called during app wiring and panics on a duplicate name.
func (k *Keeper) RegisterRewarder(name string, r types.Rewarder) {
	if name == "" {
		panic("rewarder name cannot be empty")
	}
	if _, ok := k.rewarders[name]; ok {
		panic(fmt.Sprintf("rewarder %s already registered", name))
	}
	k.rewarders[name] = r
}

// RewarderNames returns the registered rewarder names in order
func (k *Keeper) RewarderNames() []string {
	names := make([]string, 0, len(k.rewarders))
	for name := range k.rewarders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ============ Params ============

// GetParams returns the module params
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.GetStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// SetParams saves the module params
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) {
	bz, _ := json.Marshal(params)
	k.GetStore(ctx).Set(types.ParamsKey, bz)
}

// GetRecipients returns the emission and fee recipients
func (k *Keeper) GetRecipients(ctx sdk.Context) types.Recipients {
	bz := k.GetStore(ctx).Get(types.RecipientsKey)
	if bz == nil {
		return types.Recipients{}
	}
	var r types.Recipients
	if err := json.Unmarshal(bz, &r); err != nil {
		return types.Recipients{}
	}
	return r
}

// SetRecipients saves the emission and fee recipients
func (k *Keeper) SetRecipients(ctx sdk.Context, r types.Recipients) {
	bz, _ := json.Marshal(r)
	k.GetStore(ctx).Set(types.RecipientsKey, bz)
}

// ============ Pool Operations ============

// StorePool saves a pool
func (k *Keeper) StorePool(ctx sdk.Context, pool *types.Pool) {
	bz, _ := json.Marshal(pool)
	k.GetStore(ctx).Set(types.PoolKey(pool.ID), bz)
}

// GetPool retrieves a pool, or nil when it does not exist
func (k *Keeper) GetPool(ctx sdk.Context, pid uint64) *types.Pool {
	bz := k.GetStore(ctx).Get(types.PoolKey(pid))
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns every pool in id order
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// PoolLength returns the number of pools
func (k *Keeper) PoolLength(ctx sdk.Context) uint64 {
	bz := k.GetStore(ctx).Get(types.PoolCountKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k *Keeper) setPoolLength(ctx sdk.Context, n uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	k.GetStore(ctx).Set(types.PoolCountKey, bz)
}

// GetTotalWeight returns the sum of pool weights
func (k *Keeper) GetTotalWeight(ctx sdk.Context) uint64 {
	bz := k.GetStore(ctx).Get(types.TotalWeightKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k *Keeper) setTotalWeight(ctx sdk.Context, w uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, w)
	k.GetStore(ctx).Set(types.TotalWeightKey, bz)
}

// GetPoolIDByDenom returns the id of the pool that stakes denom
func (k *Keeper) GetPoolIDByDenom(ctx sdk.Context, denom string) (uint64, bool) {
	bz := k.GetStore(ctx).Get(types.DenomIndexKey(denom))
	if bz == nil {
		return 0, false
	}
	return binary.BigEndian.Uint64(bz), true
}

func (k *Keeper) setDenomIndex(ctx sdk.Context, denom string, pid uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, pid)
	k.GetStore(ctx).Set(types.DenomIndexKey(denom), bz)
}

// appendPool stores a new pool under the next id
func (k *Keeper) appendPool(ctx sdk.Context, pool *types.Pool) error {
	total, ok := types.ReweighTotal(k.GetTotalWeight(ctx), 0, pool.Weight)
	if !ok {
		return types.ErrInvalidParams.Wrapf("total weight overflows adding %d", pool.Weight)
	}
	pool.ID = k.PoolLength(ctx)
	k.StorePool(ctx, pool)
	k.setDenomIndex(ctx, pool.StakeDenom, pool.ID)
	k.setPoolLength(ctx, pool.ID+1)
	k.setTotalWeight(ctx, total)
	return nil
}

// ============ Position Operations ============

// GetPosition returns a user's position, empty when none exists yet
func (k *Keeper) GetPosition(ctx sdk.Context, pid uint64, owner string) *types.UserPosition {
	bz := k.GetStore(ctx).Get(types.PositionKey(pid, owner))
	if bz == nil {
		return types.NewUserPosition(pid, owner)
	}
	var pos types.UserPosition
	if err := json.Unmarshal(bz, &pos); err != nil {
		return types.NewUserPosition(pid, owner)
	}
	return &pos
}

// SetPosition saves a user's position
func (k *Keeper) SetPosition(ctx sdk.Context, pos *types.UserPosition) {
	bz, _ := json.Marshal(pos)
	k.GetStore(ctx).Set(types.PositionKey(pos.PoolID, pos.Owner), bz)
}

// GetPoolPositions returns every position in a pool
func (k *Keeper) GetPoolPositions(ctx sdk.Context, pid uint64) []*types.UserPosition {
	return k.iteratePositions(ctx, types.PoolPositionsPrefix(pid))
}

// GetAllPositions returns every position
func (k *Keeper) GetAllPositions(ctx sdk.Context) []*types.UserPosition {
	return k.iteratePositions(ctx, types.PositionKeyPrefix)
}

func (k *Keeper) iteratePositions(ctx sdk.Context, prefix []byte) []*types.UserPosition {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	var positions []*types.UserPosition
	for ; iterator.Valid(); iterator.Next() {
		var pos types.UserPosition
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			continue
		}
		positions = append(positions, &pos)
	}
	return positions
}

// StakedSupply returns the module's balance of a pool's stake denom
func (k *Keeper) StakedSupply(ctx sdk.Context, pool *types.Pool) math.Int {
	return k.bankKeeper.GetBalance(ctx, k.ModuleAddress(), pool.StakeDenom).Amount
}
