package rewarder

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	farmtypes "github.com/openalpha/farmchain/x/farm/types"
)

var _ farmtypes.Rewarder = (*Keeper)(nil)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// AccountKeeper defines the expected interface for the auth module
type AccountKeeper interface {
	GetModuleAddress(moduleName string) sdk.AccAddress
}

// Keeper pays a secondary token alongside the farm's primary reward. It
// pays from a funded module account and never mints.
type Keeper struct {
	storeKey      storetypes.StoreKey
	bankKeeper    BankKeeper
	accountKeeper AccountKeeper
	logger        log.Logger
	authority     string
}

// NewKeeper creates a new rewarder keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	accountKeeper AccountKeeper,
	bankKeeper BankKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	if addr := accountKeeper.GetModuleAddress(ModuleName); addr == nil {
		panic(fmt.Sprintf("%s module account has not been set", ModuleName))
	}
	return &Keeper{
		storeKey:      storeKey,
		bankKeeper:    bankKeeper,
		accountKeeper: accountKeeper,
		authority:     authority,
		logger:        logger.With("module", "x/farm/rewarder"),
	}
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// GetParams returns the rewarder params
func (k *Keeper) GetParams(ctx sdk.Context) Params {
	bz := k.GetStore(ctx).Get(ParamsKey)
	if bz == nil {
		return DefaultParams()
	}
	var params Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return DefaultParams()
	}
	return params
}

// SetParams saves the rewarder params
func (k *Keeper) SetParams(ctx sdk.Context, params Params) {
	bz, _ := json.Marshal(params)
	k.GetStore(ctx).Set(ParamsKey, bz)
}

// GetPool returns the rewarder pool for a farm pool id, or nil
func (k *Keeper) GetPool(ctx sdk.Context, pid uint64) *Pool {
	bz := k.GetStore(ctx).Get(poolKey(pid))
	if bz == nil {
		return nil
	}
	var pool Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

func (k *Keeper) storePool(ctx sdk.Context, pool *Pool) {
	bz, _ := json.Marshal(pool)
	k.GetStore(ctx).Set(poolKey(pool.PoolID), bz)
}

// GetAllPools returns every rewarder pool
func (k *Keeper) GetAllPools(ctx sdk.Context) []*Pool {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), PoolKeyPrefix)
	defer iterator.Close()

	var pools []*Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// GetPosition returns a user's rewarder position
func (k *Keeper) GetPosition(ctx sdk.Context, pid uint64, user string) *Position {
	bz := k.GetStore(ctx).Get(positionKey(pid, user))
	if bz == nil {
		return newPosition(pid, user)
	}
	var pos Position
	if err := json.Unmarshal(bz, &pos); err != nil {
		return newPosition(pid, user)
	}
	return &pos
}

func (k *Keeper) setPosition(ctx sdk.Context, pos *Position) {
	bz, _ := json.Marshal(pos)
	k.GetStore(ctx).Set(positionKey(pos.PoolID, pos.User), bz)
}

// GetAllPositions returns every rewarder position
func (k *Keeper) GetAllPositions(ctx sdk.Context) []*Position {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), PositionKeyPrefix)
	defer iterator.Close()

	var positions []*Position
	for ; iterator.Valid(); iterator.Next() {
		var pos Position
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			continue
		}
		positions = append(positions, &pos)
	}
	return positions
}

// GetTotalWeight returns the sum of rewarder pool weights
func (k *Keeper) GetTotalWeight(ctx sdk.Context) uint64 {
	bz := k.GetStore(ctx).Get(TotalWeightKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k *Keeper) setTotalWeight(ctx sdk.Context, w uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, w)
	k.GetStore(ctx).Set(TotalWeightKey, bz)
}

// Balance returns the rewarder's unspent funds
func (k *Keeper) Balance(ctx sdk.Context) math.Int {
	return k.bankKeeper.GetBalance(ctx, k.accountKeeper.GetModuleAddress(ModuleName), k.GetParams(ctx).RewardDenom).Amount
}

// accAt returns the pool accumulator as of now without saving it
func (k *Keeper) accAt(ctx sdk.Context, params Params, pool *Pool) math.Int {
	now := ctx.BlockTime().Unix()
	totalWeight := k.GetTotalWeight(ctx)
	if now <= pool.LastAccrualTime || !pool.TotalStake.IsPositive() || totalWeight == 0 {
		return pool.AccRewardPerShare
	}
	reward := farmtypes.PoolEmission(now-pool.LastAccrualTime, params.RewardPerSecond, pool.Weight, totalWeight)
	return pool.AccRewardPerShare.Add(farmtypes.AccIncrement(reward, pool.TotalStake))
}

func (k *Keeper) settle(ctx sdk.Context, params Params, pool *Pool) {
	now := ctx.BlockTime().Unix()
	if now <= pool.LastAccrualTime {
		return
	}
	pool.AccRewardPerShare = k.accAt(ctx, params, pool)
	pool.LastAccrualTime = now
	k.storePool(ctx, pool)
}

// OnStakeChanged pays the user's pending secondary reward, as far as the
// funds allow, and records the new stake. A pool the rewarder has not been
// configured for is tracked with zero weight.
func (k *Keeper) OnStakeChanged(ctx sdk.Context, pid uint64, user sdk.AccAddress, newStake math.Int) error {
	if newStake.IsNil() || newStake.IsNegative() {
		return ErrInvalidAmount.Wrap("stake must be non-negative")
	}

	params := k.GetParams(ctx)
	pool := k.GetPool(ctx, pid)
	if pool == nil {
		pool = newPool(pid, ctx.BlockTime().Unix())
	}
	k.settle(ctx, params, pool)

	pos := k.GetPosition(ctx, pid, user.String())
	pending := pos.pending(pool.AccRewardPerShare)
	paid := math.ZeroInt()
	if pending.IsPositive() {
		paid = math.MinInt(pending, k.Balance(ctx))
		if paid.IsPositive() {
			coins := sdk.NewCoins(sdk.NewCoin(params.RewardDenom, paid))
			if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, ModuleName, user, coins); err != nil {
				return err
			}
		}
	}

	pool.TotalStake = pool.TotalStake.Sub(pos.Amount).Add(newStake)
	pos.Unpaid = pending.Sub(paid)
	pos.Amount = newStake
	pos.RewardDebt = newStake.Mul(pool.AccRewardPerShare).Quo(farmtypes.Precision)
	k.storePool(ctx, pool)
	k.setPosition(ctx, pos)

	if paid.IsPositive() || pos.Unpaid.IsPositive() {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				"farm_rewarder_paid",
				sdk.NewAttribute("pool_id", strconv.FormatUint(pid, 10)),
				sdk.NewAttribute("user", user.String()),
				sdk.NewAttribute("paid", paid.String()),
				sdk.NewAttribute("unpaid", pos.Unpaid.String()),
			),
		)
	}
	return nil
}

// PendingReward returns accrued plus unpaid rewards for user
func (k *Keeper) PendingReward(ctx sdk.Context, pid uint64, user sdk.AccAddress) (sdk.Coin, error) {
	params := k.GetParams(ctx)
	pos := k.GetPosition(ctx, pid, user.String())
	acc := math.ZeroInt()
	if pool := k.GetPool(ctx, pid); pool != nil {
		acc = k.accAt(ctx, params, pool)
	}
	return sdk.NewCoin(params.RewardDenom, pos.pending(acc)), nil
}

// RewardDenom returns the secondary reward denom
func (k *Keeper) RewardDenom(ctx sdk.Context) string {
	return k.GetParams(ctx).RewardDenom
}

// ============ Admin ============

// SetPool sets the rewarder weight of a farm pool
func (k *Keeper) SetPool(ctx context.Context, authority string, pid, weight uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if authority != k.authority {
		return ErrUnauthorized.Wrapf("expected %s, got %s", k.authority, authority)
	}

	err := k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		pool := k.GetPool(ctx, pid)
		if pool == nil {
			pool = newPool(pid, ctx.BlockTime().Unix())
		}
		total, ok := farmtypes.ReweighTotal(k.GetTotalWeight(ctx), pool.Weight, weight)
		if !ok {
			return ErrInvalidParams.Wrapf("total weight overflows setting pool %d to %d", pid, weight)
		}

		params := k.GetParams(ctx)
		for _, p := range k.GetAllPools(ctx) {
			k.settle(ctx, params, p)
		}
		if settled := k.GetPool(ctx, pid); settled != nil {
			pool = settled
		}
		k.setTotalWeight(ctx, total)
		pool.Weight = weight
		k.storePool(ctx, pool)
		return nil
	})
	if err != nil {
		return err
	}

	k.logger.Info("Rewarder pool set", "pool_id", pid, "weight", weight)
	return nil
}

// SetRewardRate sets the secondary reward per second
func (k *Keeper) SetRewardRate(ctx context.Context, authority string, rate math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if authority != k.authority {
		return ErrUnauthorized.Wrapf("expected %s, got %s", k.authority, authority)
	}
	if rate.IsNil() || rate.IsNegative() {
		return ErrInvalidAmount.Wrap("rate must be non-negative")
	}

	err := k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		params := k.GetParams(ctx)
		for _, p := range k.GetAllPools(ctx) {
			k.settle(ctx, params, p)
		}
		params.RewardPerSecond = rate
		k.SetParams(ctx, params)
		return nil
	})
	if err != nil {
		return err
	}

	k.logger.Info("Rewarder rate set", "rate", rate.String())
	return nil
}

// Fund moves reward tokens from funder into the rewarder
func (k *Keeper) Fund(ctx context.Context, funder string, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	addr, err := sdk.AccAddressFromBech32(funder)
	if err != nil {
		return ErrInvalidAddress.Wrapf("funder: %s", err)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return ErrInvalidAmount.Wrap("fund amount must be positive")
	}

	err = k.nonReentrant(sdkCtx, func(ctx sdk.Context) error {
		coins := sdk.NewCoins(sdk.NewCoin(k.GetParams(ctx).RewardDenom, amount))
		return k.bankKeeper.SendCoinsFromAccountToModule(ctx, addr, ModuleName, coins)
	})
	if err != nil {
		return err
	}

	k.logger.Info("Rewarder funded", "funder", funder, "amount", amount.String())
	return nil
}

// ============ Genesis ============

// InitGenesis loads the rewarder state
func (k *Keeper) InitGenesis(ctx sdk.Context, gs GenesisState) {
	if err := gs.Validate(); err != nil {
		panic(err)
	}
	k.SetParams(ctx, gs.Params)
	var totalWeight uint64
	for _, pool := range gs.Pools {
		k.storePool(ctx, pool)
		totalWeight, _ = farmtypes.ReweighTotal(totalWeight, 0, pool.Weight)
	}
	k.setTotalWeight(ctx, totalWeight)
	for _, pos := range gs.Positions {
		k.setPosition(ctx, pos)
	}
}

// ExportGenesis exports the rewarder state
func (k *Keeper) ExportGenesis(ctx sdk.Context) *GenesisState {
	return &GenesisState{
		Params:    k.GetParams(ctx),
		Pools:     k.GetAllPools(ctx),
		Positions: k.GetAllPositions(ctx),
	}
}
