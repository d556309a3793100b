package keeper

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/lockvault/types"
)

// Keeper manages the lock vault state
type Keeper struct {
	storeKey      storetypes.StoreKey
	bankKeeper    types.BankKeeper
	accountKeeper types.AccountKeeper
	farmKeeper    types.FarmKeeper
	logger        log.Logger
	authority     string
}

// NewKeeper creates a new lockvault keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	accountKeeper types.AccountKeeper,
	bankKeeper types.BankKeeper,
	farmKeeper types.FarmKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	if addr := accountKeeper.GetModuleAddress(types.ModuleName); addr == nil {
		panic(fmt.Sprintf("%s module account has not been set", types.ModuleName))
	}

	return &Keeper{
		storeKey:      storeKey,
		bankKeeper:    bankKeeper,
		accountKeeper: accountKeeper,
		farmKeeper:    farmKeeper,
		authority:     authority,
		logger:        logger.With("module", "x/lockvault"),
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

// ModuleAddress holds the vault's idle balance and owns its farm position
func (k *Keeper) ModuleAddress() sdk.AccAddress {
	return k.accountKeeper.GetModuleAddress(types.ModuleName)
}

// GetParams returns the vault params
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

// SetParams saves the vault params
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) {
	bz, _ := json.Marshal(params)
	k.GetStore(ctx).Set(types.ParamsKey, bz)
}

// GetTreasury returns the address receiving fees and swept balances
func (k *Keeper) GetTreasury(ctx sdk.Context) string {
	return string(k.GetStore(ctx).Get(types.TreasuryKey))
}

// SetTreasury stores the treasury address. An empty address unsets it.
func (k *Keeper) SetTreasury(ctx sdk.Context, addr string) {
	if addr == "" {
		k.GetStore(ctx).Delete(types.TreasuryKey)
		return
	}
	k.GetStore(ctx).Set(types.TreasuryKey, []byte(addr))
}

// GetVaultState returns the share totals
func (k *Keeper) GetVaultState(ctx sdk.Context) types.VaultState {
	bz := k.GetStore(ctx).Get(types.VaultStateKey)
	if bz == nil {
		return types.NewVaultState()
	}
	var state types.VaultState
	if err := json.Unmarshal(bz, &state); err != nil {
		return types.NewVaultState()
	}
	return state
}

// SetVaultState saves the share totals
func (k *Keeper) SetVaultState(ctx sdk.Context, state types.VaultState) {
	bz, _ := json.Marshal(state)
	k.GetStore(ctx).Set(types.VaultStateKey, bz)
}

// GetUserInfo returns a depositor's record, empty when none exists yet
func (k *Keeper) GetUserInfo(ctx sdk.Context, owner string) *types.UserInfo {
	bz := k.GetStore(ctx).Get(types.UserInfoKey(owner))
	if bz == nil {
		return types.NewUserInfo(owner)
	}
	var user types.UserInfo
	if err := json.Unmarshal(bz, &user); err != nil {
		return types.NewUserInfo(owner)
	}
	return &user
}

// SetUserInfo saves a depositor's record
func (k *Keeper) SetUserInfo(ctx sdk.Context, user *types.UserInfo) {
	bz, _ := json.Marshal(user)
	k.GetStore(ctx).Set(types.UserInfoKey(user.Owner), bz)
}

// GetAllUsers returns every depositor record
func (k *Keeper) GetAllUsers(ctx sdk.Context) []*types.UserInfo {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.UserInfoKeyPrefix)
	defer iterator.Close()

	var users []*types.UserInfo
	for ; iterator.Valid(); iterator.Next() {
		var user types.UserInfo
		if err := json.Unmarshal(iterator.Value(), &user); err != nil {
			continue
		}
		users = append(users, &user)
	}
	return users
}

// ============ Action history ============

func (k *Keeper) actionSeq(ctx sdk.Context) uint64 {
	bz := k.GetStore(ctx).Get(types.ActionSeqKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k *Keeper) setActionSeq(ctx sdk.Context, seq uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, seq)
	k.GetStore(ctx).Set(types.ActionSeqKey, bz)
}

// recordAction appends an action and drops the oldest one past the limit
func (k *Keeper) recordAction(ctx sdk.Context, user, kind string, amount, shares, pps math.Int) *types.VaultAction {
	seq := k.actionSeq(ctx)
	action := &types.VaultAction{
		ID:            types.NewActionID(seq, ctx.BlockHeight(), user, kind),
		Seq:           seq,
		Height:        ctx.BlockHeight(),
		Time:          ctx.BlockTime().Unix(),
		User:          user,
		Kind:          kind,
		Amount:        amount,
		Shares:        shares,
		PricePerShare: pps,
	}
	k.setAction(ctx, action)
	k.setActionSeq(ctx, seq+1)

	if seq >= types.ActionHistoryLimit {
		k.GetStore(ctx).Delete(types.ActionKey(seq - types.ActionHistoryLimit))
	}
	return action
}

func (k *Keeper) setAction(ctx sdk.Context, action *types.VaultAction) {
	bz, _ := json.Marshal(action)
	k.GetStore(ctx).Set(types.ActionKey(action.Seq), bz)
}

// GetActions returns up to limit actions, newest first. A zero limit
// returns the whole retained history.
func (k *Keeper) GetActions(ctx sdk.Context, limit uint64) []*types.VaultAction {
	iterator := storetypes.KVStoreReversePrefixIterator(k.GetStore(ctx), types.ActionKeyPrefix)
	defer iterator.Close()

	var actions []*types.VaultAction
	for ; iterator.Valid(); iterator.Next() {
		if limit > 0 && uint64(len(actions)) >= limit {
			break
		}
		var action types.VaultAction
		if err := json.Unmarshal(iterator.Value(), &action); err != nil {
			continue
		}
		actions = append(actions, &action)
	}
	return actions
}
