package testutil

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	"github.com/cometbft/cometbft/crypto"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	moduletestutil "github.com/cosmos/cosmos-sdk/types/module/testutil"
	"github.com/cosmos/cosmos-sdk/x/auth"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/bank"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/stretchr/testify/require"

	farmkeeper "github.com/openalpha/farmchain/x/farm/keeper"
	"github.com/openalpha/farmchain/x/farm/rewarder"
	farmtypes "github.com/openalpha/farmchain/x/farm/types"
	vaultkeeper "github.com/openalpha/farmchain/x/lockvault/keeper"
	vaulttypes "github.com/openalpha/farmchain/x/lockvault/types"
)

// FaucetName is a minter module account tests draw balances from
const FaucetName = "faucet"

// GenesisTime is the block time every fixture starts at
const GenesisTime int64 = 1_700_000_000

// Fixture bundles an in-memory store with real auth and bank keepers and
// the farm, rewarder and vault keepers wired the way the app wires them.
type Fixture struct {
	Ctx sdk.Context

	AccountKeeper  authkeeper.AccountKeeper
	BankKeeper     bankkeeper.BaseKeeper
	FarmKeeper     *farmkeeper.Keeper
	RewarderKeeper *rewarder.Keeper
	VaultKeeper    *vaultkeeper.Keeper

	Authority string
}

// MaccPerms returns the module account permissions used by the fixture
func MaccPerms() map[string][]string {
	return map[string][]string{
		FaucetName:                  {authtypes.Minter},
		farmtypes.ModuleName:        {authtypes.Minter},
		farmtypes.ReserveModuleName: nil,
		rewarder.ModuleName:         nil,
		vaulttypes.ModuleName:       {authtypes.Minter, authtypes.Burner},
	}
}

// NewFixture builds a fresh chain state at GenesisTime
func NewFixture(tb testing.TB) *Fixture {
	tb.Helper()

	keys := storetypes.NewKVStoreKeys(
		authtypes.StoreKey,
		banktypes.StoreKey,
		farmtypes.StoreKey,
		rewarder.StoreKey,
		vaulttypes.StoreKey,
	)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	for _, key := range keys {
		stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	require.NoError(tb, stateStore.LoadLatestVersion())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		Height: 1,
		Time:   time.Unix(GenesisTime, 0).UTC(),
	}, false, log.NewNopLogger())

	encCfg := moduletestutil.MakeTestEncodingConfig(auth.AppModuleBasic{}, bank.AppModuleBasic{})
	authority := authtypes.NewModuleAddress("gov").String()

	accountKeeper := authkeeper.NewAccountKeeper(
		encCfg.Codec,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		MaccPerms(),
		addresscodec.NewBech32Codec(sdk.Bech32MainPrefix),
		sdk.Bech32MainPrefix,
		authority,
	)
	bankKeeper := bankkeeper.NewBaseKeeper(
		encCfg.Codec,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		accountKeeper,
		map[string]bool{},
		authority,
		log.NewNopLogger(),
	)

	farmKeeper := farmkeeper.NewKeeper(
		encCfg.Codec,
		keys[farmtypes.StoreKey],
		accountKeeper,
		bankKeeper,
		authority,
		log.NewNopLogger(),
	)
	rewarderKeeper := rewarder.NewKeeper(
		keys[rewarder.StoreKey],
		accountKeeper,
		bankKeeper,
		authority,
		log.NewNopLogger(),
	)
	farmKeeper.RegisterRewarder(rewarder.ModuleName, rewarderKeeper)

	vaultKeeper := vaultkeeper.NewKeeper(
		keys[vaulttypes.StoreKey],
		accountKeeper,
		bankKeeper,
		farmKeeper,
		authority,
		log.NewNopLogger(),
	)

	for name := range MaccPerms() {
		accountKeeper.GetModuleAccount(ctx, name)
	}

	farmKeeper.SetParams(ctx, farmtypes.DefaultParams())
	rewarderKeeper.SetParams(ctx, rewarder.DefaultParams())
	vaultKeeper.SetParams(ctx, vaulttypes.DefaultParams())
	vaultKeeper.SetVaultState(ctx, vaulttypes.NewVaultState())

	return &Fixture{
		Ctx:            ctx,
		AccountKeeper:  accountKeeper,
		BankKeeper:     bankKeeper,
		FarmKeeper:     farmKeeper,
		RewarderKeeper: rewarderKeeper,
		VaultKeeper:    vaultKeeper,
		Authority:      authority,
	}
}

// Addr returns a deterministic account address for name
func Addr(name string) sdk.AccAddress {
	return sdk.AccAddress(crypto.AddressHash([]byte(name)))
}

// Fund mints coins out of the faucet and sends them to addr
func (f *Fixture) Fund(tb testing.TB, addr sdk.AccAddress, coins ...sdk.Coin) {
	tb.Helper()
	amt := sdk.NewCoins(coins...)
	require.NoError(tb, f.BankKeeper.MintCoins(f.Ctx, FaucetName, amt))
	require.NoError(tb, f.BankKeeper.SendCoinsFromModuleToAccount(f.Ctx, FaucetName, addr, amt))
}

// Balance returns addr's balance of denom
func (f *Fixture) Balance(addr sdk.AccAddress, denom string) math.Int {
	return f.BankKeeper.GetBalance(f.Ctx, addr, denom).Amount
}

// ModuleBalance returns a module account's balance of denom
func (f *Fixture) ModuleBalance(module, denom string) math.Int {
	return f.Balance(f.AccountKeeper.GetModuleAddress(module), denom)
}

// Now returns the current block time in unix seconds
func (f *Fixture) Now() int64 {
	return f.Ctx.BlockTime().Unix()
}

// SetTime moves the block clock to unix seconds ts
func (f *Fixture) SetTime(ts int64) {
	f.Ctx = f.Ctx.WithBlockTime(time.Unix(ts, 0).UTC())
}

// Advance moves the block clock forward and bumps the height
func (f *Fixture) Advance(seconds int64) {
	f.Ctx = f.Ctx.
		WithBlockTime(f.Ctx.BlockTime().Add(time.Duration(seconds) * time.Second)).
		WithBlockHeight(f.Ctx.BlockHeight() + 1)
}

// SetFarmParams overwrites the farm params after checking them
func (f *Fixture) SetFarmParams(tb testing.TB, mutate func(*farmtypes.Params)) {
	tb.Helper()
	params := f.FarmKeeper.GetParams(f.Ctx)
	mutate(&params)
	require.NoError(tb, params.Validate())
	f.FarmKeeper.SetParams(f.Ctx, params)
}

// SetRecipients points every farm recipient role at a named test account
// and returns them
func (f *Fixture) SetRecipients() farmtypes.Recipients {
	r := farmtypes.Recipients{
		Dev:      Addr("dev").String(),
		Treasury: Addr("treasury").String(),
		Investor: Addr("investor").String(),
		FeeSink:  Addr("fee-sink").String(),
	}
	f.FarmKeeper.SetRecipients(f.Ctx, r)
	return r
}

// HasEvent reports whether an event of eventType was emitted on the
// fixture context
func (f *Fixture) HasEvent(eventType string) bool {
	for _, ev := range f.Ctx.EventManager().Events() {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

// ResetEvents gives the fixture context a fresh event manager
func (f *Fixture) ResetEvents() {
	f.Ctx = f.Ctx.WithEventManager(sdk.NewEventManager())
}
