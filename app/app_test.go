package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	simtestutil "github.com/cosmos/cosmos-sdk/testutil/sims"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/farmchain/x/farm/rewarder"
	farmtypes "github.com/openalpha/farmchain/x/farm/types"
	vaulttypes "github.com/openalpha/farmchain/x/lockvault/types"
)

func setupApp(t *testing.T) (*App, sdk.Context) {
	t.Helper()
	a := NewApp(log.NewNopLogger(), dbm.NewMemDB(), nil, true, simtestutil.EmptyAppOptions{})
	ctx := a.NewUncachedContext(false, cmtproto.Header{Height: 1, Time: time.Unix(1_700_000_000, 0).UTC()})

	appState, err := json.Marshal(a.DefaultGenesis())
	require.NoError(t, err)
	_, err = a.InitChainer(ctx, &abci.RequestInitChain{AppStateBytes: appState})
	require.NoError(t, err)
	return a, ctx
}

func TestStoreKeysDoNotCollide(t *testing.T) {
	require.NotPanics(t, func() {
		storetypes.NewKVStoreKeys(StoreKeys()...)
	})
	require.NotEqual(t, farmtypes.StoreKey, rewarder.StoreKey)
}

func TestInitChainWithoutStakingModule(t *testing.T) {
	a := NewApp(log.NewNopLogger(), dbm.NewMemDB(), nil, true, simtestutil.EmptyAppOptions{})
	ctx := a.NewUncachedContext(false, cmtproto.Header{Height: 1, Time: time.Unix(1_700_000_000, 0).UTC()})

	genesis := a.DefaultGenesis()
	genesis["staking"] = json.RawMessage(`{"validators":[{"consensus_pubkey":{"@type":"/cosmos.crypto.ed25519.PubKey","key":"AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="},"tokens":"1","status":"BOND_STATUS_BONDED"},{"consensus_pubkey":{"key":"AAEC"},"status":"BOND_STATUS_UNBONDED"}]}`)
	appState, err := json.Marshal(genesis)
	require.NoError(t, err)

	res, err := a.InitChainer(ctx, &abci.RequestInitChain{AppStateBytes: appState})
	require.NoError(t, err)
	require.Len(t, res.Validators, 1)
	require.Equal(t, int64(100), res.Validators[0].Power)
	require.Len(t, res.Validators[0].PubKey.GetEd25519(), 32)
}

func TestGenesisValidatorsFromGentx(t *testing.T) {
	genesis := map[string]json.RawMessage{
		"genutil": json.RawMessage(`{"gen_txs":[{"body":{"messages":[{"@type":"/cosmos.staking.v1beta1.MsgCreateValidator","pubkey":{"key":"AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="}},{"@type":"/cosmos.bank.v1beta1.MsgSend"}]}}]}`),
	}
	require.Len(t, genesisValidators(genesis), 1)
	require.Empty(t, genesisValidators(map[string]json.RawMessage{}))
}

func TestBlockedModuleAccountAddrs(t *testing.T) {
	blocked := BlockedModuleAccountAddrs(ModuleAccountPerms())
	require.True(t, blocked[authtypes.NewModuleAddress(authtypes.FeeCollectorName).String()])
	for _, name := range []string{farmtypes.ModuleName, farmtypes.ReserveModuleName, rewarder.ModuleName, vaulttypes.ModuleName} {
		require.False(t, blocked[authtypes.NewModuleAddress(name).String()], name)
	}
}

func TestMsgRouter(t *testing.T) {
	r := NewMsgRouter()
	var called bool
	r.AddRoute(farmtypes.ModuleName, func(context.Context, sdk.Msg) (any, error) {
		called = true
		return nil, nil
	})
	require.Panics(t, func() {
		r.AddRoute(farmtypes.ModuleName, func(context.Context, sdk.Msg) (any, error) { return nil, nil })
	})

	_, err := r.Route(context.Background(), &farmtypes.MsgMassUpdatePools{})
	require.NoError(t, err)
	require.True(t, called)

	_, err = r.Route(context.Background(), &vaulttypes.MsgVaultHarvest{})
	require.ErrorIs(t, err, sdkerrors.ErrUnknownRequest)
}

func TestInitChainLoadsModuleGenesis(t *testing.T) {
	a, ctx := setupApp(t)

	require.Equal(t, farmtypes.DefaultParams().RewardDenom, a.FarmKeeper.GetParams(ctx).RewardDenom)
	require.NotNil(t, a.AccountKeeper.GetModuleAccount(ctx, vaulttypes.ModuleName))

	exported, err := a.ModuleManager.ExportGenesis(ctx, a.AppCodec())
	require.NoError(t, err)
	for _, name := range []string{farmtypes.ModuleName, rewarder.ModuleName, vaulttypes.ModuleName} {
		require.Contains(t, exported, name)
	}
}

func TestDeliverMsg(t *testing.T) {
	a, ctx := setupApp(t)
	gov := authtypes.NewModuleAddress("gov").String()
	alice := sdk.AccAddress([]byte("app-test-alice______"))

	stake := sdk.NewCoins(sdk.NewInt64Coin("ustake", 1000))
	require.NoError(t, a.BankKeeper.MintCoins(ctx, farmtypes.ModuleName, stake))
	require.NoError(t, a.BankKeeper.SendCoinsFromModuleToAccount(ctx, farmtypes.ModuleName, alice, stake))

	_, err := a.DeliverMsg(ctx, &farmtypes.MsgAddPool{Authority: alice.String(), StakeDenom: "ustake", Weight: 100})
	require.ErrorIs(t, err, farmtypes.ErrUnauthorized)
	require.Equal(t, uint64(0), a.FarmKeeper.PoolLength(ctx))

	_, err = a.DeliverMsg(ctx, &farmtypes.MsgAddPool{Authority: gov, StakeDenom: "ustake", Weight: 100})
	require.NoError(t, err)
	require.Equal(t, uint64(1), a.FarmKeeper.PoolLength(ctx))

	_, err = a.DeliverMsg(ctx, &farmtypes.MsgDeposit{Depositor: alice.String(), PoolID: 0, Amount: "1000"})
	require.NoError(t, err)
	require.True(t, a.BankKeeper.GetBalance(ctx, alice, "ustake").IsZero())

	_, err = a.DeliverMsg(ctx, &farmtypes.MsgDeposit{Depositor: alice.String(), PoolID: 0, Amount: "1"})
	require.Error(t, err)
}

func TestEndBlocker(t *testing.T) {
	a, ctx := setupApp(t)
	_, err := a.EndBlocker(ctx)
	require.NoError(t, err)
}
