package keeper_test

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/farmchain/testutil"
	farmtypes "github.com/openalpha/farmchain/x/farm/types"
	"github.com/openalpha/farmchain/x/lockvault/keeper"
	"github.com/openalpha/farmchain/x/lockvault/types"
)

func TestUpdateParams(t *testing.T) {
	f := newVault(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin("ustake", 10))
	_, err := f.FarmKeeper.AddPool(f.Ctx, f.Authority, "ustake", 100, 0, "", false)
	require.NoError(t, err)

	current := f.VaultKeeper.GetParams(f.Ctx)
	with := func(mutate func(*types.Params)) types.Params {
		p := current
		mutate(&p)
		return p
	}

	require.ErrorIs(t, f.VaultKeeper.UpdateParams(f.Ctx, alice.String(), current), types.ErrUnauthorized)

	err = f.VaultKeeper.UpdateParams(f.Ctx, f.Authority, with(func(p *types.Params) { p.PerformanceFeeBps = types.PerformanceFeeMaxBps + 1 }))
	require.ErrorIs(t, err, types.ErrInvalidParams)
	err = f.VaultKeeper.UpdateParams(f.Ctx, f.Authority, with(func(p *types.Params) { p.CallFeeBps = types.CallFeeMaxBps + 1 }))
	require.ErrorIs(t, err, types.ErrInvalidParams)

	// the vault can only compound a pool that stakes the reward denom
	err = f.VaultKeeper.UpdateParams(f.Ctx, f.Authority, with(func(p *types.Params) { p.FarmPoolID = 1 }))
	require.ErrorIs(t, err, types.ErrInvalidParams)
	err = f.VaultKeeper.UpdateParams(f.Ctx, f.Authority, with(func(p *types.Params) { p.FarmPoolID = 9 }))
	require.ErrorIs(t, err, types.ErrFarmPoolNotFound)

	deposit(t, f, alice, 10_000)

	err = f.VaultKeeper.UpdateParams(f.Ctx, f.Authority, with(func(p *types.Params) { p.ShareDenom = "uother" }))
	require.ErrorIs(t, err, types.ErrInvalidParams)
	err = f.VaultKeeper.UpdateParams(f.Ctx, f.Authority, with(func(p *types.Params) { p.ShareDenom = "" }))
	require.ErrorIs(t, err, types.ErrInvalidParams)

	require.NoError(t, f.VaultKeeper.UpdateParams(f.Ctx, f.Authority, with(func(p *types.Params) {
		p.PerformanceFeeBps = types.PerformanceFeeMaxBps
		p.MinDeposit = math.NewInt(5)
	})))
	require.Equal(t, types.PerformanceFeeMaxBps, f.VaultKeeper.GetParams(f.Ctx).PerformanceFeeBps)
	require.True(t, f.HasEvent(types.EventTypeParams))
}

func TestRotateTreasury(t *testing.T) {
	f := newVault(t)
	treasury := testutil.Addr("vault-treasury").String()
	next := testutil.Addr("next-treasury").String()

	require.ErrorIs(t, f.VaultKeeper.RotateTreasury(f.Ctx, f.Authority, next), types.ErrNotTreasuryHolder)
	require.ErrorIs(t, f.VaultKeeper.RotateTreasury(f.Ctx, treasury, "nobody"), types.ErrInvalidAddress)

	require.NoError(t, f.VaultKeeper.RotateTreasury(f.Ctx, treasury, next))
	require.Equal(t, next, f.VaultKeeper.GetTreasury(f.Ctx))
	require.ErrorIs(t, f.VaultKeeper.RotateTreasury(f.Ctx, treasury, treasury), types.ErrNotTreasuryHolder)

	f.VaultKeeper.SetTreasury(f.Ctx, "")
	require.ErrorIs(t, f.VaultKeeper.RotateTreasury(f.Ctx, "", next), types.ErrNotTreasuryHolder)
}

func TestVaultRecoverTokens(t *testing.T) {
	f := newVault(t)
	alice := testutil.Addr("alice")
	rescuer := testutil.Addr("rescuer")
	f.Fund(t, alice, sdk.NewInt64Coin("ustray", 30))
	deposit(t, f, alice, 10_000)

	vault := f.VaultKeeper.ModuleAddress()
	require.NoError(t, f.BankKeeper.SendCoins(f.Ctx, alice, vault, sdk.NewCoins(sdk.NewInt64Coin("ustray", 30))))
	shareDenom := f.VaultKeeper.GetParams(f.Ctx).ShareDenom

	tests := []struct {
		name      string
		authority string
		denom     string
		err       error
	}{
		{"not authority", alice.String(), "ustray", types.ErrUnauthorized},
		{"vault asset", f.Authority, asset, types.ErrProtectedDenom},
		{"share denom", f.Authority, shareDenom, types.ErrProtectedDenom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.VaultKeeper.RecoverTokens(f.Ctx, tt.authority, tt.denom, math.NewInt(1), rescuer.String())
			require.ErrorIs(t, err, tt.err)
		})
	}

	require.NoError(t, f.VaultKeeper.RecoverTokens(f.Ctx, f.Authority, "ustray", math.NewInt(30), rescuer.String()))
	require.Equal(t, "30", f.Balance(rescuer, "ustray").String())
	require.Equal(t, "10000", underlying(t, f).String())
}

// reenteringRewarder calls back into the vault from inside a farm hook
type reenteringRewarder struct {
	armed bool
	call  func(ctx sdk.Context) error
	err   error
}

func (r *reenteringRewarder) OnStakeChanged(ctx sdk.Context, pid uint64, user sdk.AccAddress, newStake math.Int) error {
	if !r.armed {
		return nil
	}
	r.err = r.call(ctx)
	return r.err
}

func (r *reenteringRewarder) PendingReward(ctx sdk.Context, pid uint64, user sdk.AccAddress) (sdk.Coin, error) {
	return sdk.NewInt64Coin("ubonus", 0), nil
}

func (r *reenteringRewarder) RewardDenom(ctx sdk.Context) string { return "ubonus" }

func TestVaultRejectsReentry(t *testing.T) {
	f := testutil.NewFixture(t)
	f.SetRecipients()
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(asset, 50_000))

	hook := &reenteringRewarder{}
	hook.call = func(ctx sdk.Context) error {
		_, _, err := f.VaultKeeper.Harvest(ctx, testutil.Addr("carol").String())
		return err
	}
	f.FarmKeeper.RegisterRewarder("reenter", hook)
	_, err := f.FarmKeeper.AddPool(f.Ctx, f.Authority, asset, 100, 0, "reenter", false)
	require.NoError(t, err)

	hook.armed = true
	_, _, err = f.VaultKeeper.Deposit(f.Ctx, alice.String(), math.NewInt(10_000))
	require.ErrorIs(t, err, farmtypes.ErrRewarderFailed)
	require.ErrorIs(t, hook.err, types.ErrReentrantCall)
	require.Equal(t, "50000", f.Balance(alice, asset).String())
	require.True(t, f.VaultKeeper.GetVaultState(f.Ctx).TotalShares.IsZero())

	hook.armed = false
	deposit(t, f, alice, 10_000)
}

func TestActionHistory(t *testing.T) {
	f := newVault(t)
	alice, carol := testutil.Addr("alice"), testutil.Addr("carol")

	deposit(t, f, alice, 10_000)
	f.Advance(10)
	_, _, err := f.VaultKeeper.Harvest(f.Ctx, carol.String())
	require.NoError(t, err)

	actions := f.VaultKeeper.GetActions(f.Ctx, 0)
	require.Len(t, actions, 2)
	require.Equal(t, types.ActionHarvest, actions[0].Kind)
	require.Equal(t, carol.String(), actions[0].User)
	require.Equal(t, types.ActionDeposit, actions[1].Kind)
	require.Equal(t, "10000", actions[1].Shares.String())
	require.NotEqual(t, actions[0].ID, actions[1].ID)

	require.Len(t, f.VaultKeeper.GetActions(f.Ctx, 1), 1)
}

func TestActionHistoryIsBounded(t *testing.T) {
	f := newVault(t)
	carol := testutil.Addr("carol").String()

	extra := uint64(5)
	for i := uint64(0); i < types.ActionHistoryLimit+extra; i++ {
		_, _, err := f.VaultKeeper.Harvest(f.Ctx, carol)
		require.NoError(t, err)
	}

	actions := f.VaultKeeper.GetActions(f.Ctx, 0)
	require.Len(t, actions, int(types.ActionHistoryLimit))
	require.Equal(t, types.ActionHistoryLimit+extra-1, actions[0].Seq)
	require.Equal(t, extra, actions[len(actions)-1].Seq)
}

func TestVaultGenesisRoundTrip(t *testing.T) {
	f := newVault(t)
	deposit(t, f, testutil.Addr("alice"), 10_000)
	f.Advance(50)
	deposit(t, f, testutil.Addr("bob"), 5_000)

	exported := f.VaultKeeper.ExportGenesis(f.Ctx)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Users, 2)
	require.Len(t, exported.Actions, 2)
	require.Less(t, exported.Actions[0].Seq, exported.Actions[1].Seq)

	g := testutil.NewFixture(t)
	g.VaultKeeper.InitGenesis(g.Ctx, *exported)

	want, err := json.Marshal(exported)
	require.NoError(t, err)
	got, err := json.Marshal(g.VaultKeeper.ExportGenesis(g.Ctx))
	require.NoError(t, err)
	require.JSONEq(t, string(want), string(got))

	broken := *exported
	broken.State.TotalShares = broken.State.TotalShares.AddRaw(1)
	require.Error(t, broken.Validate())
}

func TestVaultHandle(t *testing.T) {
	f := newVault(t)
	srv := keeper.NewMsgServerImpl(f.VaultKeeper)
	q := keeper.NewQueryServerImpl(f.VaultKeeper)
	alice := testutil.Addr("alice").String()

	res, err := srv.Handle(f.Ctx, &types.MsgVaultDeposit{Depositor: alice, Amount: "10000"})
	require.NoError(t, err)
	dep := res.(*types.MsgVaultDepositResponse)
	require.Equal(t, "10000", dep.SharesMinted)
	require.Equal(t, f.Now()+types.DefaultLockDuration, dep.LockEndTime)

	info, err := q.UserInfo(f.Ctx, alice)
	require.NoError(t, err)
	require.True(t, info.Locked)
	require.Equal(t, "10000", info.CurrentValue)

	f.Advance(100)
	res, err = srv.Handle(f.Ctx, &types.MsgVaultHarvest{Caller: alice})
	require.NoError(t, err)
	require.Equal(t, "1000", res.(*types.MsgVaultHarvestResponse).Harvested)

	under, err := q.Underlying(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, "10978", under.Total)

	_, err = srv.Handle(f.Ctx, &types.MsgVaultWithdrawAll{Withdrawer: alice})
	require.ErrorIs(t, err, types.ErrLockViolation)

	_, err = srv.Handle(f.Ctx, &types.MsgVaultDeposit{Depositor: alice, Amount: "ten"})
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = srv.Handle(f.Ctx, &farmtypes.MsgDeposit{Depositor: alice, Amount: "1"})
	require.ErrorIs(t, err, sdkerrors.ErrUnknownRequest)
}

func TestVaultEndBlocker(t *testing.T) {
	f := newVault(t)
	deposit(t, f, testutil.Addr("alice"), 10_000)
	f.Advance(100)

	before := f.VaultKeeper.GetVaultState(f.Ctx)
	require.NoError(t, f.VaultKeeper.EndBlocker(f.Ctx))
	after := f.VaultKeeper.GetVaultState(f.Ctx)
	require.Equal(t, before.TotalShares.String(), after.TotalShares.String())
	require.Equal(t, before.LastHarvestTime, after.LastHarvestTime)

	// an unconfigured vault is not an error
	g := testutil.NewFixture(t)
	require.NoError(t, g.VaultKeeper.EndBlocker(g.Ctx))
}
