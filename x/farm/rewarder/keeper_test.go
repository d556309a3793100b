package rewarder_test

import (
	stdmath "math"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/farmchain/testutil"
	"github.com/openalpha/farmchain/x/farm/rewarder"
	farmtypes "github.com/openalpha/farmchain/x/farm/types"
)

const bonusDenom = "ubonus"

// setupBonusPool funds the rewarder with 200 bonus, emits 5 bonus per
// second into farm pool 0 and stakes 1000 for alice
func setupBonusPool(t *testing.T) (*testutil.Fixture, sdk.AccAddress, uint64) {
	t.Helper()
	f := testutil.NewFixture(t)
	f.SetRecipients()
	rk := f.RewarderKeeper

	sponsor := testutil.Addr("sponsor")
	f.Fund(t, sponsor, sdk.NewInt64Coin(bonusDenom, 1000))
	require.NoError(t, rk.SetPool(f.Ctx, f.Authority, 0, 1))
	require.NoError(t, rk.SetRewardRate(f.Ctx, f.Authority, math.NewInt(5)))
	require.NoError(t, rk.Fund(f.Ctx, sponsor.String(), math.NewInt(200)))

	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin("ustake", 1000))
	pool, err := f.FarmKeeper.AddPool(f.Ctx, f.Authority, "ustake", 100, 0, rewarder.ModuleName, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0), pool.ID)

	_, err = f.FarmKeeper.Deposit(f.Ctx, alice.String(), pool.ID, math.NewInt(1000))
	require.NoError(t, err)
	return f, alice, pool.ID
}

func TestPaysAlongsideFarmRewards(t *testing.T) {
	f, alice, pid := setupBonusPool(t)
	f.Advance(100)

	coin, ok, err := f.FarmKeeper.PendingRewarderReward(f.Ctx, pid, alice)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "500ubonus", coin.String())

	_, err = f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pid})
	require.NoError(t, err)
	require.False(t, f.Balance(alice, farmtypes.DefaultRewardDenom).IsZero())
	require.Equal(t, "200", f.Balance(alice, bonusDenom).String())
}

func TestCarriesUnpaidUntilFunded(t *testing.T) {
	f, alice, pid := setupBonusPool(t)
	rk := f.RewarderKeeper
	f.Advance(100)

	_, err := f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pid})
	require.NoError(t, err)
	require.Equal(t, "200", f.Balance(alice, bonusDenom).String())
	require.True(t, rk.Balance(f.Ctx).IsZero())

	pos := rk.GetPosition(f.Ctx, pid, alice.String())
	require.Equal(t, "300", pos.Unpaid.String())
	require.Equal(t, "1000", pos.Amount.String())

	// an empty rewarder does not block the farm
	_, err = f.FarmKeeper.Withdraw(f.Ctx, alice.String(), pid, math.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, "300", rk.GetPosition(f.Ctx, pid, alice.String()).Unpaid.String())

	require.NoError(t, rk.Fund(f.Ctx, testutil.Addr("sponsor").String(), math.NewInt(300)))
	_, err = f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pid})
	require.NoError(t, err)
	require.Equal(t, "500", f.Balance(alice, bonusDenom).String())
	require.True(t, rk.GetPosition(f.Ctx, pid, alice.String()).Unpaid.IsZero())
}

func TestRewarderAdmin(t *testing.T) {
	f := testutil.NewFixture(t)
	rk := f.RewarderKeeper
	mallory := testutil.Addr("mallory").String()

	require.ErrorIs(t, rk.SetPool(f.Ctx, mallory, 0, 5), rewarder.ErrUnauthorized)
	require.ErrorIs(t, rk.SetRewardRate(f.Ctx, mallory, math.NewInt(1)), rewarder.ErrUnauthorized)
	require.ErrorIs(t, rk.SetRewardRate(f.Ctx, f.Authority, math.NewInt(-1)), rewarder.ErrInvalidAmount)
	require.ErrorIs(t, rk.Fund(f.Ctx, mallory, math.ZeroInt()), rewarder.ErrInvalidAmount)

	require.NoError(t, rk.SetPool(f.Ctx, f.Authority, 0, 5))
	require.NoError(t, rk.SetPool(f.Ctx, f.Authority, 1, 3))
	require.NoError(t, rk.SetPool(f.Ctx, f.Authority, 0, 2))
	require.Equal(t, uint64(5), rk.GetTotalWeight(f.Ctx))

	exported := rk.ExportGenesis(f.Ctx)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Pools, 2)

	g := testutil.NewFixture(t)
	g.RewarderKeeper.InitGenesis(g.Ctx, *exported)
	require.Equal(t, uint64(5), g.RewarderKeeper.GetTotalWeight(g.Ctx))
}

func TestRewarderWeightCannotOverflow(t *testing.T) {
	f := testutil.NewFixture(t)
	rk := f.RewarderKeeper

	require.NoError(t, rk.SetPool(f.Ctx, f.Authority, 0, stdmath.MaxUint64))
	require.ErrorIs(t, rk.SetPool(f.Ctx, f.Authority, 1, 2), rewarder.ErrInvalidParams)
	require.Equal(t, uint64(stdmath.MaxUint64), rk.GetTotalWeight(f.Ctx))
	require.Nil(t, rk.GetPool(f.Ctx, 1))

	require.NoError(t, rk.SetPool(f.Ctx, f.Authority, 0, 4))
	require.NoError(t, rk.SetPool(f.Ctx, f.Authority, 1, 2))
	require.Equal(t, uint64(6), rk.GetTotalWeight(f.Ctx))

	gs := rewarder.GenesisState{
		Params: rewarder.DefaultParams(),
		Pools:  []*rewarder.Pool{{PoolID: 0, Weight: stdmath.MaxUint64}, {PoolID: 1, Weight: 1}},
	}
	require.ErrorIs(t, gs.Validate(), rewarder.ErrInvalidParams)
}

func TestFundLeavesNoTraceOnFailure(t *testing.T) {
	f := testutil.NewFixture(t)
	rk := f.RewarderKeeper
	sponsor := testutil.Addr("sponsor")
	f.Fund(t, sponsor, sdk.NewInt64Coin(bonusDenom, 10))

	require.ErrorIs(t, rk.Fund(f.Ctx, "not-an-address", math.NewInt(1)), rewarder.ErrInvalidAddress)

	require.Error(t, rk.Fund(f.Ctx, sponsor.String(), math.NewInt(11)))
	require.True(t, rk.Balance(f.Ctx).IsZero())
	require.Equal(t, "10", f.Balance(sponsor, bonusDenom).String())

	// the guard is released after a failed call
	require.NoError(t, rk.Fund(f.Ctx, sponsor.String(), math.NewInt(10)))
	require.Equal(t, "10", rk.Balance(f.Ctx).String())
}

func TestRewarderHandle(t *testing.T) {
	f := testutil.NewFixture(t)
	srv := rewarder.NewMsgServerImpl(f.RewarderKeeper)
	sponsor := testutil.Addr("sponsor")
	f.Fund(t, sponsor, sdk.NewInt64Coin(bonusDenom, 50))

	_, err := srv.Handle(f.Ctx, &rewarder.MsgSetRewarderPool{Authority: f.Authority, PoolID: 2, Weight: 7})
	require.NoError(t, err)
	require.Equal(t, uint64(7), f.RewarderKeeper.GetPool(f.Ctx, 2).Weight)

	_, err = srv.Handle(f.Ctx, &rewarder.MsgSetRewardRate{Authority: f.Authority, RewardPerSecond: "9"})
	require.NoError(t, err)
	require.Equal(t, "9", f.RewarderKeeper.GetParams(f.Ctx).RewardPerSecond.String())

	_, err = srv.Handle(f.Ctx, &rewarder.MsgFundRewarder{Funder: sponsor.String(), Amount: "50"})
	require.NoError(t, err)
	require.Equal(t, "50", f.RewarderKeeper.Balance(f.Ctx).String())

	_, err = srv.Handle(f.Ctx, &rewarder.MsgFundRewarder{Funder: sponsor.String(), Amount: "0"})
	require.ErrorIs(t, err, rewarder.ErrInvalidAmount)

	_, err = srv.Handle(f.Ctx, &farmtypes.MsgDeposit{Depositor: sponsor.String(), Amount: "1"})
	require.ErrorIs(t, err, sdkerrors.ErrUnknownRequest)
}
