package keeper_test

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/farmchain/testutil"
	"github.com/openalpha/farmchain/x/farm/types"
)

var errHookReverted = errors.New("hook reverted")

// stubRewarder is a programmable rewarder. It counts the stake changes it
// accepted so tests can tell whether its writes survived.
type stubRewarder struct {
	fail    bool
	reenter func(ctx sdk.Context) error

	accepted int
	lastErr  error
}

func (s *stubRewarder) OnStakeChanged(ctx sdk.Context, pid uint64, user sdk.AccAddress, newStake math.Int) error {
	if s.reenter != nil {
		s.lastErr = s.reenter(ctx)
		return s.lastErr
	}
	if s.fail {
		return errHookReverted
	}
	s.accepted++
	return nil
}

func (s *stubRewarder) PendingReward(ctx sdk.Context, pid uint64, user sdk.AccAddress) (sdk.Coin, error) {
	return sdk.NewCoin("ubonus", math.ZeroInt()), nil
}

func (s *stubRewarder) RewardDenom(ctx sdk.Context) string {
	return "ubonus"
}

func poolWithStub(t *testing.T, f *testutil.Fixture, stub *stubRewarder) uint64 {
	t.Helper()
	f.FarmKeeper.RegisterRewarder("stub", stub)
	f.Fund(t, testutil.Addr("alice"), sdk.NewInt64Coin(stakeDenom, 1000))
	pool, err := f.FarmKeeper.AddPool(f.Ctx, f.Authority, stakeDenom, 100, 0, "stub", false)
	require.NoError(t, err)
	return pool.ID
}

func TestRewarderVettedOnRegistration(t *testing.T) {
	f := newFarm(t)
	stub := &stubRewarder{fail: true}
	f.FarmKeeper.RegisterRewarder("stub", stub)
	f.Fund(t, testutil.Addr("alice"), sdk.NewInt64Coin(stakeDenom, 1))

	_, err := f.FarmKeeper.AddPool(f.Ctx, f.Authority, stakeDenom, 100, 0, "stub", false)
	require.ErrorIs(t, err, types.ErrRewarderRejected)
	require.Equal(t, uint64(0), f.FarmKeeper.PoolLength(f.Ctx))

	stub.fail = false
	pid := addPool(t, f, stakeDenom, 100, 0)

	stub.fail = true
	_, err = f.FarmKeeper.SetPool(f.Ctx, f.Authority, pid, 100, 0, "stub", true, false)
	require.ErrorIs(t, err, types.ErrRewarderRejected)
	require.Empty(t, f.FarmKeeper.GetPool(f.Ctx, pid).Rewarder)
}

func TestRewarderFailurePolicy(t *testing.T) {
	t.Run("propagate aborts the deposit", func(t *testing.T) {
		f := newFarm(t)
		stub := &stubRewarder{}
		pid := poolWithStub(t, f, stub)
		alice := testutil.Addr("alice")

		stub.fail = true
		_, err := f.FarmKeeper.Deposit(f.Ctx, alice.String(), pid, math.NewInt(1000))
		require.ErrorIs(t, err, types.ErrRewarderFailed)

		require.Equal(t, "1000", f.Balance(alice, stakeDenom).String())
		require.True(t, f.ModuleBalance(types.ModuleName, stakeDenom).IsZero())
		require.True(t, f.FarmKeeper.GetPool(f.Ctx, pid).TotalStaked.IsZero())
		require.True(t, f.FarmKeeper.GetPosition(f.Ctx, pid, alice.String()).StakedAmount.IsZero())
		require.False(t, f.HasEvent(types.EventTypeDeposit))
	})

	t.Run("tolerate keeps the deposit", func(t *testing.T) {
		f := newFarm(t)
		f.SetFarmParams(t, func(p *types.Params) {
			p.RewarderPolicy = types.RewarderPolicyTolerate
		})
		stub := &stubRewarder{}
		pid := poolWithStub(t, f, stub)
		alice := testutil.Addr("alice")

		stub.fail = true
		result := stake(t, f, alice, pid, 1000)
		require.Equal(t, "1000", result.Position.StakedAmount.String())
		require.True(t, f.HasEvent(types.EventTypeRewarderFailed))
		require.True(t, f.HasEvent(types.EventTypeDeposit))
	})

	t.Run("emergency withdraw ignores the rewarder", func(t *testing.T) {
		f := newFarm(t)
		stub := &stubRewarder{}
		pid := poolWithStub(t, f, stub)
		alice := testutil.Addr("alice")
		stake(t, f, alice, pid, 1000)

		stub.fail = true
		_, err := f.FarmKeeper.Withdraw(f.Ctx, alice.String(), pid, math.NewInt(10))
		require.ErrorIs(t, err, types.ErrRewarderFailed)

		amount, err := f.FarmKeeper.EmergencyWithdraw(f.Ctx, alice.String(), pid)
		require.NoError(t, err)
		require.Equal(t, "1000", amount.String())
		require.Equal(t, "1000", f.Balance(alice, stakeDenom).String())
	})
}

func TestRewarderSeesEveryStakeChange(t *testing.T) {
	f := newFarm(t)
	stub := &stubRewarder{}
	pid := poolWithStub(t, f, stub)
	alice := testutil.Addr("alice")
	accepted := stub.accepted

	stake(t, f, alice, pid, 1000)
	f.Advance(100)
	_, err := f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pid})
	require.NoError(t, err)
	_, err = f.FarmKeeper.Withdraw(f.Ctx, alice.String(), pid, math.NewInt(1000))
	require.NoError(t, err)

	require.Equal(t, accepted+3, stub.accepted)
}

func TestReentrantCallIsRejected(t *testing.T) {
	f := newFarm(t)
	stub := &stubRewarder{}
	pid := poolWithStub(t, f, stub)
	alice := testutil.Addr("alice")

	stub.reenter = func(ctx sdk.Context) error {
		_, err := f.FarmKeeper.Deposit(ctx, alice.String(), pid, math.ZeroInt())
		return err
	}
	_, err := f.FarmKeeper.Deposit(f.Ctx, alice.String(), pid, math.NewInt(500))
	require.ErrorIs(t, err, types.ErrRewarderFailed)
	require.ErrorIs(t, stub.lastErr, types.ErrReentrantCall)
	require.Equal(t, "1000", f.Balance(alice, stakeDenom).String())

	// the guard is released after the failed call
	stub.reenter = nil
	stake(t, f, alice, pid, 500)
	require.Equal(t, "500", f.Balance(alice, stakeDenom).String())
}
