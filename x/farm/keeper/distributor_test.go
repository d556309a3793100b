package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/farmchain/testutil"
	"github.com/openalpha/farmchain/x/farm/types"
)

const stakeDenom = "ustake"

// newFarm returns a fixture emitting 10 reward units per second with the
// recipients set
func newFarm(t *testing.T) *testutil.Fixture {
	t.Helper()
	f := testutil.NewFixture(t)
	f.SetFarmParams(t, func(p *types.Params) {
		p.RewardPerSecond = math.NewInt(10)
		p.MaxRewardPerSecond = math.NewInt(100)
	})
	f.SetRecipients()
	return f
}

func addPool(t *testing.T, f *testutil.Fixture, denom string, weight uint64, feeBps uint32) uint64 {
	t.Helper()
	pool, err := f.FarmKeeper.AddPool(f.Ctx, f.Authority, denom, weight, feeBps, "", false)
	require.NoError(t, err)
	return pool.ID
}

func stake(t *testing.T, f *testutil.Fixture, user sdk.AccAddress, pid uint64, amount int64) *types.ActionResult {
	t.Helper()
	result, err := f.FarmKeeper.Deposit(f.Ctx, user.String(), pid, math.NewInt(amount))
	require.NoError(t, err)
	return result
}

func TestSinglePoolAccrual(t *testing.T) {
	tests := []struct {
		name                        string
		dev, treasury, investor     uint32
		wantUser                    int64
		wantDev, wantTreas, wantInv int64
	}{
		{"no splits", 0, 0, 0, 1000, 0, 0, 0},
		{"default splits", 1000, 500, 500, 800, 100, 50, 50},
		{"max splits", 1000, 1000, 1000, 700, 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFarm(t)
			f.SetFarmParams(t, func(p *types.Params) {
				p.DevBps, p.TreasuryBps, p.InvestorBps = tt.dev, tt.treasury, tt.investor
			})

			alice := testutil.Addr("alice")
			f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
			pid := addPool(t, f, stakeDenom, 100, 0)
			stake(t, f, alice, pid, 1000)

			f.Advance(100)

			pending, err := f.FarmKeeper.PendingReward(f.Ctx, pid, alice.String())
			require.NoError(t, err)
			require.Equal(t, math.NewInt(tt.wantUser).String(), pending.String())

			paid, err := f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pid})
			require.NoError(t, err)
			require.Equal(t, math.NewInt(tt.wantUser).String(), paid.String())

			rewardDenom := types.DefaultRewardDenom
			require.Equal(t, math.NewInt(tt.wantUser).String(), f.Balance(alice, rewardDenom).String())
			require.Equal(t, math.NewInt(tt.wantDev).String(), f.Balance(testutil.Addr("dev"), rewardDenom).String())
			require.Equal(t, math.NewInt(tt.wantTreas).String(), f.Balance(testutil.Addr("treasury"), rewardDenom).String())
			require.Equal(t, math.NewInt(tt.wantInv).String(), f.Balance(testutil.Addr("investor"), rewardDenom).String())
			require.True(t, f.FarmKeeper.ReserveBalance(f.Ctx).IsZero())
		})
	}
}

func TestDepositFee(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 500)

	result := stake(t, f, alice, pid, 1000)
	require.Equal(t, "950", result.Amount.String())
	require.Equal(t, "50", result.Fee.String())
	require.Equal(t, "950", result.Position.StakedAmount.String())

	require.Equal(t, "50", f.Balance(testutil.Addr("fee-sink"), stakeDenom).String())
	require.Equal(t, "950", f.ModuleBalance(types.ModuleName, stakeDenom).String())
	require.Equal(t, "950", f.FarmKeeper.GetPool(f.Ctx, pid).TotalStaked.String())
}

func TestDepositFeeAboveMaximum(t *testing.T) {
	f := newFarm(t)
	f.Fund(t, testutil.Addr("alice"), sdk.NewInt64Coin(stakeDenom, 1))

	_, err := f.FarmKeeper.AddPool(f.Ctx, f.Authority, stakeDenom, 100, types.DepositFeeMaxBps+1, "", false)
	require.ErrorIs(t, err, types.ErrInvalidFee)

	_, err = f.FarmKeeper.AddPool(f.Ctx, f.Authority, stakeDenom, 100, types.DepositFeeMaxBps, "", false)
	require.NoError(t, err)
}

func TestEqualStakersSplitEvenly(t *testing.T) {
	for _, order := range [][]string{{"alice", "bob"}, {"bob", "alice"}} {
		t.Run(order[0]+" first", func(t *testing.T) {
			f := newFarm(t)
			alice, bob := testutil.Addr("alice"), testutil.Addr("bob")
			f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 500))
			f.Fund(t, bob, sdk.NewInt64Coin(stakeDenom, 500))
			pid := addPool(t, f, stakeDenom, 100, 0)

			for _, name := range order {
				stake(t, f, testutil.Addr(name), pid, 500)
			}

			f.Advance(100)

			for _, user := range []sdk.AccAddress{alice, bob} {
				paid, err := f.FarmKeeper.HarvestMany(f.Ctx, user.String(), []uint64{pid})
				require.NoError(t, err)
				require.Equal(t, "400", paid.String())
			}
		})
	}
}

func TestPoolWeights(t *testing.T) {
	f := newFarm(t)
	f.SetFarmParams(t, func(p *types.Params) {
		p.DevBps, p.TreasuryBps, p.InvestorBps = 0, 0, 0
	})

	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin("ualpha", 100), sdk.NewInt64Coin("ubeta", 100))
	pa := addPool(t, f, "ualpha", 100, 0)
	pb := addPool(t, f, "ubeta", 300, 0)
	require.Equal(t, uint64(400), f.FarmKeeper.GetTotalWeight(f.Ctx))

	stake(t, f, alice, pa, 100)
	stake(t, f, alice, pb, 100)
	f.Advance(100)

	pendingA, err := f.FarmKeeper.PendingReward(f.Ctx, pa, alice.String())
	require.NoError(t, err)
	require.Equal(t, "250", pendingA.String())
	pendingB, err := f.FarmKeeper.PendingReward(f.Ctx, pb, alice.String())
	require.NoError(t, err)
	require.Equal(t, "750", pendingB.String())

	paid, err := f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pa, pb})
	require.NoError(t, err)
	require.Equal(t, "1000", paid.String())
}

func TestTopUpPaysThenRebases(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 0)

	stake(t, f, alice, pid, 500)
	f.Advance(100)

	result := stake(t, f, alice, pid, 500)
	require.Equal(t, "800", result.RewardPaid.String())
	require.Equal(t, "1000", result.Position.StakedAmount.String())
	// acc = 800e12 / 500
	require.Equal(t, "1600", result.Position.RewardDebt.String())

	pending, err := f.FarmKeeper.PendingReward(f.Ctx, pid, alice.String())
	require.NoError(t, err)
	require.True(t, pending.IsZero())

	f.Advance(100)
	pending, err = f.FarmKeeper.PendingReward(f.Ctx, pid, alice.String())
	require.NoError(t, err)
	require.Equal(t, "800", pending.String())
}

func TestHarvestIsIdempotentWithinBlock(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 0)
	stake(t, f, alice, pid, 1000)
	f.Advance(50)

	first, err := f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pid})
	require.NoError(t, err)
	require.Equal(t, "400", first.String())

	second, err := f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pid})
	require.NoError(t, err)
	require.True(t, second.IsZero())
	require.Equal(t, "400", f.Balance(alice, types.DefaultRewardDenom).String())
}

func TestWithdraw(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 0)
	stake(t, f, alice, pid, 1000)
	f.Advance(100)

	_, err := f.FarmKeeper.Withdraw(f.Ctx, alice.String(), pid, math.NewInt(1001))
	require.ErrorIs(t, err, types.ErrInsufficientStake)
	require.True(t, f.Balance(alice, stakeDenom).IsZero())

	result, err := f.FarmKeeper.Withdraw(f.Ctx, alice.String(), pid, math.NewInt(400))
	require.NoError(t, err)
	require.Equal(t, "800", result.RewardPaid.String())
	require.Equal(t, "600", result.Position.StakedAmount.String())
	require.Equal(t, "400", f.Balance(alice, stakeDenom).String())
	require.Equal(t, "600", f.FarmKeeper.GetPool(f.Ctx, pid).TotalStaked.String())
}

func TestEmergencyWithdrawForfeitsReward(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 0)
	stake(t, f, alice, pid, 1000)
	f.Advance(100)

	amount, err := f.FarmKeeper.EmergencyWithdraw(f.Ctx, alice.String(), pid)
	require.NoError(t, err)
	require.Equal(t, "1000", amount.String())

	require.Equal(t, "1000", f.Balance(alice, stakeDenom).String())
	require.True(t, f.Balance(alice, types.DefaultRewardDenom).IsZero())

	pos := f.FarmKeeper.GetPosition(f.Ctx, pid, alice.String())
	require.True(t, pos.StakedAmount.IsZero())
	require.True(t, pos.RewardDebt.IsZero())
	require.True(t, f.FarmKeeper.GetPool(f.Ctx, pid).TotalStaked.IsZero())
}

func TestSupplyCapClampsMint(t *testing.T) {
	f := newFarm(t)
	f.SetFarmParams(t, func(p *types.Params) {
		p.RewardSupplyCap = math.NewInt(500)
	})

	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 0)
	stake(t, f, alice, pid, 1000)
	f.Advance(100)

	// splits take 200 of the 1000 emitted, the reserve only gets the 300
	// left under the cap and the rest of the 800 owed is forfeited
	paid, err := f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pid})
	require.NoError(t, err)
	require.Equal(t, "300", paid.String())
	require.True(t, f.HasEvent(types.EventTypeReserveShortfall))
	require.Equal(t, "500", f.FarmKeeper.RewardSupply(f.Ctx).String())

	f.Advance(100)
	paid, err = f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pid})
	require.NoError(t, err)
	require.True(t, paid.IsZero())
	require.Equal(t, "500", f.FarmKeeper.RewardSupply(f.Ctx).String())
}

func TestRewardConservation(t *testing.T) {
	f := newFarm(t)
	users := []sdk.AccAddress{testutil.Addr("alice"), testutil.Addr("bob"), testutil.Addr("carol")}
	for _, u := range users {
		f.Fund(t, u, sdk.NewInt64Coin(stakeDenom, 777))
	}
	pid := addPool(t, f, stakeDenom, 100, 0)

	stake(t, f, users[0], pid, 300)
	f.Advance(7)
	stake(t, f, users[1], pid, 777)
	f.Advance(13)
	stake(t, f, users[2], pid, 101)
	f.Advance(29)
	_, err := f.FarmKeeper.Withdraw(f.Ctx, users[1].String(), pid, math.NewInt(333))
	require.NoError(t, err)
	f.Advance(51)

	for _, u := range users {
		_, err := f.FarmKeeper.HarvestMany(f.Ctx, u.String(), []uint64{pid})
		require.NoError(t, err)
	}

	paid := math.ZeroInt()
	for _, u := range users {
		paid = paid.Add(f.Balance(u, types.DefaultRewardDenom))
	}
	splits := math.ZeroInt()
	for _, name := range []string{"dev", "treasury", "investor"} {
		splits = splits.Add(f.Balance(testutil.Addr(name), types.DefaultRewardDenom))
	}

	// 100 seconds at 10 per second, every unit minted is either paid out,
	// held by a recipient or still in the reserve as rounding dust
	require.Equal(t, "1000", f.FarmKeeper.RewardSupply(f.Ctx).String())
	require.Equal(t, "1000", paid.Add(splits).Add(f.FarmKeeper.ReserveBalance(f.Ctx)).String())
	require.True(t, f.FarmKeeper.ReserveBalance(f.Ctx).LT(math.NewInt(10)))
}

func TestHarvestManyBatchRules(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1))
	pid := addPool(t, f, stakeDenom, 100, 0)

	tooMany := make([]uint64, types.MaxHarvestBatch+1)
	for i := range tooMany {
		tooMany[i] = uint64(i)
	}

	tests := []struct {
		name string
		pids []uint64
		err  error
	}{
		{"empty", nil, types.ErrInvalidAmount},
		{"over limit", tooMany, types.ErrTooManyPools},
		{"duplicate", []uint64{pid, pid}, types.ErrDuplicatePool},
		{"unknown pool", []uint64{pid, 9}, types.ErrPoolNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), tt.pids)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPausedFarm(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 0)
	stake(t, f, alice, pid, 500)
	f.Advance(10)

	require.ErrorIs(t, f.FarmKeeper.SetPaused(f.Ctx, alice.String(), true), types.ErrUnauthorized)
	require.NoError(t, f.FarmKeeper.SetPaused(f.Ctx, f.Authority, true))

	_, err := f.FarmKeeper.Deposit(f.Ctx, alice.String(), pid, math.NewInt(100))
	require.ErrorIs(t, err, types.ErrPaused)

	// harvest, withdraw and emergency withdraw stay open
	_, err = f.FarmKeeper.Deposit(f.Ctx, alice.String(), pid, math.ZeroInt())
	require.NoError(t, err)
	_, err = f.FarmKeeper.Withdraw(f.Ctx, alice.String(), pid, math.NewInt(100))
	require.NoError(t, err)
	_, err = f.FarmKeeper.EmergencyWithdraw(f.Ctx, alice.String(), pid)
	require.NoError(t, err)
	require.Equal(t, "1000", f.Balance(alice, stakeDenom).String())

	require.NoError(t, f.FarmKeeper.SetPaused(f.Ctx, f.Authority, false))
	stake(t, f, alice, pid, 100)
}

func TestStartTimeDelaysAccrual(t *testing.T) {
	f := newFarm(t)
	f.SetFarmParams(t, func(p *types.Params) {
		p.StartTime = testutil.GenesisTime + 50
	})

	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 0)
	stake(t, f, alice, pid, 1000)

	f.Advance(40)
	pending, err := f.FarmKeeper.PendingReward(f.Ctx, pid, alice.String())
	require.NoError(t, err)
	require.True(t, pending.IsZero())

	f.Advance(60)
	pending, err = f.FarmKeeper.PendingReward(f.Ctx, pid, alice.String())
	require.NoError(t, err)
	require.Equal(t, "400", pending.String())
}
