package keeper_test

import (
	stdmath "math"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/farmchain/testutil"
	"github.com/openalpha/farmchain/x/farm/types"
)

func TestAddPoolValidation(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1))

	_, err := f.FarmKeeper.AddPool(f.Ctx, alice.String(), stakeDenom, 100, 0, "", false)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.FarmKeeper.AddPool(f.Ctx, f.Authority, "unissued", 100, 0, "", false)
	require.ErrorIs(t, err, types.ErrInvalidDenom)

	pid := addPool(t, f, stakeDenom, 100, 0)
	require.Equal(t, uint64(0), pid)

	_, err = f.FarmKeeper.AddPool(f.Ctx, f.Authority, stakeDenom, 50, 0, "", false)
	require.ErrorIs(t, err, types.ErrDuplicateDenom)
	require.Equal(t, uint64(1), f.FarmKeeper.PoolLength(f.Ctx))

	_, err = f.FarmKeeper.AddPool(f.Ctx, f.Authority, stakeDenom, 100, 0, "missing", false)
	require.ErrorIs(t, err, types.ErrDuplicateDenom)

	f.Fund(t, alice, sdk.NewInt64Coin("uother", 1))
	_, err = f.FarmKeeper.AddPool(f.Ctx, f.Authority, "uother", 100, 0, "missing", false)
	require.ErrorIs(t, err, types.ErrUnknownRewarder)
}

func TestSetPoolSettlesBeforeReweighting(t *testing.T) {
	f := newFarm(t)
	f.SetFarmParams(t, func(p *types.Params) {
		p.DevBps, p.TreasuryBps, p.InvestorBps = 0, 0, 0
	})

	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin("ualpha", 100), sdk.NewInt64Coin("ubeta", 100))
	pa := addPool(t, f, "ualpha", 100, 0)
	pb := addPool(t, f, "ubeta", 100, 0)
	stake(t, f, alice, pa, 100)
	stake(t, f, alice, pb, 100)

	f.Advance(100)
	_, err := f.FarmKeeper.SetPool(f.Ctx, f.Authority, pa, 300, 0, "", false, true)
	require.NoError(t, err)
	require.Equal(t, uint64(400), f.FarmKeeper.GetTotalWeight(f.Ctx))

	f.Advance(100)
	pendingA, err := f.FarmKeeper.PendingReward(f.Ctx, pa, alice.String())
	require.NoError(t, err)
	// 500 at half weight, then 750 at three quarters
	require.Equal(t, "1250", pendingA.String())

	pendingB, err := f.FarmKeeper.PendingReward(f.Ctx, pb, alice.String())
	require.NoError(t, err)
	require.Equal(t, "750", pendingB.String())

	_, err = f.FarmKeeper.SetPool(f.Ctx, f.Authority, 7, 1, 0, "", false, false)
	require.ErrorIs(t, err, types.ErrPoolNotFound)
}

func TestTotalWeightCannotOverflow(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin("ualpha", 1), sdk.NewInt64Coin("ubeta", 1))

	pa := addPool(t, f, "ualpha", stdmath.MaxUint64, 0)
	_, err := f.FarmKeeper.AddPool(f.Ctx, f.Authority, "ubeta", 2, 0, "", false)
	require.ErrorIs(t, err, types.ErrInvalidParams)
	require.Equal(t, uint64(stdmath.MaxUint64), f.FarmKeeper.GetTotalWeight(f.Ctx))
	require.Equal(t, uint64(1), f.FarmKeeper.PoolLength(f.Ctx))

	pb := addPool(t, f, "ubeta", 0, 0)
	_, err = f.FarmKeeper.SetPool(f.Ctx, f.Authority, pb, 1, 0, "", false, false)
	require.ErrorIs(t, err, types.ErrInvalidParams)
	require.Equal(t, uint64(0), f.FarmKeeper.GetPool(f.Ctx, pb).Weight)

	_, err = f.FarmKeeper.SetPool(f.Ctx, f.Authority, pa, 10, 0, "", false, false)
	require.NoError(t, err)
	_, err = f.FarmKeeper.SetPool(f.Ctx, f.Authority, pb, 5, 0, "", false, false)
	require.NoError(t, err)
	require.Equal(t, uint64(15), f.FarmKeeper.GetTotalWeight(f.Ctx))
}

func TestEmissionRateCeiling(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 0)
	stake(t, f, alice, pid, 1000)

	err := f.FarmKeeper.UpdateEmissionRate(f.Ctx, alice.String(), math.NewInt(5))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	err = f.FarmKeeper.UpdateEmissionRate(f.Ctx, f.Authority, math.NewInt(101))
	require.ErrorIs(t, err, types.ErrRateAboveCeiling)
	require.Equal(t, "10", f.FarmKeeper.GetParams(f.Ctx).RewardPerSecond.String())

	f.Advance(100)
	require.NoError(t, f.FarmKeeper.UpdateEmissionRate(f.Ctx, f.Authority, math.NewInt(100)))

	params := f.FarmKeeper.GetParams(f.Ctx)
	require.Equal(t, "100", params.RewardPerSecond.String())
	require.Equal(t, "100", params.MaxRewardPerSecond.String())
	require.True(t, f.HasEvent(types.EventTypeEmissionRate))

	// the first 100 seconds settle at the old rate
	f.Advance(10)
	pending, err := f.FarmKeeper.PendingReward(f.Ctx, pid, alice.String())
	require.NoError(t, err)
	require.Equal(t, "1600", pending.String())

	require.NoError(t, f.FarmKeeper.UpdateEmissionRate(f.Ctx, f.Authority, math.ZeroInt()))
	f.Advance(100)
	pending, err = f.FarmKeeper.PendingReward(f.Ctx, pid, alice.String())
	require.NoError(t, err)
	require.Equal(t, "1600", pending.String())
}

func TestUpdateSplits(t *testing.T) {
	f := newFarm(t)

	tests := []struct {
		name                    string
		dev, treasury, investor uint32
		err                     error
	}{
		{"single over cap", types.SplitMaxBps + 1, 0, 0, types.ErrInvalidSplit},
		{"sum over cap", 1500, 1000, 600, types.ErrInvalidSplit},
		{"sum at cap", 1000, 1000, 1000, nil},
		{"all zero", 0, 0, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.FarmKeeper.UpdateSplits(f.Ctx, f.Authority, tt.dev, tt.treasury, tt.investor)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			params := f.FarmKeeper.GetParams(f.Ctx)
			require.Equal(t, tt.dev, params.DevBps)
			require.Equal(t, tt.treasury, params.TreasuryBps)
			require.Equal(t, tt.investor, params.InvestorBps)
		})
	}

	err := f.FarmKeeper.UpdateSplits(f.Ctx, testutil.Addr("dev").String(), 0, 0, 0)
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestRecipientsRotateThemselves(t *testing.T) {
	f := newFarm(t)
	recipients := f.FarmKeeper.GetRecipients(f.Ctx)
	next := testutil.Addr("next").String()

	roles := []struct {
		role   string
		holder string
	}{
		{types.RoleDev, recipients.Dev},
		{types.RoleTreasury, recipients.Treasury},
		{types.RoleInvestor, recipients.Investor},
		{types.RoleFee, recipients.FeeSink},
	}
	for _, r := range roles {
		t.Run(r.role, func(t *testing.T) {
			err := f.FarmKeeper.SetRecipient(f.Ctx, f.Authority, r.role, next)
			require.ErrorIs(t, err, types.ErrNotRecipientHolder)

			require.NoError(t, f.FarmKeeper.SetRecipient(f.Ctx, r.holder, r.role, next))
			got, _ := f.FarmKeeper.GetRecipients(f.Ctx).Get(r.role)
			require.Equal(t, next, got)

			// the previous holder lost the role
			err = f.FarmKeeper.SetRecipient(f.Ctx, r.holder, r.role, r.holder)
			require.ErrorIs(t, err, types.ErrNotRecipientHolder)
		})
	}

	err := f.FarmKeeper.SetRecipient(f.Ctx, next, "marketing", next)
	require.ErrorIs(t, err, types.ErrInvalidParams)

	err = f.FarmKeeper.SetRecipient(f.Ctx, next, types.RoleDev, "not-an-address")
	require.ErrorIs(t, err, types.ErrInvalidAddress)
}

func TestUnsetRecipientForfeitsSplit(t *testing.T) {
	f := newFarm(t)
	f.FarmKeeper.SetRecipients(f.Ctx, types.Recipients{FeeSink: testutil.Addr("fee-sink").String()})

	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 0)
	stake(t, f, alice, pid, 1000)
	f.Advance(100)

	paid, err := f.FarmKeeper.HarvestMany(f.Ctx, alice.String(), []uint64{pid})
	require.NoError(t, err)
	require.Equal(t, "800", paid.String())
	require.Equal(t, "800", f.FarmKeeper.RewardSupply(f.Ctx).String())
}

func TestRecoverTokens(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000), sdk.NewInt64Coin("ustray", 70))
	addPool(t, f, stakeDenom, 100, 0)

	farmAddr := f.FarmKeeper.ModuleAddress()
	require.NoError(t, f.BankKeeper.SendCoins(f.Ctx, alice, farmAddr, sdk.NewCoins(sdk.NewInt64Coin("ustray", 70))))

	tests := []struct {
		name      string
		authority string
		denom     string
		err       error
	}{
		{"not authority", alice.String(), "ustray", types.ErrUnauthorized},
		{"reward denom", f.Authority, types.DefaultRewardDenom, types.ErrProtectedDenom},
		{"stake denom", f.Authority, stakeDenom, types.ErrProtectedDenom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.FarmKeeper.RecoverTokens(f.Ctx, tt.authority, tt.denom, math.NewInt(1), alice.String())
			require.ErrorIs(t, err, tt.err)
		})
	}

	rescuer := testutil.Addr("rescuer")
	require.NoError(t, f.FarmKeeper.RecoverTokens(f.Ctx, f.Authority, "ustray", math.NewInt(70), rescuer.String()))
	require.Equal(t, "70", f.Balance(rescuer, "ustray").String())
	require.True(t, f.Balance(farmAddr, "ustray").IsZero())
}

func TestUpdatePoolIsPermissionless(t *testing.T) {
	f := newFarm(t)
	alice := testutil.Addr("alice")
	f.Fund(t, alice, sdk.NewInt64Coin(stakeDenom, 1000))
	pid := addPool(t, f, stakeDenom, 100, 0)
	stake(t, f, alice, pid, 1000)
	f.Advance(100)

	pool, err := f.FarmKeeper.UpdatePool(f.Ctx, pid)
	require.NoError(t, err)
	require.Equal(t, f.Now(), pool.LastAccrualTime)
	require.Equal(t, "800000000000", pool.AccRewardPerShare.String())
	require.Equal(t, "800", f.FarmKeeper.ReserveBalance(f.Ctx).String())

	require.NoError(t, f.FarmKeeper.MassUpdatePools(f.Ctx))
	require.Equal(t, "800", f.FarmKeeper.ReserveBalance(f.Ctx).String())

	_, err = f.FarmKeeper.UpdatePool(f.Ctx, 3)
	require.ErrorIs(t, err, types.ErrPoolNotFound)
}
