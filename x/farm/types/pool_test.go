package types

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
)

func TestPoolEmission(t *testing.T) {
	tests := []struct {
		name        string
		elapsed     int64
		rate        int64
		weight      uint64
		totalWeight uint64
		want        int64
	}{
		{"sole pool", 100, 10, 100, 100, 1000},
		{"quarter weight", 100, 10, 100, 400, 250},
		{"truncates", 1, 10, 1, 3, 3},
		{"zero weight", 100, 10, 0, 100, 0},
		{"no pools", 100, 10, 0, 0, 0},
		{"no time", 0, 10, 1, 1, 0},
		{"clock went back", -5, 10, 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PoolEmission(tt.elapsed, math.NewInt(tt.rate), tt.weight, tt.totalWeight)
			if !got.Equal(math.NewInt(tt.want)) {
				t.Errorf("PoolEmission() = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestSplitEmissionSumsToGross(t *testing.T) {
	tests := []struct {
		gross                   int64
		dev, treasury, investor uint32
		wantPool                int64
	}{
		{1000, 1000, 500, 500, 800},
		{1000, 0, 0, 0, 1000},
		{999, 1000, 1000, 1000, 702},
		{7, 1000, 500, 500, 7},
	}

	for _, tt := range tests {
		s := SplitEmission(math.NewInt(tt.gross), tt.dev, tt.treasury, tt.investor)
		if !s.Pool.Equal(math.NewInt(tt.wantPool)) {
			t.Errorf("gross %d: pool = %s, want %d", tt.gross, s.Pool, tt.wantPool)
		}
		sum := s.Dev.Add(s.Treasury).Add(s.Investor).Add(s.Pool)
		if !sum.Equal(s.Gross) {
			t.Errorf("gross %d: parts sum to %s", tt.gross, sum)
		}
	}
}

func TestAccIncrementAndPending(t *testing.T) {
	pool := NewPool(0, "ustake", 100, 0, "", 0)
	pool.AccRewardPerShare = AccIncrement(math.NewInt(800), math.NewInt(1000))
	if want := math.NewInt(800_000_000_000); !pool.AccRewardPerShare.Equal(want) {
		t.Fatalf("acc = %s, want %s", pool.AccRewardPerShare, want)
	}

	pos := NewUserPosition(0, "alice")
	if got := pos.Pending(pool); !got.IsZero() {
		t.Errorf("empty position pending = %s", got)
	}

	pos.StakedAmount = math.NewInt(1000)
	if got := pos.Pending(pool); !got.Equal(math.NewInt(800)) {
		t.Errorf("pending = %s, want 800", got)
	}

	pos.Rebase(pool)
	if got := pos.Pending(pool); !got.IsZero() {
		t.Errorf("pending after rebase = %s", got)
	}

	if got := AccIncrement(math.NewInt(5), math.ZeroInt()); !got.IsZero() {
		t.Errorf("increment with no supply = %s", got)
	}
}

func TestDepositFee(t *testing.T) {
	tests := []struct {
		amount int64
		bps    uint32
		want   int64
	}{
		{1000, 500, 50},
		{1000, 0, 0},
		{1000, 1000, 100},
		{19, 500, 0},
		{21, 500, 1},
	}
	for _, tt := range tests {
		if got := DepositFee(math.NewInt(tt.amount), tt.bps); !got.Equal(math.NewInt(tt.want)) {
			t.Errorf("DepositFee(%d, %d) = %s, want %d", tt.amount, tt.bps, got, tt.want)
		}
	}
}

func TestValidateHarvestBatch(t *testing.T) {
	full := make([]uint64, MaxHarvestBatch)
	for i := range full {
		full[i] = uint64(i)
	}
	if err := ValidateHarvestBatch(full); err != nil {
		t.Errorf("full batch rejected: %v", err)
	}
	if err := ValidateHarvestBatch(append(full, 99)); !errors.Is(err, ErrTooManyPools) {
		t.Errorf("oversized batch: got %v", err)
	}
	if err := ValidateHarvestBatch([]uint64{3, 4, 3}); !errors.Is(err, ErrDuplicatePool) {
		t.Errorf("duplicate batch: got %v", err)
	}
}
