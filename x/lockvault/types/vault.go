package types

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/google/uuid"
)

// VaultState holds the outstanding shares
type VaultState struct {
	TotalShares     math.Int `json:"total_shares"`
	LastHarvestTime int64    `json:"last_harvest_time"`
}

// NewVaultState returns an empty vault
func NewVaultState() VaultState {
	return VaultState{TotalShares: math.ZeroInt()}
}

// UserInfo is a depositor's share balance and lock window
type UserInfo struct {
	Owner             string   `json:"owner"`
	Shares            math.Int `json:"shares"`
	DepositTime       int64    `json:"deposit_time"`
	LockEndTime       int64    `json:"lock_end_time"`
	LastActionTime    int64    `json:"last_action_time"`
	ValueAtLastAction math.Int `json:"value_at_last_action"`
}

// NewUserInfo returns an empty depositor record
func NewUserInfo(owner string) *UserInfo {
	return &UserInfo{
		Owner:             owner,
		Shares:            math.ZeroInt(),
		ValueAtLastAction: math.ZeroInt(),
	}
}

// IsLocked reports whether the shares are still locked at now. The lock
// lifts strictly after LockEndTime.
func (u *UserInfo) IsLocked(now int64) bool {
	return now <= u.LockEndTime
}

// Relock starts a fresh lock window at now
func (u *UserInfo) Relock(now, duration int64) {
	u.DepositTime = now
	u.LockEndTime = now + duration
}

// SharesForDeposit returns the shares minted for amount when the vault
// holds underlying for totalShares. The first deposit mints 1:1.
func SharesForDeposit(amount, underlying, totalShares math.Int) math.Int {
	if totalShares.IsZero() || underlying.IsZero() {
		return amount
	}
	return amount.Mul(totalShares).Quo(underlying)
}

// SharesForAmount returns the shares needed to withdraw amount of underlying
func SharesForAmount(amount, underlying, totalShares math.Int) math.Int {
	if underlying.IsZero() {
		return math.ZeroInt()
	}
	return amount.Mul(totalShares).Quo(underlying)
}

// ValueOfShares returns the underlying owed for shares
func ValueOfShares(shares, underlying, totalShares math.Int) math.Int {
	if totalShares.IsZero() {
		return math.ZeroInt()
	}
	return underlying.Mul(shares).Quo(totalShares)
}

// PricePerShare returns underlying per share scaled by 1e18, or exactly
// 1e18 when no shares exist.
func PricePerShare(underlying, totalShares math.Int) math.Int {
	if totalShares.IsZero() {
		return PricePerShareScale
	}
	return underlying.Mul(PricePerShareScale).Quo(totalShares)
}

// BpsOf returns amount * bps / 10000
func BpsOf(amount math.Int, bps uint32) math.Int {
	return amount.Mul(math.NewIntFromUint64(uint64(bps))).Quo(math.NewIntFromUint64(uint64(BpsDenominator)))
}

// Action kinds
const (
	ActionDeposit  = "deposit"
	ActionWithdraw = "withdraw"
	ActionHarvest  = "harvest"
	ActionSweep    = "sweep"
)

// actionNamespace scopes vault action ids
var actionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("farmchain/lockvault/actions"))

// VaultAction is one entry of the vault's recent history
type VaultAction struct {
	ID            string   `json:"id"`
	Seq           uint64   `json:"seq"`
	Height        int64    `json:"height"`
	Time          int64    `json:"time"`
	User          string   `json:"user"`
	Kind          string   `json:"kind"`
	Amount        math.Int `json:"amount"`
	Shares        math.Int `json:"shares"`
	PricePerShare math.Int `json:"price_per_share"`
}

// NewActionID derives a deterministic id so every node assigns the same one
func NewActionID(seq uint64, height int64, user, kind string) string {
	return uuid.NewSHA1(actionNamespace, []byte(fmt.Sprintf("%d/%d/%s/%s", seq, height, user, kind))).String()
}
