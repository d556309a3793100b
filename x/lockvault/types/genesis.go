package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the lockvault genesis
type GenesisState struct {
	Params   Params         `json:"params"`
	Treasury string         `json:"treasury"`
	State    VaultState     `json:"state"`
	Users    []*UserInfo    `json:"users"`
	Actions  []*VaultAction `json:"actions"`
}

// DefaultGenesis returns an empty vault with default params
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
		State:  NewVaultState(),
	}
}

// Validate checks genesis consistency
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.Treasury != "" {
		if _, err := sdk.AccAddressFromBech32(gs.Treasury); err != nil {
			return ErrInvalidAddress.Wrapf("treasury: %s", err)
		}
	}
	if gs.State.TotalShares.IsNil() || gs.State.TotalShares.IsNegative() {
		return ErrInvalidAmount.Wrap("total shares must be non-negative")
	}

	sum := math.ZeroInt()
	seen := make(map[string]struct{}, len(gs.Users))
	for _, u := range gs.Users {
		if _, dup := seen[u.Owner]; dup {
			return ErrInvalidParams.Wrapf("duplicate user %s", u.Owner)
		}
		seen[u.Owner] = struct{}{}
		if u.Shares.IsNil() || u.Shares.IsNegative() {
			return ErrInvalidAmount.Wrapf("user %s has invalid shares", u.Owner)
		}
		sum = sum.Add(u.Shares)
	}
	if !sum.Equal(gs.State.TotalShares) {
		return ErrInvalidParams.Wrapf("user shares %s do not sum to total shares %s", sum, gs.State.TotalShares)
	}
	return nil
}
