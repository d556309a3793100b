package types

// GenesisState is the farm module genesis
type GenesisState struct {
	Params     Params          `json:"params"`
	Recipients Recipients      `json:"recipients"`
	Pools      []*Pool         `json:"pools"`
	Positions  []*UserPosition `json:"positions"`
}

// DefaultGenesis returns a genesis with default params and no pools. The
// recipients are left empty and must be filled in before launch.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
	}
}

// Validate checks genesis consistency
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.Recipients != (Recipients{}) {
		if err := gs.Recipients.Validate(); err != nil {
			return err
		}
	}

	var totalWeight uint64
	denoms := make(map[string]struct{}, len(gs.Pools))
	for i, pool := range gs.Pools {
		if pool.ID != uint64(i) {
			return ErrInvalidParams.Wrapf("pool %d out of order at index %d", pool.ID, i)
		}
		var ok bool
		if totalWeight, ok = ReweighTotal(totalWeight, 0, pool.Weight); !ok {
			return ErrInvalidParams.Wrapf("total weight overflows at pool %d", pool.ID)
		}
		if _, ok := denoms[pool.StakeDenom]; ok {
			return ErrDuplicateDenom.Wrap(pool.StakeDenom)
		}
		denoms[pool.StakeDenom] = struct{}{}
		if pool.DepositFeeBps > DepositFeeMaxBps {
			return ErrInvalidFee.Wrapf("pool %d", pool.ID)
		}
		if pool.AccRewardPerShare.IsNil() || pool.AccRewardPerShare.IsNegative() {
			return ErrInvalidParams.Wrapf("pool %d has invalid accumulator", pool.ID)
		}
	}

	for _, pos := range gs.Positions {
		if pos.PoolID >= uint64(len(gs.Pools)) {
			return ErrPoolNotFound.Wrapf("position of %s in pool %d", pos.Owner, pos.PoolID)
		}
		if pos.StakedAmount.IsNil() || pos.StakedAmount.IsNegative() {
			return ErrInvalidAmount.Wrapf("position of %s has invalid stake", pos.Owner)
		}
	}
	return nil
}
