package rewarder

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// nonReentrant runs fn on a branch of ctx with the in-progress flag set and
// commits the branch only when fn succeeds.
func (k *Keeper) nonReentrant(ctx sdk.Context, fn func(ctx sdk.Context) error) error {
	if k.GetStore(ctx).Has(ReentrancyGuardKey) {
		return ErrReentrantCall
	}

	cacheCtx, write := ctx.CacheContext()
	store := k.GetStore(cacheCtx)
	store.Set(ReentrancyGuardKey, []byte{1})

	if err := fn(cacheCtx); err != nil {
		return err
	}

	store.Delete(ReentrancyGuardKey)
	write()
	return nil
}
