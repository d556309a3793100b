package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/farm/types"
)

// nonReentrant runs fn on a branch of ctx with the in-progress flag set.
// The branch is committed only when fn succeeds, so a failed call leaves
// no transfers, mints or events behind.
func (k *Keeper) nonReentrant(ctx sdk.Context, fn func(ctx sdk.Context) error) error {
	if k.GetStore(ctx).Has(types.ReentrancyGuardKey) {
		return types.ErrReentrantCall
	}

	cacheCtx, write := ctx.CacheContext()
	store := k.GetStore(cacheCtx)
	store.Set(types.ReentrancyGuardKey, []byte{1})

	if err := fn(cacheCtx); err != nil {
		return err
	}

	store.Delete(types.ReentrancyGuardKey)
	write()
	return nil
}
