package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmchain/x/lockvault/types"
)

// nonReentrant runs fn on a branch of ctx that is committed only on success
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

// checkDirectCaller rejects module accounts and the vault itself. Only
// externally owned accounts may move shares.
func (k *Keeper) checkDirectCaller(ctx sdk.Context, caller sdk.AccAddress) error {
	if caller.Equals(k.ModuleAddress()) {
		return types.ErrContractCaller.Wrap("vault cannot call itself")
	}
	if acc := k.accountKeeper.GetAccount(ctx, caller); acc != nil {
		if _, ok := acc.(sdk.ModuleAccountI); ok {
			return types.ErrContractCaller.Wrapf("%s is a module account", caller)
		}
	}
	return nil
}
