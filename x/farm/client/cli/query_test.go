package cli

import (
	"encoding/json"
	"testing"

	"github.com/cosmos/cosmos-sdk/types/kv"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/farmchain/x/farm/types"
)

func TestDecodePoolRecords(t *testing.T) {
	var pairs kv.Pairs
	for _, pool := range []*types.Pool{
		types.NewPool(0, "ustake", 100, 0, "", 0),
		types.NewPool(1, "ulpx", 40, 250, "", 0),
	} {
		bz, err := json.Marshal(pool)
		require.NoError(t, err)
		pairs.Pairs = append(pairs.Pairs, kv.Pair{Key: types.PoolKey(pool.ID), Value: bz})
	}
	bz, err := pairs.Marshal()
	require.NoError(t, err)

	pools, err := decodeRecords[types.Pool](bz)
	require.NoError(t, err)
	require.Len(t, pools, 2)
	require.Equal(t, "ulpx", pools[1].StakeDenom)
	require.Equal(t, uint32(250), pools[1].DepositFeeBps)

	empty, err := decodeRecords[types.Pool](nil)
	require.NoError(t, err)
	require.Empty(t, empty)

	bad := kv.Pairs{Pairs: []kv.Pair{{Key: []byte{0x01}, Value: []byte("{")}}}
	bz, err = bad.Marshal()
	require.NoError(t, err)
	_, err = decodeRecords[types.Pool](bz)
	require.Error(t, err)
}

func TestQueryCommands(t *testing.T) {
	cmd := GetQueryCmd()
	for _, use := range []string{"params", "recipients", "pool", "pools", "position", "rewarder-params"} {
		found, _, err := cmd.Find([]string{use})
		require.NoError(t, err, use)
		require.Equal(t, use, found.Name())
	}
}
