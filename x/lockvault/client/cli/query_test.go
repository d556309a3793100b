package cli

import (
	"encoding/json"
	"testing"

	"github.com/cosmos/cosmos-sdk/types/kv"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/farmchain/x/lockvault/types"
)

func TestDecodeActionRecords(t *testing.T) {
	var pairs kv.Pairs
	for seq := uint64(0); seq < 3; seq++ {
		action := types.VaultAction{
			ID:   types.NewActionID(seq, 7, "alice", types.ActionDeposit),
			Seq:  seq,
			User: "alice",
			Kind: types.ActionDeposit,
		}
		bz, err := json.Marshal(action)
		require.NoError(t, err)
		pairs.Pairs = append(pairs.Pairs, kv.Pair{Key: types.ActionKey(seq), Value: bz})
	}
	bz, err := pairs.Marshal()
	require.NoError(t, err)

	actions, err := decodeRecords[types.VaultAction](bz)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	require.Equal(t, uint64(2), actions[2].Seq)
	require.Equal(t, types.ActionDeposit, actions[0].Kind)

	_, err = decodeRecords[types.VaultAction]([]byte{0xff, 0xff})
	require.Error(t, err)
}
