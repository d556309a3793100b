package cli

import (
	"encoding/json"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/types/kv"

	"github.com/openalpha/farmchain/x/farm/rewarder"
	"github.com/openalpha/farmchain/x/farm/types"
)

// GetQueryCmd returns the cli query commands for the farm module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the farm module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryParams(),
		CmdQueryRecipients(),
		CmdQueryPool(),
		CmdQueryPools(),
		CmdQueryPosition(),
		CmdQueryRewarderParams(),
	)

	return cmd
}

// queryRecord reads one JSON record from a module store and prints it
func queryRecord(cmd *cobra.Command, storeName string, key []byte, out any) error {
	clientCtx, err := client.GetClientQueryContext(cmd)
	if err != nil {
		return err
	}

	bz, _, err := clientCtx.QueryStore(key, storeName)
	if err != nil {
		return err
	}
	if len(bz) == 0 {
		return fmt.Errorf("no record under key %X", key)
	}
	if err := json.Unmarshal(bz, out); err != nil {
		return err
	}
	return printJSON(clientCtx, out)
}

// querySubspace lists every record under prefix in a module store
func querySubspace[T any](clientCtx client.Context, storeName string, prefix []byte) ([]T, error) {
	res, err := clientCtx.QueryABCI(abci.RequestQuery{
		Path:   fmt.Sprintf("/store/%s/subspace", storeName),
		Data:   prefix,
		Height: clientCtx.Height,
	})
	if err != nil {
		return nil, err
	}
	return decodeRecords[T](res.Value)
}

// decodeRecords decodes the kv pairs of a subspace response into JSON records
func decodeRecords[T any](bz []byte) ([]T, error) {
	var pairs kv.Pairs
	if err := pairs.Unmarshal(bz); err != nil {
		return nil, err
	}

	records := make([]T, 0, len(pairs.Pairs))
	for _, pair := range pairs.Pairs {
		var record T
		if err := json.Unmarshal(pair.Value, &record); err != nil {
			return nil, fmt.Errorf("record %X: %w", pair.Key, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func printJSON(clientCtx client.Context, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return clientCtx.PrintString(string(output) + "\n")
}

// CmdQueryParams returns the command to query the farm params
func CmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the farm params",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params types.Params
			return queryRecord(cmd, types.StoreKey, types.ParamsKey, &params)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryRecipients returns the command to query the recipient roles
func CmdQueryRecipients() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipients",
		Short: "Query the dev, treasury, investor and fee recipients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var recipients types.Recipients
			return queryRecord(cmd, types.StoreKey, types.RecipientsKey, &recipients)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPool returns the command to query a pool
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a pool by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			var pool types.Pool
			return queryRecord(cmd, types.StoreKey, types.PoolKey(pid), &pool)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPools returns the command to list every pool
func CmdQueryPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List every pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			pools, err := querySubspace[types.Pool](clientCtx, types.StoreKey, types.PoolKeyPrefix)
			if err != nil {
				return err
			}
			return printJSON(clientCtx, map[string]any{"pools": pools, "total": len(pools)})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPosition returns the command to query a staker's position
func CmdQueryPosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position [pool-id] [address]",
		Short: "Query a staker's position in a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			var pos types.UserPosition
			return queryRecord(cmd, types.StoreKey, types.PositionKey(pid, args[1]), &pos)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryRewarderParams returns the command to query the secondary rewarder
func CmdQueryRewarderParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewarder-params",
		Short: "Query the secondary rewarder params",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params rewarder.Params
			return queryRecord(cmd, rewarder.StoreKey, rewarder.ParamsKey, &params)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
