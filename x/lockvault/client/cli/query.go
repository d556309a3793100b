package cli

import (
	"encoding/json"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/types/kv"

	"github.com/openalpha/farmchain/x/lockvault/types"
)

// GetQueryCmd returns the cli query commands for the lockvault module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the lockvault module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryParams(),
		CmdQueryState(),
		CmdQueryUser(),
		CmdQueryActions(),
	)

	return cmd
}

func queryRecord(cmd *cobra.Command, key []byte, out any) error {
	clientCtx, err := client.GetClientQueryContext(cmd)
	if err != nil {
		return err
	}

	bz, _, err := clientCtx.QueryStore(key, types.StoreKey)
	if err != nil {
		return err
	}
	if len(bz) == 0 {
		return fmt.Errorf("no record under key %X", key)
	}
	if err := json.Unmarshal(bz, out); err != nil {
		return err
	}

	output, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return clientCtx.PrintString(string(output) + "\n")
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

// CmdQueryParams returns the command to query the vault params
func CmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the vault params",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params types.Params
			return queryRecord(cmd, types.ParamsKey, &params)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryState returns the command to query the vault share totals
func CmdQueryState() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Query the vault's total shares and last harvest time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var state types.VaultState
			return queryRecord(cmd, types.VaultStateKey, &state)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryUser returns the command to query a depositor
func CmdQueryUser() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user [address]",
		Short: "Query a depositor's shares and lock window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var user types.UserInfo
			return queryRecord(cmd, types.UserInfoKey(args[0]), &user)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryActions returns the command to list the retained vault history
func CmdQueryActions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the retained vault action history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			actions, err := querySubspace[types.VaultAction](clientCtx, types.StoreKey, types.ActionKeyPrefix)
			if err != nil {
				return err
			}

			output, err := json.MarshalIndent(actions, "", "  ")
			if err != nil {
				return err
			}
			return clientCtx.PrintString(string(output) + "\n")
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
