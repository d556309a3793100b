package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/farmchain/x/lockvault/types"
)

// GetTxCmd returns the transaction commands for the lockvault module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Lock vault transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdDeposit(),
		CmdWithdraw(),
		CmdWithdrawAll(),
		CmdHarvest(),
		CmdSetPaused(),
		CmdSetTreasury(),
		CmdRecoverTokens(),
	)

	return cmd
}

// CmdDeposit returns the command to deposit into the vault
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [amount]",
		Short: "Deposit into the vault; restarts the lock window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgVaultDeposit{
				Depositor: clientCtx.GetFromAddress().String(),
				Amount:    args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns the command to withdraw an amount of underlying
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [amount]",
		Short: "Withdraw an amount of underlying after the lock ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgVaultWithdraw{
				Withdrawer: clientCtx.GetFromAddress().String(),
				Amount:     args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdrawAll returns the command to redeem every share
func CmdWithdrawAll() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-all",
		Short: "Redeem every share after the lock ends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgVaultWithdrawAll{Withdrawer: clientCtx.GetFromAddress().String()}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdHarvest returns the command to compound the vault
func CmdHarvest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Compound the vault's farm rewards and collect the call fee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgVaultHarvest{Caller: clientCtx.GetFromAddress().String()}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetPaused returns the command to pause or resume vault deposits
func CmdSetPaused() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-paused [true|false]",
		Short: "Pause or resume vault deposits (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			paused, err := strconv.ParseBool(args[0])
			if err != nil {
				return err
			}

			msg := &types.MsgSetVaultPaused{Authority: clientCtx.GetFromAddress().String(), Paused: paused}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetTreasury returns the command to rotate the treasury
func CmdSetTreasury() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-treasury [new-address]",
		Short: "Hand the treasury role to a new address (current treasury only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgSetVaultTreasury{
				Holder:     clientCtx.GetFromAddress().String(),
				NewAddress: args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRecoverTokens returns the command to recover stray vault tokens
func CmdRecoverTokens() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover-tokens [denom] [amount] [recipient]",
		Short: "Send tokens sent to the vault by mistake to recipient (authority only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgVaultRecoverTokens{
				Authority: clientCtx.GetFromAddress().String(),
				Denom:     args[0],
				Amount:    args[1],
				Recipient: args[2],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
