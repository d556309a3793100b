package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/farmchain/x/farm/rewarder"
	"github.com/openalpha/farmchain/x/farm/types"
)

const (
	flagDepositFeeBps     = "deposit-fee-bps"
	flagRewarder          = "rewarder"
	flagOverwriteRewarder = "overwrite-rewarder"
	flagWithUpdate        = "with-update"
)

// GetTxCmd returns the transaction commands for the farm module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Farm module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdDeposit(),
		CmdWithdraw(),
		CmdEmergencyWithdraw(),
		CmdHarvest(),
		CmdUpdatePool(),
		CmdMassUpdatePools(),
		CmdAddPool(),
		CmdSetPool(),
		CmdUpdateEmissionRate(),
		CmdUpdateSplits(),
		CmdSetRecipient(),
		CmdSetPaused(),
		CmdRecoverTokens(),
		CmdRewarderSetPool(),
		CmdRewarderSetRate(),
		CmdRewarderFund(),
	)

	return cmd
}

func parsePoolID(s string) (uint64, error) {
	pid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pool id %q: %w", s, err)
	}
	return pid, nil
}

// CmdDeposit returns the command to stake into a pool
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [pool-id] [amount]",
		Short: "Stake into a pool; an amount of 0 only harvests",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}

			msg := &types.MsgDeposit{
				Depositor: clientCtx.GetFromAddress().String(),
				PoolID:    pid,
				Amount:    args[1],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns the command to unstake from a pool
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [pool-id] [amount]",
		Short: "Unstake from a pool and collect the pending reward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}

			msg := &types.MsgWithdraw{
				Withdrawer: clientCtx.GetFromAddress().String(),
				PoolID:     pid,
				Amount:     args[1],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdEmergencyWithdraw returns the command to exit a pool without rewards
func CmdEmergencyWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency-withdraw [pool-id]",
		Short: "Withdraw the whole stake, forfeiting pending rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}

			msg := &types.MsgEmergencyWithdraw{
				Withdrawer: clientCtx.GetFromAddress().String(),
				PoolID:     pid,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdHarvest returns the command to harvest several pools at once
func CmdHarvest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest [pool-id]...",
		Short: fmt.Sprintf("Harvest up to %d pools in one transaction", types.MaxHarvestBatch),
		Args:  cobra.RangeArgs(1, types.MaxHarvestBatch),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			pids := make([]uint64, 0, len(args))
			for _, arg := range args {
				pid, err := parsePoolID(arg)
				if err != nil {
					return err
				}
				pids = append(pids, pid)
			}

			msg := &types.MsgHarvestMany{
				Harvester: clientCtx.GetFromAddress().String(),
				PoolIDs:   pids,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdatePool returns the command to settle one pool
func CmdUpdatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-pool [pool-id]",
		Short: "Settle a pool's accumulator to the current block time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}

			msg := &types.MsgUpdatePool{Sender: clientCtx.GetFromAddress().String(), PoolID: pid}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdMassUpdatePools returns the command to settle every pool
func CmdMassUpdatePools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mass-update-pools",
		Short: "Settle every pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgMassUpdatePools{Sender: clientCtx.GetFromAddress().String()}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdAddPool returns the command to register a pool
func CmdAddPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-pool [stake-denom] [weight]",
		Short: "Register a new staking pool (authority only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			weight, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid weight: %w", err)
			}
			feeBps, _ := cmd.Flags().GetUint32(flagDepositFeeBps)
			rewarderName, _ := cmd.Flags().GetString(flagRewarder)
			withUpdate, _ := cmd.Flags().GetBool(flagWithUpdate)

			msg := &types.MsgAddPool{
				Authority:     clientCtx.GetFromAddress().String(),
				StakeDenom:    args[0],
				Weight:        weight,
				DepositFeeBps: feeBps,
				Rewarder:      rewarderName,
				WithUpdate:    withUpdate,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().Uint32(flagDepositFeeBps, 0, "deposit fee in basis points")
	cmd.Flags().String(flagRewarder, "", "name of the rewarder attached to the pool")
	cmd.Flags().Bool(flagWithUpdate, true, "settle every pool first")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetPool returns the command to reconfigure a pool
func CmdSetPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-pool [pool-id] [weight]",
		Short: "Change a pool's weight, deposit fee or rewarder (authority only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			weight, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid weight: %w", err)
			}
			feeBps, _ := cmd.Flags().GetUint32(flagDepositFeeBps)
			rewarderName, _ := cmd.Flags().GetString(flagRewarder)
			overwrite, _ := cmd.Flags().GetBool(flagOverwriteRewarder)
			withUpdate, _ := cmd.Flags().GetBool(flagWithUpdate)

			msg := &types.MsgSetPool{
				Authority:         clientCtx.GetFromAddress().String(),
				PoolID:            pid,
				Weight:            weight,
				DepositFeeBps:     feeBps,
				Rewarder:          rewarderName,
				OverwriteRewarder: overwrite,
				WithUpdate:        withUpdate,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().Uint32(flagDepositFeeBps, 0, "deposit fee in basis points")
	cmd.Flags().String(flagRewarder, "", "name of the rewarder attached to the pool")
	cmd.Flags().Bool(flagOverwriteRewarder, false, "replace the pool's rewarder")
	cmd.Flags().Bool(flagWithUpdate, true, "settle every pool first")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateEmissionRate returns the command to change the emission rate
func CmdUpdateEmissionRate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-emission-rate [reward-per-second]",
		Short: "Set the emission rate, bounded by the ceiling (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgUpdateEmissionRate{
				Authority:       clientCtx.GetFromAddress().String(),
				RewardPerSecond: args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateSplits returns the command to change the emission splits
func CmdUpdateSplits() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-splits [dev-bps] [treasury-bps] [investor-bps]",
		Short: "Set the dev, treasury and investor emission splits (authority only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			bps := make([]uint32, 3)
			for i, arg := range args {
				v, err := strconv.ParseUint(arg, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid basis points %q: %w", arg, err)
				}
				bps[i] = uint32(v)
			}

			msg := &types.MsgUpdateSplits{
				Authority:   clientCtx.GetFromAddress().String(),
				DevBps:      bps[0],
				TreasuryBps: bps[1],
				InvestorBps: bps[2],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetRecipient returns the command to rotate a recipient role
func CmdSetRecipient() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-recipient [dev|treasury|investor|fee] [new-address]",
		Short: "Hand a recipient role to a new address (current holder only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgSetRecipient{
				Holder:     clientCtx.GetFromAddress().String(),
				Role:       args[0],
				NewAddress: args[1],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetPaused returns the command to pause or resume deposits
func CmdSetPaused() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-paused [true|false]",
		Short: "Pause or resume deposits (authority only)",
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

			msg := &types.MsgSetPaused{Authority: clientCtx.GetFromAddress().String(), Paused: paused}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRecoverTokens returns the command to recover stray tokens
func CmdRecoverTokens() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover-tokens [denom] [amount] [recipient]",
		Short: "Send tokens sent to the farm by mistake to recipient (authority only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgRecoverTokens{
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

// CmdRewarderSetPool returns the command to weight a pool in the rewarder
func CmdRewarderSetPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewarder-set-pool [pool-id] [weight]",
		Short: "Set a pool's weight in the secondary rewarder (authority only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			weight, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid weight: %w", err)
			}

			msg := &rewarder.MsgSetRewarderPool{
				Authority: clientCtx.GetFromAddress().String(),
				PoolID:    pid,
				Weight:    weight,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRewarderSetRate returns the command to set the rewarder emission rate
func CmdRewarderSetRate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewarder-set-rate [reward-per-second]",
		Short: "Set the secondary rewarder emission rate (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &rewarder.MsgSetRewardRate{
				Authority:       clientCtx.GetFromAddress().String(),
				RewardPerSecond: args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRewarderFund returns the command to fund the secondary rewarder
func CmdRewarderFund() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewarder-fund [amount]",
		Short: "Move secondary reward tokens into the rewarder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &rewarder.MsgFundRewarder{
				Funder: clientCtx.GetFromAddress().String(),
				Amount: args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
