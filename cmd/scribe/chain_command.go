package main

import (
	"github.com/spf13/cobra"
)

func newChainCommand(ctx *commandContext) *cobra.Command {
	var fromNumber int

	chainCmd := &cobra.Command{
		Use:   "chain",
		Short: "Advance every episode through all remaining stages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(true, func(env *campaignEnv) error {
				report, err := env.pipe.RunChain(cmd.Context(), fromNumber)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)
				return reportError(report)
			})
		},
	}

	chainCmd.Flags().IntVar(&fromNumber, "from", 0, "Skip episodes below this number")

	return chainCmd
}
