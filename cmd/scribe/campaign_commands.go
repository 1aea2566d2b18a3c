package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"sessionscribe/internal/campaign"
)

func newCampaignCommand(ctx *commandContext) *cobra.Command {
	campaignCmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage campaigns under the working directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	campaignCmd.AddCommand(newCampaignNewCommand(ctx))
	campaignCmd.AddCommand(newCampaignListCommand(ctx))

	return campaignCmd
}

func newCampaignNewCommand(ctx *commandContext) *cobra.Command {
	var abbrev string

	newCmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a campaign directory with its database and dictionaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			camp, err := campaign.Create(cfg.General.WorkingDirectory, args[0], abbrev)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Campaign %q created at %s\n", camp.Name(), camp.Root())
			return nil
		},
	}

	newCmd.Flags().StringVar(&abbrev, "abbrev", "", "Short prefix used in generated file names")

	return newCmd
}

func newCampaignListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List campaigns under the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			names, err := campaign.Discover(cfg.General.WorkingDirectory)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No campaigns under %s\n", cfg.General.WorkingDirectory)
				return nil
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, filepath.Join(cfg.General.WorkingDirectory, name)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Path"}, rows))
			return nil
		},
	}
}
