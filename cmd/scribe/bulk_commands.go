package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sessionscribe/internal/pipeline"
)

type bulkRunner func(ctx context.Context) (*pipeline.Report, error)

func newBulkCommand(ctx *commandContext) *cobra.Command {
	bulkCmd := &cobra.Command{
		Use:   "bulk",
		Short: "Batch operations over the campaign's recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	bulkCmd.AddCommand(&cobra.Command{
		Use:   "discover",
		Short: "List recent recordings not yet registered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(false, func(env *campaignEnv) error {
				paths, err := env.pipe.DiscoverNewRecordings(cmd.Context())
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No new recordings found")
					return nil
				}
				for _, path := range paths {
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
				return nil
			})
		},
	})

	bulkCmd.AddCommand(newBulkStageCommand(ctx, "normalize",
		"Register and normalize all recent recordings",
		func(env *campaignEnv) bulkRunner { return env.pipe.NormalizeAll }))
	bulkCmd.AddCommand(newBulkStageCommand(ctx, "transcribe",
		"Transcribe and correct every normalized episode",
		func(env *campaignEnv) bulkRunner { return env.pipe.TranscribeAll }))
	bulkCmd.AddCommand(newBulkStageCommand(ctx, "summarize",
		"Generate summaries, chapters, and subtitles for corrected episodes",
		func(env *campaignEnv) bulkRunner { return env.pipe.SummarizeAll }))

	return bulkCmd
}

func newBulkStageCommand(ctx *commandContext, name, short string, runner func(*campaignEnv) bulkRunner) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(true, func(env *campaignEnv) error {
				report, err := runner(env)(cmd.Context())
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)
				return reportError(report)
			})
		},
	}
}
