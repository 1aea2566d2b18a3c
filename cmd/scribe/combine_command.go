package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCombineCommand(ctx *commandContext) *cobra.Command {
	combineCmd := &cobra.Command{
		Use:   "combine",
		Short: "Build campaign-wide transcript and summary documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	combineCmd.AddCommand(&cobra.Command{
		Use:   "transcripts",
		Short: "Concatenate every corrected transcript into one document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(false, func(env *campaignEnv) error {
				path, count, err := env.pipe.CombineTranscripts(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Combined %d transcript(s) into %s\n", count, path)
				return nil
			})
		},
	})

	combineCmd.AddCommand(&cobra.Command{
		Use:   "summaries",
		Short: "Collate every episode summary into one document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(false, func(env *campaignEnv) error {
				path, count, err := env.pipe.CollateSummaries(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Collated %d summar%s into %s\n",
					count, plural(count, "y", "ies"), path)
				return nil
			})
		},
	})

	return combineCmd
}

func plural(count int, singular, multiple string) string {
	if count == 1 {
		return singular
	}
	return multiple
}
