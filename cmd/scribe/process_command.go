package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process <audio-file>",
		Short: "Run one recording through the full pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(true, func(env *campaignEnv) error {
				rec, err := env.pipe.ProcessFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Episode #%d %q processed; next step: %s\n",
					rec.EpisodeNumber, rec.Title, nextStepLabel(rec.Status))
				return nil
			})
		},
	}
}
