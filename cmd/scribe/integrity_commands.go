package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sessionscribe/internal/episode"
)

func newIntegrityCommand(ctx *commandContext) *cobra.Command {
	integrityCmd := &cobra.Command{
		Use:   "integrity",
		Short: "Check and repair the episode database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	integrityCmd.AddCommand(newIntegrityCheckCommand(ctx))
	integrityCmd.AddCommand(newIntegrityRepairCommand(ctx))

	return integrityCmd
}

func newIntegrityCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report missing artifacts and inconsistent status flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(false, func(env *campaignEnv) error {
				problems, err := env.store.CheckIntegrity(cmd.Context(), env.camp.Abs)
				if err != nil {
					return err
				}
				if len(problems) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No problems found")
					return nil
				}
				printProblems(cmd, problems)
				return fmt.Errorf("%d problem(s) found", len(problems))
			})
		},
	}
}

func newIntegrityRepairCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	repairCmd := &cobra.Command{
		Use:   "repair",
		Short: "Clear references to artifacts that are gone from disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(true, func(env *campaignEnv) error {
				problems, err := env.store.CheckIntegrity(cmd.Context(), env.camp.Abs)
				if err != nil {
					return err
				}
				fixable := map[int64][]string{}
				var skipped []episode.Problem
				for _, problem := range problems {
					switch problem.Field {
					case "source_file", "processing_status":
						skipped = append(skipped, problem)
					default:
						fixable[problem.EpisodeID] = append(fixable[problem.EpisodeID], problem.Field)
					}
				}

				if len(problems) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No problems found")
					return nil
				}
				printProblems(cmd, problems)

				if len(fixable) == 0 {
					return fmt.Errorf("nothing repairable; %d problem(s) need manual attention", len(skipped))
				}
				if !assumeYes && !confirm(cmd.OutOrStdout(), fmt.Sprintf("Clear %d stale reference(s)?", countFields(fixable))) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}

				for id, fields := range fixable {
					if err := env.store.ClearPathFields(cmd.Context(), id, fields); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d stale reference(s)\n", countFields(fixable))
				if len(skipped) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%d problem(s) need manual attention\n", len(skipped))
				}
				return nil
			})
		},
	}

	repairCmd.Flags().BoolVar(&assumeYes, "yes", false, "Repair without prompting")

	return repairCmd
}

func printProblems(cmd *cobra.Command, problems []episode.Problem) {
	rows := make([][]string, 0, len(problems))
	for _, problem := range problems {
		rows = append(rows, []string{
			strconv.Itoa(problem.EpisodeNumber),
			problem.Title,
			problem.Field,
			problem.Path,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Title", "Field", "Path"}, rows, 1))
}

func countFields(fixable map[int64][]string) int {
	total := 0
	for _, fields := range fixable {
		total += len(fields)
	}
	return total
}
