package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sessionscribe/internal/episode"
	"sessionscribe/internal/textutil"
)

func newEpisodeCommand(ctx *commandContext) *cobra.Command {
	episodeCmd := &cobra.Command{
		Use:   "episode",
		Short: "Inspect and edit registered episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	episodeCmd.AddCommand(newEpisodeListCommand(ctx))
	episodeCmd.AddCommand(newEpisodeShowCommand(ctx))
	episodeCmd.AddCommand(newEpisodeEditCommand(ctx))
	episodeCmd.AddCommand(newEpisodeRedoCommand(ctx))

	return episodeCmd
}

func newEpisodeListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List episodes in recording order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(false, func(env *campaignEnv) error {
				records, err := env.store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No episodes registered")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						strconv.Itoa(rec.EpisodeNumber),
						rec.Title,
						rec.RecordedDate,
						formatLength(rec.EpisodeLengthSeconds),
						nextStepLabel(rec.Status),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Title", "Recorded", "Length", "Next Step"},
					rows, 1, 4))
				return nil
			})
		},
	}
}

func newEpisodeShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <number>",
		Short: "Show one episode's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("episode number must be an integer, got %q", args[0])
			}
			return ctx.withCampaign(false, func(env *campaignEnv) error {
				rec, err := findEpisodeByNumber(cmd.Context(), env, number)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Episode #%d: %s\n", rec.EpisodeNumber, rec.Title)
				fmt.Fprintf(out, "  Season:          %d\n", rec.SeasonNumber)
				fmt.Fprintf(out, "  Base title:      %s\n", rec.BaseEpisodeTitle)
				fmt.Fprintf(out, "  Recorded:        %s\n", rec.RecordedDate)
				fmt.Fprintf(out, "  Length:          %s\n", formatLength(rec.EpisodeLengthSeconds))
				fmt.Fprintf(out, "  Source:          %s\n", rec.SourceFile)
				fmt.Fprintf(out, "  Normalized:      %s (%d kbps)\n", rec.NormalizedAudioFile, rec.NormalizedBitrate)
				fmt.Fprintf(out, "  Transcript:      %s\n", rec.TranscriptionFile)
				fmt.Fprintf(out, "  Summary:         %s\n", rec.SummaryFile)
				fmt.Fprintf(out, "  Chapters:        %s\n", rec.ChaptersFile)
				fmt.Fprintf(out, "  Subtitle:        %s\n", rec.SubtitleFile)
				if rec.TranscribedModel != "" {
					fmt.Fprintf(out, "  Transcribed by:  %s (%s)\n", rec.TranscribedModel, rec.TranscribedDate)
				}
				if rec.SummarizedModel != "" {
					fmt.Fprintf(out, "  Summarized by:   %s (%s)\n", rec.SummarizedModel, rec.SummarizedDate)
				}
				fmt.Fprintf(out, "  Next step:       %s\n", nextStepLabel(rec.Status))
				return nil
			})
		},
	}
}

func newEpisodeEditCommand(ctx *commandContext) *cobra.Command {
	var title string
	var baseTitle string
	var recordedDate string
	var season int

	editCmd := &cobra.Command{
		Use:   "edit <number>",
		Short: "Edit an episode's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("episode number must be an integer, got %q", args[0])
			}
			return ctx.withCampaign(true, func(env *campaignEnv) error {
				rec, err := findEpisodeByNumber(cmd.Context(), env, number)
				if err != nil {
					return err
				}
				changed := false
				if cmd.Flags().Changed("title") {
					rec.Title = title
					changed = true
				}
				if cmd.Flags().Changed("base-title") {
					rec.BaseEpisodeTitle = baseTitle
					changed = true
				}
				if cmd.Flags().Changed("date") {
					rec.RecordedDate = recordedDate
					changed = true
				}
				if cmd.Flags().Changed("season") {
					rec.SeasonNumber = season
					changed = true
				}
				if !changed {
					return fmt.Errorf("nothing to change; pass at least one of --title, --base-title, --date, --season")
				}
				if err := env.store.UpdateEpisode(cmd.Context(), rec); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Episode #%d updated\n", rec.EpisodeNumber)
				return nil
			})
		},
	}

	editCmd.Flags().StringVar(&title, "title", "", "Episode title")
	editCmd.Flags().StringVar(&baseTitle, "base-title", "", "Base episode title")
	editCmd.Flags().StringVar(&recordedDate, "date", "", "Recorded date (YYYY-MM-DD)")
	editCmd.Flags().IntVar(&season, "season", 0, "Season number")

	return editCmd
}

func newEpisodeRedoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "redo <number> <stage>",
		Short: "Re-run a completed stage, regenerating its artifact",
		Long: "Re-executes one stage for an episode even though it already completed.\n" +
			"Use `redo <n> text_process` after a dictionary update to re-apply\n" +
			"corrections to the raw transcript, or `redo <n> summarize` to regenerate\n" +
			"a summary. Stages: normalize, transcribe, text_process, summarize,\n" +
			"chapters, subtitle.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("episode number must be an integer, got %q", args[0])
			}
			stage := episode.Stage(args[1])
			return ctx.withCampaign(true, func(env *campaignEnv) error {
				rec, err := findEpisodeByNumber(cmd.Context(), env, number)
				if err != nil {
					return err
				}
				if err := env.pipe.RedoStage(cmd.Context(), rec.ID, stage); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Episode #%d: %s redone\n", rec.EpisodeNumber, stage)
				return nil
			})
		},
	}
}

func formatLength(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	return textutil.FormatClock(float64(seconds))
}
