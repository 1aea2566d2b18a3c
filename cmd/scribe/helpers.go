package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"sessionscribe/internal/episode"
	"sessionscribe/internal/pipeline"
	"sessionscribe/internal/services"
)

// confirm asks a yes/no question on an interactive terminal. Without a
// terminal the answer is no, so scripted runs never destroy anything.
func confirm(out io.Writer, prompt string) bool {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(out, "not a terminal; pass --yes to proceed")
		return false
	}
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func findEpisodeByNumber(ctx context.Context, env *campaignEnv, number int) (*episode.Record, error) {
	records, err := env.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.EpisodeNumber == number {
			return rec, nil
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "", "",
		fmt.Sprintf("episode %d", number), nil)
}

func nextStepLabel(status episode.ProcessingStatus) string {
	stage, ok := status.NextStage()
	if !ok {
		return "complete"
	}
	return string(stage)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func printReport(out io.Writer, report *pipeline.Report) {
	fmt.Fprintf(out, "Episodes touched: %d, stages completed: %d\n",
		report.EpisodesTouched, report.StagesCompleted)
	if !report.Failed() {
		return
	}
	rows := make([][]string, 0, len(report.Failures))
	for _, failure := range report.Failures {
		rows = append(rows, []string{
			fmt.Sprintf("%d", failure.EpisodeNumber),
			failure.Title,
			string(failure.Stage),
			failure.Err.Error(),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Title", "Stage", "Error"}, rows, 1))
}

func reportError(report *pipeline.Report) error {
	if report == nil || !report.Failed() {
		return nil
	}
	return fmt.Errorf("%d stage(s) failed", len(report.Failures))
}
