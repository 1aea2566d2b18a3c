package pipeline

import (
	"context"
	"log/slog"

	"sessionscribe/internal/episode"
	"sessionscribe/internal/logging"
)

// StageFailure records one stage that failed during a batch run.
type StageFailure struct {
	EpisodeID     int64
	EpisodeNumber int
	Title         string
	Stage         episode.Stage
	Err           error
}

// Report summarizes a batch run. A failed episode is skipped for the rest
// of the run; the remaining episodes still proceed.
type Report struct {
	EpisodesTouched int
	StagesCompleted int
	Failures        []StageFailure
}

// Failed reports whether anything in the batch went wrong.
func (r *Report) Failed() bool { return len(r.Failures) > 0 }

// RunChain advances every episode with pending work, in catalog order.
// fromNumber skips episodes numbered below it; pass 0 to run everything.
func (p *Pipeline) RunChain(ctx context.Context, fromNumber int) (*Report, error) {
	log := p.runLogger("chain")
	records, err := p.store.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, rec := range records {
		if rec.EpisodeNumber < fromNumber {
			continue
		}
		if _, pending := rec.Status.NextStage(); !pending {
			continue
		}
		report.EpisodesTouched++
		if err := p.advanceUntil(ctx, log, rec, nil, report); err != nil {
			return report, err
		}
	}
	log.Info("chain finished",
		logging.Int("episodes", report.EpisodesTouched),
		logging.Int("stages", report.StagesCompleted),
		logging.Int("failures", len(report.Failures)))
	return report, nil
}

// advanceUntil runs pending stages for one episode, recording failures in
// the report instead of aborting the batch. When allowed is non-nil, only
// stages in the set run. Context cancellation still aborts.
func (p *Pipeline) advanceUntil(ctx context.Context, log *slog.Logger, rec *episode.Record, allowed map[episode.Stage]bool, report *Report) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		current, err := p.store.GetByID(ctx, rec.ID)
		if err != nil {
			return err
		}
		stage, pending := current.Status.NextStage()
		if !pending {
			return nil
		}
		if allowed != nil && !allowed[stage] {
			return nil
		}
		if _, _, err := p.runStep(ctx, log, rec.ID); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			report.Failures = append(report.Failures, StageFailure{
				EpisodeID:     rec.ID,
				EpisodeNumber: rec.EpisodeNumber,
				Title:         rec.Title,
				Stage:         stage,
				Err:           err,
			})
			return nil
		}
		report.StagesCompleted++
	}
}
