package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sessionscribe/internal/campaign"
	"sessionscribe/internal/episode"
	"sessionscribe/internal/fileutil"
	"sessionscribe/internal/logging"
	"sessionscribe/internal/services"
)

// Ingest registers a recording and produces its normalized artifact. A
// source that is already cataloged is returned as-is so repeated ingests
// are safe. A file that is itself a normalized artifact is cataloged
// without re-transcoding.
func (p *Pipeline) Ingest(ctx context.Context, path string) (*episode.Record, error) {
	return p.ingest(ctx, p.runLogger("ingest"), path)
}

func (p *Pipeline) ingest(ctx context.Context, log *slog.Logger, path string) (*episode.Record, error) {
	canonical, err := episode.CanonicalSourcePath(path)
	if err != nil {
		return nil, err
	}
	if !fileutil.PathExists(canonical) {
		return nil, services.Wrap(services.ErrNotFound, "ingest", "", canonical, nil)
	}
	rel := p.camp.Rel(canonical)

	if existing, err := p.store.GetBySourcePath(ctx, rel); err != nil {
		return nil, err
	} else if existing != nil {
		log.Info("recording already cataloged",
			logging.Int64("episode_id", existing.ID),
			logging.String("source", rel))
		return existing, nil
	}
	if campaign.IsNormalizedAudio(canonical) {
		if existing, err := p.store.GetByNormalizedPath(ctx, rel); err != nil {
			return nil, err
		} else if existing != nil {
			log.Info("normalized artifact already cataloged",
				logging.Int64("episode_id", existing.ID),
				logging.String("source", rel))
			return existing, nil
		}
	}

	title, recordedDate, err := sessionIdentity(canonical)
	if err != nil {
		return nil, err
	}

	if campaign.IsNormalizedAudio(canonical) {
		return p.ingestNormalized(ctx, log, canonical, rel, title, recordedDate)
	}

	// The track tag needs a number before registration; the registration
	// transaction assigns it authoritatively.
	track, err := p.store.NextEpisodeNumber(ctx)
	if err != nil {
		return nil, err
	}
	res, err := p.normalizeFile(ctx, canonical, title, recordedDate, track)
	if err != nil {
		return nil, err
	}

	rec, created, err := p.store.Register(ctx, episode.RegisterParams{
		Title:            title,
		BaseEpisodeTitle: campaign.BaseTitle(title),
		RecordedDate:     recordedDate,
		SourceFile:       rel,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return rec, nil
	}
	if err := p.store.Advance(ctx, rec.ID, episode.StageResult{
		Stage:           episode.StageNormalize,
		ArtifactPath:    p.camp.Rel(res.OutputPath),
		Bitrate:         res.BitrateKbps,
		DurationSeconds: res.DurationSeconds,
	}); err != nil {
		return nil, err
	}
	log.Info("recording ingested",
		logging.Int64("episode_id", rec.ID),
		logging.Int("episode_number", rec.EpisodeNumber),
		logging.String("title", title))
	return p.store.GetByID(ctx, rec.ID)
}

func (p *Pipeline) ingestNormalized(ctx context.Context, log *slog.Logger, canonical, rel, title, recordedDate string) (*episode.Record, error) {
	rec, created, err := p.store.Register(ctx, episode.RegisterParams{
		Title:            title,
		BaseEpisodeTitle: campaign.BaseTitle(title),
		RecordedDate:     recordedDate,
		SourceFile:       rel,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return rec, nil
	}
	duration := 0
	if probed, err := p.transcoder.Duration(ctx, canonical); err == nil {
		duration = int(probed + 0.5)
	}
	if err := p.store.Advance(ctx, rec.ID, episode.StageResult{
		Stage:           episode.StageNormalize,
		ArtifactPath:    rel,
		DurationSeconds: duration,
	}); err != nil {
		return nil, err
	}
	log.Info("normalized artifact ingested",
		logging.Int64("episode_id", rec.ID),
		logging.String("title", title))
	return p.store.GetByID(ctx, rec.ID)
}

// ProcessFile runs the full chain for one recording: ingest, then every
// remaining stage in order.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*episode.Record, error) {
	log := p.runLogger("process")
	rec, err := p.ingest(ctx, log, path)
	if err != nil {
		return nil, err
	}
	if err := p.runAll(ctx, log, rec.ID); err != nil {
		return nil, err
	}
	return p.store.GetByID(ctx, rec.ID)
}

// RunStep executes the next pending stage for an episode. more is false
// when the episode has nothing left to run.
func (p *Pipeline) RunStep(ctx context.Context, episodeID int64) (episode.Stage, bool, error) {
	return p.runStep(ctx, p.runLogger("step"), episodeID)
}

func (p *Pipeline) runStep(ctx context.Context, log *slog.Logger, episodeID int64) (episode.Stage, bool, error) {
	rec, err := p.store.GetByID(ctx, episodeID)
	if err != nil {
		return "", false, err
	}
	if rec == nil {
		return "", false, services.Wrap(services.ErrNotFound, "", "",
			fmt.Sprintf("episode %d", episodeID), nil)
	}
	stage, ok := rec.Status.NextStage()
	if !ok {
		return "", false, nil
	}

	started := time.Now()
	result, err := p.executeStage(ctx, rec, stage)
	if err != nil {
		log.Error("stage failed",
			logging.Int64("episode_id", rec.ID),
			logging.String("stage", string(stage)),
			logging.Error(err))
		return stage, true, err
	}
	if err := p.store.Advance(ctx, rec.ID, result); err != nil {
		return stage, true, err
	}
	log.Info("stage complete",
		logging.Int64("episode_id", rec.ID),
		logging.String("stage", string(stage)),
		logging.Duration("elapsed", time.Since(started)))
	return stage, true, nil
}

// RedoStage re-executes a single stage regardless of its completion flag,
// refreshing the artifact and bookkeeping through the normal advancement
// path. Redoing text_process re-applies the current dictionaries to the raw
// transcript; redoing transcribe or a generation stage regenerates that
// artifact in place. The stage's prerequisite must still be satisfied.
func (p *Pipeline) RedoStage(ctx context.Context, episodeID int64, stage episode.Stage) error {
	log := p.runLogger("redo")
	if !stage.Valid() {
		return services.Wrap(services.ErrValidation, "", "",
			fmt.Sprintf("unknown stage %q", stage), nil)
	}
	rec, err := p.store.GetByID(ctx, episodeID)
	if err != nil {
		return err
	}
	if rec == nil {
		return services.Wrap(services.ErrNotFound, "", "",
			fmt.Sprintf("episode %d", episodeID), nil)
	}
	if !rec.Status.Ready(stage) {
		prereq, _ := episode.Prerequisite(stage)
		return services.Wrap(services.ErrValidation, string(stage), "",
			fmt.Sprintf("prerequisite %s has not completed", prereq), nil)
	}

	started := time.Now()
	result, err := p.executeStage(ctx, rec, stage)
	if err != nil {
		log.Error("stage redo failed",
			logging.Int64("episode_id", rec.ID),
			logging.String("stage", string(stage)),
			logging.Error(err))
		return err
	}
	if err := p.store.Advance(ctx, rec.ID, result); err != nil {
		return err
	}
	log.Info("stage redone",
		logging.Int64("episode_id", rec.ID),
		logging.String("stage", string(stage)),
		logging.Duration("elapsed", time.Since(started)))
	return nil
}

// RunAll executes every remaining stage for an episode in order.
func (p *Pipeline) RunAll(ctx context.Context, episodeID int64) error {
	return p.runAll(ctx, p.runLogger("run"), episodeID)
}

func (p *Pipeline) runAll(ctx context.Context, log *slog.Logger, episodeID int64) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, more, err := p.runStep(ctx, log, episodeID)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// sessionIdentity derives the episode title and recorded date from a
// recording filename, falling back to the file modification time when the
// name carries no date prefix.
func sessionIdentity(path string) (string, string, error) {
	title := campaign.TitleFromFileName(path)
	if title == "" {
		return "", "", services.Wrap(services.ErrValidation, "ingest", "",
			fmt.Sprintf("cannot derive a title from %q", path), nil)
	}
	if date, ok := campaign.SessionDateFromName(path); ok {
		return title, date.Format(recordedDateLayout), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("stat recording: %w", err)
	}
	return title, info.ModTime().Format(recordedDateLayout), nil
}
