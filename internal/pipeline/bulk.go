package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sessionscribe/internal/campaign"
	"sessionscribe/internal/episode"
	"sessionscribe/internal/logging"
)

// DiscoverNewRecordings lists raw recordings in the campaign audio folder
// that are not yet cataloged. Normalized artifacts are skipped, as are
// files older than the configured recent-file window (0 disables the
// window).
func (p *Pipeline) DiscoverNewRecordings(ctx context.Context) ([]string, error) {
	audioDir, ok := p.camp.AudioDir()
	if !ok {
		return nil, nil
	}
	entries, err := os.ReadDir(audioDir)
	if err != nil {
		return nil, fmt.Errorf("read audio folder: %w", err)
	}

	supported := make(map[string]bool, len(p.cfg.General.SupportedAudioExtensions))
	for _, ext := range p.cfg.General.SupportedAudioExtensions {
		supported[strings.ToLower(ext)] = true
	}
	var cutoff time.Time
	if days := p.cfg.General.RecentFileDays; days > 0 {
		cutoff = time.Now().AddDate(0, 0, -days)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !supported[strings.ToLower(filepath.Ext(name))] || campaign.IsNormalizedAudio(name) {
			continue
		}
		path := filepath.Join(audioDir, name)
		if !cutoff.IsZero() {
			info, err := entry.Info()
			if err != nil || info.ModTime().Before(cutoff) {
				continue
			}
		}
		existing, err := p.store.GetBySourcePath(ctx, p.camp.Rel(path))
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// NormalizeAll ingests every new recording found in the audio folder.
func (p *Pipeline) NormalizeAll(ctx context.Context) (*Report, error) {
	log := p.runLogger("normalize_all")
	paths, err := p.DiscoverNewRecordings(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rec, err := p.ingest(ctx, log, path)
		if err != nil {
			report.Failures = append(report.Failures, StageFailure{
				Title: campaign.TitleFromFileName(path),
				Stage: episode.StageNormalize,
				Err:   err,
			})
			continue
		}
		report.EpisodesTouched++
		report.StagesCompleted++
		log.Info("normalized",
			logging.Int64("episode_id", rec.ID),
			logging.String("title", rec.Title))
	}
	return report, nil
}

var transcribeStages = map[episode.Stage]bool{
	episode.StageTranscribe:  true,
	episode.StageTextProcess: true,
}

// TranscribeAll transcribes and text-processes every normalized episode
// that has no processed transcript yet.
func (p *Pipeline) TranscribeAll(ctx context.Context) (*Report, error) {
	log := p.runLogger("transcribe_all")
	records, err := p.store.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, rec := range records {
		stage, pending := rec.Status.NextStage()
		if !pending || !transcribeStages[stage] {
			continue
		}
		report.EpisodesTouched++
		if err := p.advanceUntil(ctx, log, rec, transcribeStages, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

var generateStages = map[episode.Stage]bool{
	episode.StageSummarize: true,
	episode.StageChapters:  true,
	episode.StageSubtitle:  true,
}

// SummarizeAll generates the summary, chapters, and subtitle for every
// episode with a processed transcript and missing generated artifacts.
func (p *Pipeline) SummarizeAll(ctx context.Context) (*Report, error) {
	log := p.runLogger("summarize_all")
	records, err := p.store.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, rec := range records {
		stage, pending := rec.Status.NextStage()
		if !pending || !generateStages[stage] {
			continue
		}
		report.EpisodesTouched++
		if err := p.advanceUntil(ctx, log, rec, generateStages, report); err != nil {
			return report, err
		}
	}
	return report, nil
}
