package episode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sessionscribe/internal/fileutil"
)

// Problem is one integrity finding: a recorded path whose file is gone, or
// a status flag set without its prerequisite.
type Problem struct {
	EpisodeID     int64
	EpisodeNumber int
	Title         string
	Field         string
	Path          string
}

var clearableFields = map[string]bool{
	"normalized_audio_file": true,
	"transcription_file":    true,
	"summary_file":          true,
	"chapters_file":         true,
	"subtitle_file":         true,
}

var checkedFields = []string{
	"source_file",
	"normalized_audio_file",
	"transcription_file",
	"summary_file",
	"chapters_file",
	"subtitle_file",
}

// CheckIntegrity verifies that every recorded artifact path still exists on
// disk and that no status flag is set ahead of its prerequisite. resolve
// maps stored paths to absolute ones; pass nil when paths are absolute.
func (s *Store) CheckIntegrity(ctx context.Context, resolve func(string) string) ([]Problem, error) {
	if resolve == nil {
		resolve = func(path string) string { return path }
	}
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var problems []Problem
	for _, rec := range records {
		for _, field := range checkedFields {
			path := fieldValue(rec, field)
			if path == "" {
				continue
			}
			if !fileutil.PathExists(resolve(path)) {
				problems = append(problems, Problem{
					EpisodeID:     rec.ID,
					EpisodeNumber: rec.EpisodeNumber,
					Title:         rec.Title,
					Field:         field,
					Path:          path,
				})
			}
		}
		for _, stage := range rec.Status.Violations() {
			problems = append(problems, Problem{
				EpisodeID:     rec.ID,
				EpisodeNumber: rec.EpisodeNumber,
				Title:         rec.Title,
				Field:         "processing_status",
				Path:          string(stage),
			})
		}
	}
	return problems, nil
}

// ClearPathFields blanks the named artifact columns for an episode so the
// repository no longer references files that are gone from disk. Status
// flags are left untouched; what ran, ran. The source file column cannot
// be cleared.
func (s *Store) ClearPathFields(ctx context.Context, episodeID int64, fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	var sets []string
	for _, field := range fields {
		if !clearableFields[field] {
			return fmt.Errorf("clear episode %d: field %q cannot be cleared", episodeID, field)
		}
		sets = append(sets, field+" = ''")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		"UPDATE episodes SET "+strings.Join(sets, ", ")+", updated_at = ? WHERE id = ?",
		now, episodeID,
	)
	if err != nil {
		return fmt.Errorf("clear episode %d fields: %w", episodeID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("clear episode %d fields: %w", episodeID, err)
	}
	if affected == 0 {
		return fmt.Errorf("clear episode %d: not found", episodeID)
	}
	return nil
}

func fieldValue(rec *Record, field string) string {
	switch field {
	case "source_file":
		return rec.SourceFile
	case "normalized_audio_file":
		return rec.NormalizedAudioFile
	case "transcription_file":
		return rec.TranscriptionFile
	case "summary_file":
		return rec.SummaryFile
	case "chapters_file":
		return rec.ChaptersFile
	case "subtitle_file":
		return rec.SubtitleFile
	}
	return ""
}
