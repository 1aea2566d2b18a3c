package episode

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrStageNotReady reports an Advance whose prerequisite stage has not run.
var ErrStageNotReady = errors.New("stage prerequisite not satisfied")

// Store manages episode persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the episode database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// CanonicalSourcePath cleans and absolutizes a recording path so the same
// file always produces the same registration key.
func CanonicalSourcePath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("canonicalize source path: %w", err)
	}
	return abs, nil
}

// RegisterParams describes a recording to add to the catalog.
type RegisterParams struct {
	Title            string
	BaseEpisodeTitle string
	RecordedDate     string
	SourceFile       string
	SeasonNumber     int
	Metadata         map[string]string
}

// Register adds an episode and its processing-status row in one
// transaction, assigning the next episode number. When the source file is
// already cataloged the existing record is returned and created is false.
func (s *Store) Register(ctx context.Context, params RegisterParams) (rec *Record, created bool, err error) {
	if strings.TrimSpace(params.SourceFile) == "" {
		return nil, false, fmt.Errorf("register episode: source file required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, false, fmt.Errorf("register episode: title required")
	}
	season := params.SeasonNumber
	if season <= 0 {
		season = 1
	}
	metadata, err := marshalMetadata(params.Metadata)
	if err != nil {
		return nil, false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin register tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM episodes WHERE source_file = ?", params.SourceFile,
	).Scan(&existingID)
	switch {
	case err == nil:
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("commit register tx: %w", err)
		}
		existing, err := s.GetByID(ctx, existingID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, fmt.Errorf("check existing episode: %w", err)
	}

	var number int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(episode_number), 0) + 1 FROM episodes",
	).Scan(&number); err != nil {
		return nil, false, fmt.Errorf("next episode number: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO episodes (
            episode_number, season_number, title, base_episode_title,
            recorded_date, source_file, metadata, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		number, season, params.Title, params.BaseEpisodeTitle,
		params.RecordedDate, params.SourceFile, metadata, now, now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert episode: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("episode id: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO processing_status (episode_id) VALUES (?)", id,
	); err != nil {
		return nil, false, fmt.Errorf("insert processing status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit register tx: %w", err)
	}

	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// NextEpisodeNumber previews the number the next registration will take.
// Only the registration transaction assigns it authoritatively.
func (s *Store) NextEpisodeNumber(ctx context.Context) (int, error) {
	var number int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(episode_number), 0) + 1 FROM episodes",
	).Scan(&number)
	if err != nil {
		return 0, fmt.Errorf("next episode number: %w", err)
	}
	return number, nil
}

// Advance records a completed stage for an episode. Re-recording a stage
// that already ran refreshes its artifact fields; advancing a stage whose
// prerequisite has not run fails with ErrStageNotReady.
func (s *Store) Advance(ctx context.Context, episodeID int64, res StageResult) error {
	if !res.Stage.Valid() {
		return fmt.Errorf("advance episode %d: unknown stage %q", episodeID, res.Stage)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin advance tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	status, err := scanStatus(tx.QueryRowContext(ctx,
		`SELECT episode_id, normalized, transcribed, text_processed,
            summarized, chapters_generated, subtitles_generated, last_processed
        FROM processing_status WHERE episode_id = ?`, episodeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("advance episode %d: not registered", episodeID)
		}
		return fmt.Errorf("load processing status: %w", err)
	}
	if !status.Ready(res.Stage) {
		prereq, _ := Prerequisite(res.Stage)
		return fmt.Errorf("advance episode %d to %s: %w (requires %s)",
			episodeID, res.Stage, ErrStageNotReady, prereq)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var flag string
	episodeSets := []string{"updated_at = ?"}
	episodeArgs := []any{now}

	switch res.Stage {
	case StageNormalize:
		flag = "normalized"
		episodeSets = append(episodeSets, "normalized_audio_file = ?", "normalized_bitrate = ?")
		episodeArgs = append(episodeArgs, res.ArtifactPath, res.Bitrate)
		if res.DurationSeconds > 0 {
			episodeSets = append(episodeSets, "episode_length_seconds = ?")
			episodeArgs = append(episodeArgs, res.DurationSeconds)
		}
	case StageTranscribe:
		flag = "transcribed"
		episodeSets = append(episodeSets, "transcribed_model = ?", "transcribed_date = ?")
		episodeArgs = append(episodeArgs, res.Model, now)
	case StageTextProcess:
		flag = "text_processed"
		episodeSets = append(episodeSets, "transcription_file = ?")
		episodeArgs = append(episodeArgs, res.ArtifactPath)
	case StageSummarize:
		flag = "summarized"
		episodeSets = append(episodeSets, "summary_file = ?", "summarized_model = ?", "summarized_date = ?")
		episodeArgs = append(episodeArgs, res.ArtifactPath, res.Model, now)
	case StageChapters:
		flag = "chapters_generated"
		episodeSets = append(episodeSets, "chapters_file = ?")
		episodeArgs = append(episodeArgs, res.ArtifactPath)
	case StageSubtitle:
		flag = "subtitles_generated"
		episodeSets = append(episodeSets, "subtitle_file = ?")
		episodeArgs = append(episodeArgs, res.ArtifactPath)
	}

	episodeArgs = append(episodeArgs, episodeID)
	if _, err := tx.ExecContext(ctx,
		"UPDATE episodes SET "+strings.Join(episodeSets, ", ")+" WHERE id = ?",
		episodeArgs...,
	); err != nil {
		return fmt.Errorf("update episode for %s: %w", res.Stage, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE processing_status SET "+flag+" = 1, last_processed = ? WHERE episode_id = ?",
		now, episodeID,
	); err != nil {
		return fmt.Errorf("update processing status for %s: %w", res.Stage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit advance tx: %w", err)
	}
	return nil
}

const recordColumns = `e.id, e.episode_number, e.season_number, e.title,
    e.base_episode_title, e.recorded_date, e.source_file,
    e.normalized_audio_file, e.transcription_file, e.summary_file,
    e.chapters_file, e.subtitle_file, e.episode_length_seconds,
    e.normalized_bitrate, e.transcribed_model, e.transcribed_date,
    e.summarized_model, e.summarized_date, e.metadata,
    e.created_at, e.updated_at,
    p.normalized, p.transcribed, p.text_processed, p.summarized,
    p.chapters_generated, p.subtitles_generated, p.last_processed`

const recordQuery = "SELECT " + recordColumns + `
    FROM episodes e
    JOIN processing_status p ON p.episode_id = e.id`

// GetByID looks an episode up by its catalog id. Returns (nil, nil) when
// no such episode exists.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	return s.getWhere(ctx, "e.id = ?", id)
}

// GetBySourcePath looks an episode up by its registered source file.
func (s *Store) GetBySourcePath(ctx context.Context, sourceFile string) (*Record, error) {
	return s.getWhere(ctx, "e.source_file = ?", sourceFile)
}

// GetByNormalizedPath looks an episode up by its normalized audio artifact.
func (s *Store) GetByNormalizedPath(ctx context.Context, normalizedAudioFile string) (*Record, error) {
	return s.getWhere(ctx, "e.normalized_audio_file = ?", normalizedAudioFile)
}

// GetByTranscriptPath looks an episode up by its processed transcript.
func (s *Store) GetByTranscriptPath(ctx context.Context, transcriptionFile string) (*Record, error) {
	return s.getWhere(ctx, "e.transcription_file = ?", transcriptionFile)
}

func (s *Store) getWhere(ctx context.Context, where string, args ...any) (*Record, error) {
	row := s.db.QueryRowContext(ctx, recordQuery+" WHERE "+where, args...)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load episode: %w", err)
	}
	return rec, nil
}

// List returns every episode ordered by recorded date, then episode number.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		recordQuery+" ORDER BY e.recorded_date ASC, e.episode_number ASC")
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return records, nil
}

// UpdateEpisode rewrites the editable catalog fields of an episode.
// Processing status and artifact paths are owned by Advance.
func (s *Store) UpdateEpisode(ctx context.Context, rec *Record) error {
	if rec == nil || rec.ID == 0 {
		return fmt.Errorf("update episode: missing id")
	}
	metadata, err := marshalMetadata(rec.Metadata)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`UPDATE episodes SET
            title = ?, base_episode_title = ?, season_number = ?,
            recorded_date = ?, episode_length_seconds = ?, metadata = ?,
            updated_at = ?
        WHERE id = ?`,
		rec.Title, rec.BaseEpisodeTitle, rec.SeasonNumber,
		rec.RecordedDate, rec.EpisodeLengthSeconds, metadata,
		now, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update episode %d: %w", rec.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update episode %d: %w", rec.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update episode %d: not found", rec.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var metadata string
	err := row.Scan(
		&rec.ID, &rec.EpisodeNumber, &rec.SeasonNumber, &rec.Title,
		&rec.BaseEpisodeTitle, &rec.RecordedDate, &rec.SourceFile,
		&rec.NormalizedAudioFile, &rec.TranscriptionFile, &rec.SummaryFile,
		&rec.ChaptersFile, &rec.SubtitleFile, &rec.EpisodeLengthSeconds,
		&rec.NormalizedBitrate, &rec.TranscribedModel, &rec.TranscribedDate,
		&rec.SummarizedModel, &rec.SummarizedDate, &metadata,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.Status.Normalized, &rec.Status.Transcribed,
		&rec.Status.TextProcessed, &rec.Status.Summarized,
		&rec.Status.ChaptersGenerated, &rec.Status.SubtitlesGenerated,
		&rec.Status.LastProcessed,
	)
	if err != nil {
		return nil, err
	}
	rec.Status.EpisodeID = rec.ID
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("decode episode metadata: %w", err)
		}
	}
	return &rec, nil
}

func scanStatus(row rowScanner) (ProcessingStatus, error) {
	var status ProcessingStatus
	err := row.Scan(
		&status.EpisodeID, &status.Normalized, &status.Transcribed,
		&status.TextProcessed, &status.Summarized,
		&status.ChaptersGenerated, &status.SubtitlesGenerated,
		&status.LastProcessed,
	)
	return status, err
}

func marshalMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("encode episode metadata: %w", err)
	}
	return string(data), nil
}
