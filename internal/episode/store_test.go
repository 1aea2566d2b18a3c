package episode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sessionscribe.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func register(t *testing.T, store *Store, title, date, source string) *Record {
	t.Helper()
	rec, created, err := store.Register(context.Background(), RegisterParams{
		Title:        title,
		RecordedDate: date,
		SourceFile:   source,
	})
	if err != nil {
		t.Fatalf("Register %s: %v", title, err)
	}
	if !created {
		t.Fatalf("Register %s: expected a new record", title)
	}
	return rec
}

func TestRegisterAssignsSequentialNumbers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := register(t, store, "Session One", "2024-01-01", "raw/one.wav")
	second := register(t, store, "Session Two", "2024-01-08", "raw/two.wav")
	if first.EpisodeNumber != 1 || second.EpisodeNumber != 2 {
		t.Fatalf("episode numbers = %d, %d", first.EpisodeNumber, second.EpisodeNumber)
	}
	if next, err := store.NextEpisodeNumber(ctx); err != nil || next != 3 {
		t.Fatalf("NextEpisodeNumber = %d, %v", next, err)
	}

	dup, created, err := store.Register(ctx, RegisterParams{
		Title:        "Session One Again",
		RecordedDate: "2024-02-01",
		SourceFile:   "raw/one.wav",
	})
	if err != nil {
		t.Fatalf("duplicate Register: %v", err)
	}
	if created {
		t.Fatal("duplicate source should not create a record")
	}
	if dup.ID != first.ID || dup.Title != "Session One" {
		t.Fatalf("duplicate returned wrong record: %+v", dup)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestRegisterCreatesStatusRow(t *testing.T) {
	store := newTestStore(t)
	rec := register(t, store, "Session One", "2024-01-01", "raw/one.wav")
	if rec.Status.EpisodeID != rec.ID {
		t.Fatalf("status episode id = %d, want %d", rec.Status.EpisodeID, rec.ID)
	}
	if next, ok := rec.Status.NextStage(); !ok || next != StageNormalize {
		t.Fatalf("NextStage = %s, %v", next, ok)
	}
}

func TestAdvanceLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	rec := register(t, store, "Session One", "2024-01-01", "raw/one.wav")

	err := store.Advance(ctx, rec.ID, StageResult{Stage: StageSummarize, ArtifactPath: "x.txt"})
	if !errors.Is(err, ErrStageNotReady) {
		t.Fatalf("expected ErrStageNotReady, got %v", err)
	}

	steps := []StageResult{
		{Stage: StageNormalize, ArtifactPath: "audio/one_norm.m4a", Bitrate: 96, DurationSeconds: 3600},
		{Stage: StageTranscribe, Model: "base.en"},
		{Stage: StageTextProcess, ArtifactPath: "tx/one_revised.txt"},
		{Stage: StageSummarize, ArtifactPath: "tx/one_summary.txt", Model: "gemini-1.5-flash"},
		{Stage: StageChapters, ArtifactPath: "tx/one_chapters.txt"},
		{Stage: StageSubtitle, ArtifactPath: "tx/one_subtitle.txt"},
	}
	for _, step := range steps {
		if err := store.Advance(ctx, rec.ID, step); err != nil {
			t.Fatalf("Advance %s: %v", step.Stage, err)
		}
	}

	got, err := store.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Status.Complete() {
		t.Fatalf("expected complete status, got %+v", got.Status)
	}
	if got.NormalizedAudioFile != "audio/one_norm.m4a" || got.NormalizedBitrate != 96 {
		t.Fatalf("normalize fields not recorded: %+v", got)
	}
	if got.EpisodeLengthSeconds != 3600 {
		t.Fatalf("episode length = %d", got.EpisodeLengthSeconds)
	}
	if got.TranscribedModel != "base.en" || got.TranscribedDate == "" {
		t.Fatalf("transcribe fields not recorded: %+v", got)
	}
	if got.TranscriptionFile != "tx/one_revised.txt" {
		t.Fatalf("transcript path = %q", got.TranscriptionFile)
	}
	if got.SummaryFile == "" || got.SummarizedModel != "gemini-1.5-flash" {
		t.Fatalf("summary fields not recorded: %+v", got)
	}
	if got.Status.LastProcessed == "" {
		t.Fatal("last processed not recorded")
	}
}

func TestAdvanceIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	rec := register(t, store, "Session One", "2024-01-01", "raw/one.wav")

	if err := store.Advance(ctx, rec.ID, StageResult{Stage: StageNormalize, ArtifactPath: "a.m4a", Bitrate: 64}); err != nil {
		t.Fatalf("first Advance: %v", err)
	}
	if err := store.Advance(ctx, rec.ID, StageResult{Stage: StageNormalize, ArtifactPath: "b.m4a", Bitrate: 96}); err != nil {
		t.Fatalf("repeat Advance: %v", err)
	}
	got, err := store.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.NormalizedAudioFile != "b.m4a" || got.NormalizedBitrate != 96 {
		t.Fatalf("repeat advance should refresh artifacts: %+v", got)
	}
	if !got.Status.Normalized {
		t.Fatal("normalized flag lost")
	}
}

func TestListOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	register(t, store, "Second Recorded", "2024-01-08", "raw/a.wav")
	register(t, store, "First Recorded", "2024-01-01", "raw/b.wav")
	register(t, store, "Second Recorded Part 2", "2024-01-08", "raw/c.wav")

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var titles []string
	for _, rec := range records {
		titles = append(titles, rec.Title)
	}
	want := []string{"First Recorded", "Second Recorded", "Second Recorded Part 2"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("order = %v, want %v", titles, want)
		}
	}
}

func TestLookupsReturnNilWhenMissing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if rec, err := store.GetByID(ctx, 99); err != nil || rec != nil {
		t.Fatalf("GetByID missing = %+v, %v", rec, err)
	}
	if rec, err := store.GetBySourcePath(ctx, "nope.wav"); err != nil || rec != nil {
		t.Fatalf("GetBySourcePath missing = %+v, %v", rec, err)
	}

	seeded := register(t, store, "Session One", "2024-01-01", "raw/one.wav")
	if err := store.Advance(ctx, seeded.ID, StageResult{Stage: StageNormalize}); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := store.Advance(ctx, seeded.ID, StageResult{Stage: StageTranscribe}); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := store.Advance(ctx, seeded.ID, StageResult{Stage: StageTextProcess, ArtifactPath: "tx/one_revised.txt"}); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	found, err := store.GetByTranscriptPath(ctx, "tx/one_revised.txt")
	if err != nil || found == nil || found.ID != seeded.ID {
		t.Fatalf("GetByTranscriptPath = %+v, %v", found, err)
	}
}

func TestUpdateEpisode(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	rec := register(t, store, "Session One", "2024-01-01", "raw/one.wav")

	rec.Title = "Session One (Part 1)"
	rec.BaseEpisodeTitle = "Session One"
	rec.SeasonNumber = 2
	rec.Metadata = map[string]string{"note": "edited"}
	if err := store.UpdateEpisode(ctx, rec); err != nil {
		t.Fatalf("UpdateEpisode: %v", err)
	}

	got, err := store.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Session One (Part 1)" || got.SeasonNumber != 2 {
		t.Fatalf("edit not applied: %+v", got)
	}
	if got.Metadata["note"] != "edited" {
		t.Fatalf("metadata not applied: %+v", got.Metadata)
	}
}

func TestCheckIntegrityAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	source := filepath.Join(dir, "one.wav")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	rec := register(t, store, "Session One", "2024-01-01", source)
	if err := store.Advance(ctx, rec.ID, StageResult{
		Stage:        StageNormalize,
		ArtifactPath: filepath.Join(dir, "missing_norm.m4a"),
	}); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	problems, err := store.CheckIntegrity(ctx, nil)
	if err != nil {
		t.Fatalf("CheckIntegrity: %v", err)
	}
	if len(problems) != 1 || problems[0].Field != "normalized_audio_file" {
		t.Fatalf("problems = %+v", problems)
	}

	if err := store.ClearPathFields(ctx, rec.ID, []string{"normalized_audio_file"}); err != nil {
		t.Fatalf("ClearPathFields: %v", err)
	}
	got, err := store.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.NormalizedAudioFile != "" {
		t.Fatalf("clear not applied: %+v", got)
	}
	if !got.Status.Normalized {
		t.Fatalf("status flags must survive a path clear: %+v", got.Status)
	}
	if err := store.ClearPathFields(ctx, rec.ID, []string{"source_file"}); err == nil {
		t.Fatal("clearing source_file should fail")
	}
}
