package campaign_test

import (
	"os"
	"path/filepath"
	"testing"

	"sessionscribe/internal/campaign"
)

func TestCreateAndOpen(t *testing.T) {
	base := t.TempDir()
	c, err := campaign.Create(base, "Curse of Strahd", "CoS")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name() != "Curse of Strahd" {
		t.Fatalf("unexpected name %q", c.Name())
	}
	audio, ok := c.AudioDir()
	if !ok || filepath.Base(audio) != "CoS Audio Files" {
		t.Fatalf("unexpected audio dir %q (ok=%v)", audio, ok)
	}
	transcripts, ok := c.TranscriptsDir()
	if !ok || filepath.Base(transcripts) != "CoS Transcriptions" {
		t.Fatalf("unexpected transcripts dir %q (ok=%v)", transcripts, ok)
	}

	reopened, err := campaign.Open(c.Root())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if reopened.DatabasePath() != filepath.Join(c.Root(), "sessionscribe.db") {
		t.Fatalf("unexpected db path %q", reopened.DatabasePath())
	}
}

func TestEnsureDirsCreateWhenMissing(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "Bare Campaign")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	c, err := campaign.Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := c.AudioDir(); ok {
		t.Fatal("expected no audio dir yet")
	}
	audio, err := c.EnsureAudioDir()
	if err != nil {
		t.Fatalf("EnsureAudioDir: %v", err)
	}
	if found, ok := c.AudioDir(); !ok || found != audio {
		t.Fatalf("expected ensured dir to be discoverable, got %q ok=%v", found, ok)
	}
}

func TestDiscoverSkipsRetiredAndHidden(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"Alpha", "x Old Campaign", ".stash", "Beta"} {
		if err := os.MkdirAll(filepath.Join(base, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(base, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	names, err := campaign.Discover(base)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "Beta" {
		t.Fatalf("unexpected campaigns %v", names)
	}
}

func TestRelAbsRoundTrip(t *testing.T) {
	base := t.TempDir()
	c, err := campaign.Create(base, "Rime", "RoF")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	abs := filepath.Join(c.Root(), "RoF Audio Files", "file.m4a")
	rel := c.Rel(abs)
	if filepath.IsAbs(rel) {
		t.Fatalf("expected relative path, got %q", rel)
	}
	if c.Abs(rel) != abs {
		t.Fatalf("round trip mismatch: %q", c.Abs(rel))
	}

	outside := filepath.Join(base, "elsewhere.m4a")
	if c.Rel(outside) != outside {
		t.Fatalf("outside path should stay absolute, got %q", c.Rel(outside))
	}
	if c.Abs("") != "" {
		t.Fatal("empty path should stay empty")
	}
}
