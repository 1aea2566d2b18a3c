// Package testsupport provides helpers for wiring temp campaigns, configs,
// and stores in tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"sessionscribe/internal/campaign"
	"sessionscribe/internal/config"
	"sessionscribe/internal/dictionary"
	"sessionscribe/internal/episode"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in a unique temp working directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.General.WorkingDirectory = t.TempDir()
	cfg.Summarizer.APIKey = "test"
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSkipMinutes sets the summary skip window on the test config.
func WithSkipMinutes(minutes int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Summarizer.SkipMinutes = minutes
	}
}

// WithThreshold sets the correction threshold on the test config.
func WithThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Dictionaries.CorrectionThreshold = threshold
	}
}

// NewCampaign scaffolds a campaign under the config's working directory.
func NewCampaign(t testing.TB, cfg *config.Config, name, abbrev string) *campaign.Campaign {
	t.Helper()

	camp, err := campaign.Create(cfg.General.WorkingDirectory, name, abbrev)
	if err != nil {
		t.Fatalf("campaign.Create: %v", err)
	}
	return camp
}

// MustOpenStore opens the campaign's episode store and registers cleanup.
func MustOpenStore(t testing.TB, camp *campaign.Campaign) *episode.Store {
	t.Helper()

	store, err := episode.Open(camp.DatabasePath())
	if err != nil {
		t.Fatalf("episode.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustLoadDictionary loads the campaign's dictionary context, seeding the
// word list first when words are given.
func MustLoadDictionary(t testing.TB, camp *campaign.Campaign, words string) *dictionary.Context {
	t.Helper()

	if words != "" {
		if err := os.WriteFile(camp.WordListPath(), []byte(words), 0o644); err != nil {
			t.Fatalf("seed word list: %v", err)
		}
	}
	dict, err := dictionary.Load(camp.WordListPath(), camp.CorrectionsPath())
	if err != nil {
		t.Fatalf("dictionary.Load: %v", err)
	}
	return dict
}

// WriteFile creates the target path (and parents) with the given content.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
