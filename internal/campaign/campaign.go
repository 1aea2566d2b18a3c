package campaign

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	audioDirToken       = "Audio Files"
	transcriptsDirToken = "Transcriptions"
	databaseFileName    = "sessionscribe.db"
	lockFileName        = "scribe.lock"
	wordListFileName    = "wack_dictionary.txt"
	correctionsFileName = "corrections.txt"
)

// Campaign is one top-level collection of recording sessions sharing a
// repository and dictionary set.
type Campaign struct {
	root string
	name string
}

// Open binds to an existing campaign directory.
func Open(root string) (*Campaign, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve campaign path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat campaign: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("campaign path %s is not a directory", abs)
	}
	return &Campaign{root: abs, name: filepath.Base(abs)}, nil
}

// Create scaffolds a new campaign directory structure under baseDir.
// The abbreviation prefixes the audio and transcripts folder names.
func Create(baseDir, name, abbrev string) (*Campaign, error) {
	name = strings.TrimSpace(name)
	abbrev = strings.TrimSpace(abbrev)
	if name == "" {
		return nil, fmt.Errorf("campaign name required")
	}
	if abbrev == "" {
		abbrev = name
	}
	root := filepath.Join(baseDir, name)
	dirs := []string{
		root,
		filepath.Join(root, abbrev+" "+audioDirToken),
		filepath.Join(root, abbrev+" "+transcriptsDirToken),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create campaign structure: %w", err)
		}
	}
	return Open(root)
}

// Discover lists campaign directory names under baseDir, skipping hidden
// entries and names prefixed with "x " (the convention for retired campaigns).
func Discover(baseDir string) ([]string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("read working directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "x ") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Root returns the absolute campaign directory.
func (c *Campaign) Root() string { return c.root }

// Name returns the campaign directory basename.
func (c *Campaign) Name() string { return c.name }

// DatabasePath returns the repository file location.
func (c *Campaign) DatabasePath() string { return filepath.Join(c.root, databaseFileName) }

// LockPath returns the advisory lock file location.
func (c *Campaign) LockPath() string { return filepath.Join(c.root, lockFileName) }

// WordListPath returns the custom proper-noun list location.
func (c *Campaign) WordListPath() string { return filepath.Join(c.root, wordListFileName) }

// CorrectionsPath returns the correction-rule file location.
func (c *Campaign) CorrectionsPath() string { return filepath.Join(c.root, correctionsFileName) }

// CombinedTranscriptPath returns the combined-transcript artifact location.
func (c *Campaign) CombinedTranscriptPath() string {
	return filepath.Join(c.root, c.name+" - Transcriptions Combined.txt")
}

// CollatedSummariesPath returns the collated-summaries artifact location.
func (c *Campaign) CollatedSummariesPath() string {
	return filepath.Join(c.root, c.name+" - Collated Summaries.txt")
}

// AudioDir locates the folder whose name contains "Audio Files".
func (c *Campaign) AudioDir() (string, bool) {
	return c.findDir(audioDirToken)
}

// TranscriptsDir locates the folder whose name contains "Transcriptions".
func (c *Campaign) TranscriptsDir() (string, bool) {
	return c.findDir(transcriptsDirToken)
}

// EnsureAudioDir locates or creates the audio folder.
func (c *Campaign) EnsureAudioDir() (string, error) {
	return c.ensureDir(audioDirToken)
}

// EnsureTranscriptsDir locates or creates the transcripts folder.
func (c *Campaign) EnsureTranscriptsDir() (string, error) {
	return c.ensureDir(transcriptsDirToken)
}

func (c *Campaign) findDir(token string) (string, bool) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return "", false
	}
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() && strings.Contains(entry.Name(), token) {
			matches = append(matches, filepath.Join(c.root, entry.Name()))
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[0], true
}

func (c *Campaign) ensureDir(token string) (string, error) {
	if dir, ok := c.findDir(token); ok {
		return dir, nil
	}
	dir := filepath.Join(c.root, token)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s folder: %w", token, err)
	}
	return dir, nil
}

// Rel converts an absolute path under the campaign root to the relative form
// stored in the repository. Paths outside the root are kept absolute.
func (c *Campaign) Rel(path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(c.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// Abs converts a repository-relative path back to an absolute one.
func (c *Campaign) Abs(rel string) string {
	if rel == "" {
		return ""
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.root, rel)
}
