package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// General contains working-directory and discovery configuration.
type General struct {
	WorkingDirectory         string   `toml:"working_directory"`
	SupportedAudioExtensions []string `toml:"supported_audio_extensions"`
	RecentFileDays           int      `toml:"recent_file_days"`
}

// Audio contains configuration for normalization via ffmpeg.
type Audio struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	TargetSizeMB   int    `toml:"target_size_mb"`
	MinBitrateKbps int    `toml:"min_bitrate_kbps"`
	SampleRate     int    `toml:"sample_rate"`
	ArtistName     string `toml:"artist_name"`
	Genre          string `toml:"genre"`
}

// Transcription contains configuration for the speech-to-text engine.
type Transcription struct {
	Binary   string `toml:"binary"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
	BeamSize int    `toml:"beam_size"`
	Device   string `toml:"device"`
}

// Summarizer contains configuration for the text-generation service.
type Summarizer struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
	SkipMinutes    int    `toml:"skip_minutes"`
}

// Dictionaries contains correction-engine tuning.
type Dictionaries struct {
	// CorrectionThreshold is a percentage (0-100). Fuzzy scores at or above
	// it auto-resolve corrections; scores below it flag new-term candidates.
	CorrectionThreshold float64 `toml:"correction_threshold"`
	// LexiconPath optionally points at a word-per-line general-English list
	// merged with the embedded lexicon.
	LexiconPath string `toml:"lexicon_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration document.
type Config struct {
	General       General       `toml:"general"`
	Audio         Audio         `toml:"audio"`
	Transcription Transcription `toml:"transcription"`
	Summarizer    Summarizer    `toml:"summarizer"`
	Dictionaries  Dictionaries  `toml:"dictionaries"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the expanded default config location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sessionscribe/config.toml")
}

// Load reads configuration from path (or the default locations when path is
// empty), applies defaults, and validates the result. It reports the resolved
// path and whether a file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sessionscribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the working directory when absent.
func (c *Config) EnsureDirectories() error {
	if c.General.WorkingDirectory == "" {
		return errors.New("general.working_directory is empty")
	}
	if err := os.MkdirAll(c.General.WorkingDirectory, 0o755); err != nil {
		return fmt.Errorf("create working directory: %w", err)
	}
	return nil
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func expandPath(pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return "", nil
	}
	if pathValue == "~" || strings.HasPrefix(pathValue, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			return home, nil
		}
		pathValue = filepath.Join(home, pathValue[2:])
	}
	abs, err := filepath.Abs(pathValue)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", pathValue, err)
	}
	return abs, nil
}

// ExpandPath exposes path expansion for callers outside the package.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
