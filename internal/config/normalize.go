package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGeneral()
	c.normalizeAudio()
	c.normalizeTranscription()
	c.normalizeSummarizer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.General.WorkingDirectory, err = expandPath(c.General.WorkingDirectory); err != nil {
		return fmt.Errorf("general.working_directory: %w", err)
	}
	if c.Dictionaries.LexiconPath != "" {
		if c.Dictionaries.LexiconPath, err = expandPath(c.Dictionaries.LexiconPath); err != nil {
			return fmt.Errorf("dictionaries.lexicon_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeGeneral() {
	if len(c.General.SupportedAudioExtensions) == 0 {
		c.General.SupportedAudioExtensions = Default().General.SupportedAudioExtensions
	}
	normalized := make([]string, 0, len(c.General.SupportedAudioExtensions))
	for _, ext := range c.General.SupportedAudioExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.General.SupportedAudioExtensions = normalized
	if c.General.RecentFileDays <= 0 {
		c.General.RecentFileDays = defaultRecentFileDays
	}
}

func (c *Config) normalizeAudio() {
	if strings.TrimSpace(c.Audio.FFmpegBinary) == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Audio.FFprobeBinary) == "" {
		c.Audio.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = defaultSampleRate
	}
}

func (c *Config) normalizeTranscription() {
	if strings.TrimSpace(c.Transcription.Binary) == "" {
		c.Transcription.Binary = defaultTranscriptionBinary
	}
	if strings.TrimSpace(c.Transcription.Model) == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	if c.Transcription.BeamSize <= 0 {
		c.Transcription.BeamSize = defaultBeamSize
	}
}

func (c *Config) normalizeSummarizer() {
	if strings.TrimSpace(c.Summarizer.APIKey) == "" {
		c.Summarizer.APIKey = strings.TrimSpace(os.Getenv("SESSIONSCRIBE_API_KEY"))
	}
	if strings.TrimSpace(c.Summarizer.BaseURL) == "" {
		c.Summarizer.BaseURL = defaultSummarizerBaseURL
	}
	if strings.TrimSpace(c.Summarizer.Model) == "" {
		c.Summarizer.Model = defaultSummarizerModel
	}
	if c.Summarizer.TimeoutSeconds <= 0 {
		c.Summarizer.TimeoutSeconds = defaultSummarizerTimeout
	}
	if c.Summarizer.MaxRetries <= 0 {
		c.Summarizer.MaxRetries = defaultSummarizerRetries
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
