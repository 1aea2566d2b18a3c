package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGeneral(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateSummarizer(); err != nil {
		return err
	}
	if err := c.validateDictionaries(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGeneral() error {
	if c.General.WorkingDirectory == "" {
		return errors.New("general.working_directory must be set")
	}
	if len(c.General.SupportedAudioExtensions) == 0 {
		return errors.New("general.supported_audio_extensions must not be empty")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.TargetSizeMB <= 0 {
		return errors.New("audio.target_size_mb must be positive")
	}
	if c.Audio.MinBitrateKbps <= 0 {
		return errors.New("audio.min_bitrate_kbps must be positive")
	}
	return nil
}

func (c *Config) validateSummarizer() error {
	if c.Summarizer.MaxRetries < 1 || c.Summarizer.MaxRetries > 10 {
		return fmt.Errorf("summarizer.max_retries must be between 1 and 10, got %d", c.Summarizer.MaxRetries)
	}
	return nil
}

func (c *Config) validateDictionaries() error {
	if c.Dictionaries.CorrectionThreshold < 0 || c.Dictionaries.CorrectionThreshold > 100 {
		return errors.New("dictionaries.correction_threshold must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "text":
		return nil
	default:
		return fmt.Errorf("logging.format must be console, text, or json, got %q", c.Logging.Format)
	}
}
