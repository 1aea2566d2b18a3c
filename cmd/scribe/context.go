package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"sessionscribe/internal/campaign"
	"sessionscribe/internal/config"
	"sessionscribe/internal/correct"
	"sessionscribe/internal/dictionary"
	"sessionscribe/internal/episode"
	"sessionscribe/internal/logging"
	"sessionscribe/internal/pipeline"
	"sessionscribe/internal/services/ffmpeg"
	"sessionscribe/internal/services/gemini"
	"sessionscribe/internal/services/whisper"
)

type commandContext struct {
	configFlag   *string
	campaignFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	logOnce sync.Once
	log     *slog.Logger
}

func newCommandContext(configFlag, campaignFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		campaignFlag: campaignFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	c.logOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Writer: os.Stderr,
		})
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		c.log = logger
	})
	return c.log
}

// openCampaign resolves the target campaign: the --campaign flag when set,
// otherwise the only campaign under the working directory.
func (c *commandContext) openCampaign() (*campaign.Campaign, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	name := ""
	if c.campaignFlag != nil {
		name = strings.TrimSpace(*c.campaignFlag)
	}
	if name != "" {
		if filepath.IsAbs(name) {
			return campaign.Open(name)
		}
		return campaign.Open(filepath.Join(cfg.General.WorkingDirectory, name))
	}

	names, err := campaign.Discover(cfg.General.WorkingDirectory)
	if err != nil {
		return nil, err
	}
	switch len(names) {
	case 0:
		return nil, fmt.Errorf("no campaigns under %s; create one with `scribe campaign new`", cfg.General.WorkingDirectory)
	case 1:
		return campaign.Open(filepath.Join(cfg.General.WorkingDirectory, names[0]))
	default:
		return nil, fmt.Errorf("multiple campaigns found (%s); pick one with --campaign", strings.Join(names, ", "))
	}
}

// campaignEnv bundles everything a command needs to work on one campaign.
type campaignEnv struct {
	cfg     *config.Config
	camp    *campaign.Campaign
	store   *episode.Store
	dict    *dictionary.Context
	lexicon *dictionary.Lexicon
	engine  *correct.Engine
	pipe    *pipeline.Pipeline
}

// withCampaign opens the campaign environment and hands it to fn. Mutating
// commands pass locked=true to hold the campaign's advisory lock for the
// duration.
func (c *commandContext) withCampaign(locked bool, fn func(*campaignEnv) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	camp, err := c.openCampaign()
	if err != nil {
		return err
	}

	if locked {
		lock := flock.New(camp.LockPath())
		acquired, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire campaign lock: %w", err)
		}
		if !acquired {
			return fmt.Errorf("campaign %s is in use by another scribe process", camp.Name())
		}
		defer func() { _ = lock.Unlock() }()
	}

	store, err := episode.Open(camp.DatabasePath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	dict, err := dictionary.Load(camp.WordListPath(), camp.CorrectionsPath())
	if err != nil {
		return err
	}
	lexicon, err := dictionary.NewLexicon(cfg.Dictionaries.LexiconPath)
	if err != nil {
		return err
	}
	engine := correct.NewEngine(dict)

	pipe, err := pipeline.New(pipeline.Deps{
		Config:     cfg,
		Campaign:   camp,
		Store:      store,
		Dictionary: dict,
		Engine:     engine,
		Transcoder: ffmpeg.NewCLI(
			ffmpeg.WithFFmpegBinary(cfg.Audio.FFmpegBinary),
			ffmpeg.WithFFprobeBinary(cfg.Audio.FFprobeBinary),
		),
		Transcriber: whisper.NewCLI(
			whisper.WithBinary(cfg.Transcription.Binary),
			whisper.WithModel(cfg.Transcription.Model),
			whisper.WithLanguage(cfg.Transcription.Language),
			whisper.WithBeamSize(cfg.Transcription.BeamSize),
			whisper.WithDevice(cfg.Transcription.Device),
		),
		Summarizer: gemini.NewClient(gemini.Config{
			APIKey:         cfg.Summarizer.APIKey,
			BaseURL:        cfg.Summarizer.BaseURL,
			Model:          cfg.Summarizer.Model,
			TimeoutSeconds: cfg.Summarizer.TimeoutSeconds,
			MaxRetries:     cfg.Summarizer.MaxRetries,
		}),
		Logger: c.logger(),
	})
	if err != nil {
		return err
	}

	return fn(&campaignEnv{
		cfg:     cfg,
		camp:    camp,
		store:   store,
		dict:    dict,
		lexicon: lexicon,
		engine:  engine,
		pipe:    pipe,
	})
}
