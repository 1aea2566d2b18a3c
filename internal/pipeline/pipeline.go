package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"sessionscribe/internal/campaign"
	"sessionscribe/internal/config"
	"sessionscribe/internal/correct"
	"sessionscribe/internal/dictionary"
	"sessionscribe/internal/episode"
	"sessionscribe/internal/logging"
	"sessionscribe/internal/services/ffmpeg"
)

// Transcoder produces normalized audio artifacts.
type Transcoder interface {
	Duration(ctx context.Context, path string) (float64, error)
	Normalize(ctx context.Context, req ffmpeg.NormalizeRequest) (*ffmpeg.NormalizeResult, error)
}

// Transcriber produces TSV segment files from audio.
type Transcriber interface {
	Model() string
	Transcribe(ctx context.Context, audioPath, outputDir string, hintWords []string) (string, error)
}

// Summarizer produces generated text from a prompt.
type Summarizer interface {
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Deps carries the collaborators a pipeline needs.
type Deps struct {
	Config      *config.Config
	Campaign    *campaign.Campaign
	Store       *episode.Store
	Dictionary  *dictionary.Context
	Engine      *correct.Engine
	Transcoder  Transcoder
	Transcriber Transcriber
	Summarizer  Summarizer
	Logger      *slog.Logger
}

// Pipeline runs processing stages for one campaign.
type Pipeline struct {
	cfg         *config.Config
	camp        *campaign.Campaign
	store       *episode.Store
	dict        *dictionary.Context
	engine      *correct.Engine
	transcoder  Transcoder
	transcriber Transcriber
	summarizer  Summarizer
	logger      *slog.Logger
}

// New validates the dependency set and builds a pipeline.
func New(deps Deps) (*Pipeline, error) {
	switch {
	case deps.Config == nil:
		return nil, errors.New("pipeline: config required")
	case deps.Campaign == nil:
		return nil, errors.New("pipeline: campaign required")
	case deps.Store == nil:
		return nil, errors.New("pipeline: store required")
	case deps.Dictionary == nil:
		return nil, errors.New("pipeline: dictionary required")
	case deps.Engine == nil:
		return nil, errors.New("pipeline: correction engine required")
	case deps.Transcoder == nil:
		return nil, errors.New("pipeline: transcoder required")
	case deps.Transcriber == nil:
		return nil, errors.New("pipeline: transcriber required")
	case deps.Summarizer == nil:
		return nil, errors.New("pipeline: summarizer required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:         deps.Config,
		camp:        deps.Campaign,
		store:       deps.Store,
		dict:        deps.Dictionary,
		engine:      deps.Engine,
		transcoder:  deps.Transcoder,
		transcriber: deps.Transcriber,
		summarizer:  deps.Summarizer,
		logger:      logger,
	}, nil
}

// runLogger tags log lines from one invocation with a correlation id.
func (p *Pipeline) runLogger(operation string) *slog.Logger {
	return p.logger.With(
		logging.String("run_id", uuid.NewString()),
		logging.String("operation", operation),
		logging.String("campaign", p.camp.Name()),
	)
}
