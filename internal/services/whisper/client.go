package whisper

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"sessionscribe/internal/services"
)

var commandContext = exec.CommandContext

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *CLI) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLanguage sets the transcription language.
func WithLanguage(language string) Option {
	return func(c *CLI) {
		if language != "" {
			c.language = language
		}
	}
}

// WithBeamSize sets the decoder beam size.
func WithBeamSize(beamSize int) Option {
	return func(c *CLI) {
		if beamSize > 0 {
			c.beamSize = beamSize
		}
	}
}

// WithDevice selects the compute device.
func WithDevice(device string) Option {
	return func(c *CLI) {
		if device != "" {
			c.device = device
		}
	}
}

// CLI wraps the whisper-ctranslate2 transcriber.
type CLI struct {
	binary   string
	model    string
	language string
	device   string
	beamSize int
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{
		binary:   "whisper-ctranslate2",
		model:    "base.en",
		language: "en",
		device:   "cpu",
		beamSize: 5,
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Model returns the configured model name, recorded in the catalog after a
// successful transcription.
func (c *CLI) Model() string { return c.model }

// Transcribe runs the transcriber over an audio file, writing a TSV segment
// file into outputDir. hintWords prime the decoder with campaign terms.
// Returns the TSV path.
func (c *CLI) Transcribe(ctx context.Context, audioPath, outputDir string, hintWords []string) (string, error) {
	if audioPath == "" {
		return "", errors.New("audio path required")
	}
	if outputDir == "" {
		return "", errors.New("output directory required")
	}

	args := []string{
		audioPath,
		"--model", c.model,
		"--language", c.language,
		"--beam_size", strconv.Itoa(c.beamSize),
		"--device", c.device,
		"--output_format", "tsv",
		"--output_dir", outputDir,
	}
	if len(hintWords) > 0 {
		args = append(args, "--initial_prompt", strings.Join(hintWords, ", "))
	}

	cmd := commandContext(ctx, c.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "transcribe", c.binary,
			outputTail(output), err)
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return filepath.Join(outputDir, stem+".tsv"), nil
}

func outputTail(output []byte) string {
	text := strings.TrimSpace(string(output))
	if text == "" {
		return "no output"
	}
	const limit = 800
	if len(text) > limit {
		text = "..." + text[len(text)-limit:]
	}
	return text
}
