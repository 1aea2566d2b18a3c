package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"sessionscribe/internal/services"
)

var commandContext = exec.CommandContext

// NormalizeRequest describes one transcode: input recording to a mono,
// loudness-normalized AAC file with podcast metadata tags.
type NormalizeRequest struct {
	InputPath  string
	OutputPath string

	Title  string
	Artist string
	Album  string
	Genre  string
	Track  int
	Date   string

	SampleRate     int
	TargetSizeMB   int
	MinBitrateKbps int
}

// NormalizeResult reports what the transcode produced.
type NormalizeResult struct {
	OutputPath      string
	BitrateKbps     int
	DurationSeconds int
}

// Option configures the CLI client.
type Option func(*CLI)

// WithFFmpegBinary overrides the default ffmpeg binary name.
func WithFFmpegBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.ffmpeg = binary
		}
	}
}

// WithFFprobeBinary overrides the default ffprobe binary name.
func WithFFprobeBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.ffprobe = binary
		}
	}
}

// CLI shells out to ffmpeg and ffprobe.
type CLI struct {
	ffmpeg  string
	ffprobe string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{ffmpeg: "ffmpeg", ffprobe: "ffprobe"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Duration probes the length of an audio file in seconds.
func (c *CLI) Duration(ctx context.Context, path string) (float64, error) {
	if path == "" {
		return 0, errors.New("audio path required")
	}
	cmd := commandContext(ctx, c.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "normalize", "ffprobe",
			outputTail(output), err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "normalize", "ffprobe",
			fmt.Sprintf("unparseable duration %q", strings.TrimSpace(string(output))), err)
	}
	return duration, nil
}

// Normalize transcodes the input to a mono loudness-normalized AAC file.
// The bitrate is computed from the target file size and the probed
// duration, floored at the configured minimum.
func (c *CLI) Normalize(ctx context.Context, req NormalizeRequest) (*NormalizeResult, error) {
	if req.InputPath == "" {
		return nil, errors.New("input path required")
	}
	if req.OutputPath == "" {
		return nil, errors.New("output path required")
	}

	duration, err := c.Duration(ctx, req.InputPath)
	if err != nil {
		return nil, err
	}
	bitrate := BitrateForDuration(req.TargetSizeMB, req.MinBitrateKbps, duration)

	args := []string{
		"-i", req.InputPath,
		"-af", "loudnorm",
		"-ac", "1",
	}
	if req.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(req.SampleRate))
	}
	args = append(args,
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", bitrate),
	)
	for _, tag := range metadataTags(req) {
		args = append(args, "-metadata", tag)
	}
	args = append(args, "-y", req.OutputPath)

	cmd := commandContext(ctx, c.ffmpeg, args...)
	if output, runErr := cmd.CombinedOutput(); runErr != nil {
		return nil, services.Wrap(services.ErrExternalTool, "normalize", "ffmpeg",
			outputTail(output), runErr)
	}

	return &NormalizeResult{
		OutputPath:      req.OutputPath,
		BitrateKbps:     bitrate,
		DurationSeconds: int(duration + 0.5),
	}, nil
}

// BitrateForDuration computes the AAC bitrate in kbps that fits the target
// file size over the given duration, never below the minimum.
func BitrateForDuration(targetSizeMB, minBitrateKbps int, durationSeconds float64) int {
	if durationSeconds <= 0 {
		return minBitrateKbps
	}
	bitrate := int(float64(targetSizeMB) * 8192 / durationSeconds)
	if bitrate < minBitrateKbps {
		return minBitrateKbps
	}
	return bitrate
}

func metadataTags(req NormalizeRequest) []string {
	var tags []string
	if req.Title != "" {
		tags = append(tags, "title="+req.Title)
	}
	if req.Artist != "" {
		tags = append(tags, "artist="+req.Artist)
	}
	if req.Album != "" {
		tags = append(tags, "album="+req.Album)
	}
	if req.Genre != "" {
		tags = append(tags, "genre="+req.Genre)
	}
	if req.Track > 0 {
		tags = append(tags, "track="+strconv.Itoa(req.Track))
	}
	if req.Date != "" {
		tags = append(tags, "date="+req.Date)
	}
	return tags
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
