package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sessionscribe/internal/services"
)

func TestBitrateForDuration(t *testing.T) {
	cases := []struct {
		name     string
		targetMB int
		minKbps  int
		duration float64
		want     int
	}{
		{"hour-long session", 50, 64, 3600, 113},
		{"short recording hits floor at min", 50, 64, 36000, 64},
		{"zero duration falls back to min", 50, 64, 0, 64},
	}
	for _, tc := range cases {
		if got := BitrateForDuration(tc.targetMB, tc.minKbps, tc.duration); got != tc.want {
			t.Fatalf("%s: BitrateForDuration = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestMetadataTags(t *testing.T) {
	tags := metadataTags(NormalizeRequest{
		Title:  "The Sunken Citadel",
		Artist: "The Party",
		Album:  "Curse of Strahd",
		Genre:  "Podcast",
		Track:  7,
		Date:   "2024-01-08",
	})
	want := []string{
		"title=The Sunken Citadel",
		"artist=The Party",
		"album=Curse of Strahd",
		"genre=Podcast",
		"track=7",
		"date=2024-01-08",
	}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v", tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tag %d = %q, want %q", i, tags[i], want[i])
		}
	}
	if got := metadataTags(NormalizeRequest{}); len(got) != 0 {
		t.Fatalf("empty request should produce no tags, got %v", got)
	}
}

func TestDurationMissingBinary(t *testing.T) {
	cli := NewCLI(WithFFprobeBinary("/nonexistent/ffprobe"))
	_, err := cli.Duration(context.Background(), "in.wav")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestOutputTail(t *testing.T) {
	if got := outputTail(nil); got != "no output" {
		t.Fatalf("outputTail(nil) = %q", got)
	}
	long := strings.Repeat("x", 2000)
	got := outputTail([]byte(long))
	if len(got) > 810 || !strings.HasPrefix(got, "...") {
		t.Fatalf("tail not truncated: %d chars", len(got))
	}
}
