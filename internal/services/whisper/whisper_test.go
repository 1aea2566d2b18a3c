package whisper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sessionscribe/internal/services"
)

func TestParseTSV(t *testing.T) {
	input := strings.Join([]string{
		"start\tend\ttext",
		"0\t4200\tWelcome back to the table.",
		"4200\t9000\tLast time the party entered Barovia.",
		"garbage line",
		"9000\tnot-a-number\tdropped",
		"9000\t12000\t",
		"12000\t15500\tRoll initiative.",
	}, "\n")

	segments, err := ParseTSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTSV: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segments), segments)
	}
	if segments[0].Start != 0 || segments[0].End != 4.2 {
		t.Fatalf("segment 0 times = %v-%v", segments[0].Start, segments[0].End)
	}
	if segments[1].Text != "Last time the party entered Barovia." {
		t.Fatalf("segment 1 text = %q", segments[1].Text)
	}
	if segments[2].Start != 12 || segments[2].End != 15.5 {
		t.Fatalf("segment 2 times = %v-%v", segments[2].Start, segments[2].End)
	}
}

func TestParseTSVEmpty(t *testing.T) {
	segments, err := ParseTSV(strings.NewReader("start\tend\ttext\n"))
	if err != nil {
		t.Fatalf("ParseTSV: %v", err)
	}
	if len(segments) != 0 {
		t.Fatalf("expected no segments, got %+v", segments)
	}
}

func TestTranscribeMissingBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/nonexistent/whisper"))
	_, err := cli.Transcribe(context.Background(), "in.m4a", t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestTranscribeValidation(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Transcribe(context.Background(), "", "out", nil); err == nil {
		t.Fatal("expected error for missing audio path")
	}
	if _, err := cli.Transcribe(context.Background(), "in.m4a", "", nil); err == nil {
		t.Fatal("expected error for missing output dir")
	}
}
