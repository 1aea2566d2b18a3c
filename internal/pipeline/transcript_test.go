package pipeline

import (
	"strings"
	"testing"

	"sessionscribe/internal/services/whisper"
)

func TestTranscriptHeader(t *testing.T) {
	got := TranscriptHeader("The Mists", 1, "2024-01-01")
	if got != "The Mists - #1 - 01/01/2024" {
		t.Fatalf("TranscriptHeader = %q", got)
	}
	// An unparseable date is kept verbatim rather than dropped.
	got = TranscriptHeader("The Mists", 2, "sometime")
	if got != "The Mists - #2 - sometime" {
		t.Fatalf("TranscriptHeader = %q", got)
	}
}

func TestRenderTranscript(t *testing.T) {
	segments := []whisper.Segment{
		{Start: 0, End: 4.2, Text: "Welcome back."},
		{Start: 4.2, End: 9, Text: "   "},
		{Start: 3723, End: 3730, Text: "One hour in."},
	}
	got := RenderTranscript("The Mists - #1 - 01/01/2024", segments)
	want := "The Mists - #1 - 01/01/2024\n\n" +
		"00:00:00   |   Welcome back.\n" +
		"01:02:03   |   One hour in.\n"
	if got != want {
		t.Fatalf("RenderTranscript = %q, want %q", got, want)
	}
}

func TestTranscriptAfter(t *testing.T) {
	content := "The Mists - #1 - 01/01/2024\n\n" +
		"00:00:10   |   Table chatter.\n" +
		"00:31:00   |   The adventure begins.\n"
	got := TranscriptAfter(content, 30)
	if strings.Contains(got, "Table chatter") {
		t.Fatalf("early line survived: %q", got)
	}
	if !strings.Contains(got, "The adventure begins.") {
		t.Fatalf("late line dropped: %q", got)
	}
	if !strings.Contains(got, "The Mists - #1") {
		t.Fatalf("header dropped: %q", got)
	}
	if TranscriptAfter(content, 0) != content {
		t.Fatal("zero skip should be identity")
	}
}
