package pipeline

import (
	"strconv"
	"strings"
	"time"

	"sessionscribe/internal/services/whisper"
	"sessionscribe/internal/textutil"
)

const (
	transcriptSeparator = "   |   "
	recordedDateLayout  = "2006-01-02"
	headerDateLayout    = "02/01/2006"
)

// TranscriptHeader formats the first line of a revised transcript:
// Title - #N - DD/MM/YYYY.
func TranscriptHeader(title string, number int, recordedDate string) string {
	display := recordedDate
	if parsed, err := time.Parse(recordedDateLayout, recordedDate); err == nil {
		display = parsed.Format(headerDateLayout)
	}
	return title + " - #" + strconv.Itoa(number) + " - " + display
}

// RenderTranscript lays out corrected segments as a revised transcript:
// the header, a blank line, then one HH:MM:SS-stamped line per segment.
func RenderTranscript(header string, segments []whisper.Segment) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		b.WriteString(textutil.FormatClock(segment.Start))
		b.WriteString(transcriptSeparator)
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}

// TranscriptAfter drops time-stamped lines that start before the cutoff,
// keeping the header. Session-opening chatter rarely belongs in a summary.
func TranscriptAfter(content string, skipMinutes int) string {
	if skipMinutes <= 0 {
		return content
	}
	cutoff := skipMinutes * 60
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		stamp, _, found := strings.Cut(line, "|")
		if found {
			if seconds, ok := textutil.ParseClock(strings.TrimSpace(stamp)); ok && seconds < cutoff {
				continue
			}
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
