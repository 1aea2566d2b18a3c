package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

const sectionSeparator = "\n\n==========\n\n"

// CombineTranscripts concatenates every processed transcript into one
// campaign-wide file with an episode index at the top, ordered by recorded
// date then episode number. Returns the output path and episode count.
func (p *Pipeline) CombineTranscripts(ctx context.Context) (string, int, error) {
	records, err := p.store.List(ctx)
	if err != nil {
		return "", 0, err
	}

	var index strings.Builder
	var sections []string
	count := 0
	for _, rec := range records {
		if rec.TranscriptionFile == "" {
			continue
		}
		data, err := os.ReadFile(p.camp.Abs(rec.TranscriptionFile))
		if err != nil {
			return "", 0, fmt.Errorf("read transcript for episode %d: %w", rec.EpisodeNumber, err)
		}
		fmt.Fprintf(&index, "#%d - %s - %s\n", rec.EpisodeNumber, rec.Title, displayDate(rec.RecordedDate))
		sections = append(sections, strings.TrimRight(string(data), "\n"))
		count++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s - Transcriptions Combined\n\n", p.camp.Name())
	b.WriteString(index.String())
	for _, section := range sections {
		b.WriteString(sectionSeparator)
		b.WriteString(section)
	}
	b.WriteByte('\n')

	outputPath := p.camp.CombinedTranscriptPath()
	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return "", 0, fmt.Errorf("write combined transcript: %w", err)
	}
	return outputPath, count, nil
}

// CollateSummaries concatenates every episode summary into one file in
// catalog order. Returns the output path and episode count.
func (p *Pipeline) CollateSummaries(ctx context.Context) (string, int, error) {
	records, err := p.store.List(ctx)
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s - Collated Summaries\n", p.camp.Name())
	count := 0
	for _, rec := range records {
		if rec.SummaryFile == "" {
			continue
		}
		data, err := os.ReadFile(p.camp.Abs(rec.SummaryFile))
		if err != nil {
			return "", 0, fmt.Errorf("read summary for episode %d: %w", rec.EpisodeNumber, err)
		}
		b.WriteString(sectionSeparator)
		b.WriteString(TranscriptHeader(rec.Title, rec.EpisodeNumber, rec.RecordedDate))
		b.WriteString("\n\n")
		b.WriteString(strings.TrimRight(string(data), "\n"))
		count++
	}
	b.WriteByte('\n')

	outputPath := p.camp.CollatedSummariesPath()
	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return "", 0, fmt.Errorf("write collated summaries: %w", err)
	}
	return outputPath, count, nil
}

func displayDate(recordedDate string) string {
	if parsed, err := time.Parse(recordedDateLayout, recordedDate); err == nil {
		return parsed.Format(headerDateLayout)
	}
	return recordedDate
}
