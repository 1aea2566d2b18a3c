package whisper

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Segment is one transcribed span with start and end times in seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// ParseTSV reads whisper-ctranslate2 segment output: a header row followed
// by start, end, and text columns with times in milliseconds. Malformed
// rows are skipped.
func ParseTSV(r io.Reader) ([]Segment, error) {
	var segments []Segment
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			if strings.HasPrefix(strings.ToLower(line), "start\t") {
				continue
			}
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		start, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			continue
		}
		text := strings.TrimSpace(fields[2])
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start: start / 1000,
			End:   end / 1000,
			Text:  text,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read segments: %w", err)
	}
	return segments, nil
}

// ReadTSV parses a segment file from disk.
func ReadTSV(path string) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open segment file: %w", err)
	}
	defer f.Close()
	return ParseTSV(f)
}
