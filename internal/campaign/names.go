package campaign

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sessionscribe/internal/textutil"
)

const (
	sessionDateLayout = "2006_01_02"
	normalizedSuffix  = "_norm"
)

var (
	datePrefixRe = regexp.MustCompile(`^(\d{4}_\d{2}_\d{2})_?`)
	partSuffixRe = regexp.MustCompile(`(?i)\s*[-–]?\s*\(?part\s+(\d+)\)?\s*$`)
	parenTailRe  = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

// NormalizedAudioName derives the normalized artifact filename for a session:
// YYYY_MM_DD_<title>_norm.m4a. Part tokens in the title survive so multi-part
// recordings keep distinct filenames.
func NormalizedAudioName(date time.Time, title string) string {
	sanitized := textutil.SanitizeFileName(title)
	sanitized = spaceRunRe.ReplaceAllString(sanitized, "_")
	if sanitized == "" {
		sanitized = "session"
	}
	return date.Format(sessionDateLayout) + "_" + sanitized + normalizedSuffix + ".m4a"
}

// TranscriptBase strips the extension from a normalized audio filename,
// yielding the shared stem for transcript-derived artifacts.
func TranscriptBase(normalizedAudioName string) string {
	base := filepath.Base(normalizedAudioName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RawTranscriptName names the intermediate time-coded output of transcription.
func RawTranscriptName(base string) string { return base + ".tsv" }

// RevisedTranscriptName names the corrected transcript.
func RevisedTranscriptName(base string) string { return base + "_revised.txt" }

// SummaryName names the generated summary artifact.
func SummaryName(base string) string { return base + "_revised_summary.txt" }

// ChaptersName names the generated chapter-list artifact.
func ChaptersName(base string) string { return base + "_revised_chapters.txt" }

// SubtitleName names the generated podcast-subtitle artifact.
func SubtitleName(base string) string { return base + "_revised_subtitle.txt" }

// BaseTitle strips part markers and trailing parentheticals from a title so
// multi-part recordings group together.
func BaseTitle(title string) string {
	base := strings.TrimSpace(title)
	for {
		next := partSuffixRe.ReplaceAllString(base, "")
		next = parenTailRe.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == base || next == "" {
			if next != "" {
				base = next
			}
			break
		}
		base = next
	}
	return base
}

// PartNumber extracts a trailing part marker from a title, when present.
func PartNumber(title string) (int, bool) {
	match := partSuffixRe.FindStringSubmatch(strings.TrimSpace(title))
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SessionDateFromName parses a leading YYYY_MM_DD date from a filename.
func SessionDateFromName(name string) (time.Time, bool) {
	match := datePrefixRe.FindStringSubmatch(filepath.Base(name))
	if match == nil {
		return time.Time{}, false
	}
	date, err := time.Parse(sessionDateLayout, match[1])
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// TitleFromFileName recovers a human title from a session filename by
// stripping the date prefix, extension, and normalized suffix, and turning
// underscores back into spaces.
func TitleFromFileName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, normalizedSuffix)
	base = datePrefixRe.ReplaceAllString(base, "")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}

// IsNormalizedAudio reports whether a filename looks like a normalized
// artifact produced by the transcode stage.
func IsNormalizedAudio(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), normalizedSuffix)
}
