package textutil

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatClock renders a second count as HH:MM:SS. Negative and unparseable
// values collapse to 00:00:00.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// ParseClock converts an HH:MM:SS timestamp back to seconds.
func ParseClock(value string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, false
	}
	var fields [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, false
		}
		fields[i] = n
	}
	return fields[0]*3600 + fields[1]*60 + fields[2], true
}
