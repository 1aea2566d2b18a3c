package textutil_test

import (
	"testing"

	"sessionscribe/internal/textutil"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"The Sunken Citadel: Part 2", "The Sunken Citadel- Part 2"},
		{"  what/ever  ", "what-ever"},
		{"a*b?c", "a-bc"},
		{"The Mists (Part 2)", "The Mists (Part 2)"},
		{"?\"<>|", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00"},
		{-3, "00:00:00"},
		{61.9, "00:01:01"},
		{3661, "01:01:01"},
		{6 * 3600, "06:00:00"},
	}
	for _, tc := range cases {
		if got := textutil.FormatClock(tc.in); got != tc.want {
			t.Fatalf("FormatClock(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseClockRoundTrip(t *testing.T) {
	secs, ok := textutil.ParseClock("01:02:03")
	if !ok || secs != 3723 {
		t.Fatalf("ParseClock = %d, %v", secs, ok)
	}
	if _, ok := textutil.ParseClock("1:02"); ok {
		t.Fatal("expected failure for malformed clock value")
	}
	if _, ok := textutil.ParseClock("aa:bb:cc"); ok {
		t.Fatal("expected failure for non-numeric clock value")
	}
}
