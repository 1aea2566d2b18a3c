package services_test

import (
	"errors"
	"strings"
	"testing"

	"sessionscribe/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "normalize", "run ffmpeg", "loudnorm failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
	if !strings.Contains(err.Error(), "normalize: run ffmpeg: loudnorm failed") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "summarize", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient default, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect bool
	}{
		{"external tool", services.Wrap(services.ErrExternalTool, "transcribe", "", "", nil), true},
		{"transient", services.Wrap(services.ErrTransient, "summarize", "", "", nil), true},
		{"blocked", services.Wrap(services.ErrBlocked, "summarize", "", "", nil), false},
		{"validation", services.Wrap(services.ErrValidation, "register", "", "", nil), false},
		{"cancelled", services.ErrUserCancelled, false},
	}
	for _, tc := range cases {
		if got := services.Retryable(tc.err); got != tc.expect {
			t.Fatalf("%s: Retryable=%v, want %v", tc.name, got, tc.expect)
		}
	}
}
