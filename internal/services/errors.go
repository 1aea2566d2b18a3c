package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks failures from subprocess collaborators (ffmpeg,
	// the transcription engine). Retryable by re-running the same stage.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks bad or missing input for an operation.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a missing file or repository record.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks a failure worth retrying automatically.
	ErrTransient = errors.New("transient failure")
	// ErrBlocked marks a summarizer response rejected by a safety filter.
	// Distinct from ErrTransient: retrying the same request will not help.
	ErrBlocked = errors.New("content blocked")
	// ErrUserCancelled marks an operation abandoned at a prompt.
	ErrUserCancelled = errors.New("cancelled by user")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether re-running the same command can succeed without
// any other change. Used by the CLI when describing a failure.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrBlocked),
		errors.Is(err, ErrUserCancelled):
		return false
	default:
		return true
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
