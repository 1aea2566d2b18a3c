// Package logging constructs slog loggers from configuration and provides
// attribute helpers shared across the pipeline.
package logging
