// Package pipeline orchestrates the per-episode processing chain:
// normalize, transcribe, text-process, then the generated artifacts
// (summary, chapters, subtitle). Stage completion is recorded in the
// episode store only after the artifact exists on disk.
package pipeline
