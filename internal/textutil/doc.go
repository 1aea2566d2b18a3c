// Package textutil provides filename sanitization and timestamp formatting
// helpers shared across the pipeline.
package textutil
