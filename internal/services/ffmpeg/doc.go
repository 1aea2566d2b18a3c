// Package ffmpeg wraps the ffmpeg and ffprobe binaries for loudness
// normalization and duration probing of session recordings.
package ffmpeg
