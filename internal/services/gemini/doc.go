// Package gemini talks to the Gemini generateContent API for transcript
// summaries, chapter lists, and episode subtitles. Transient HTTP failures
// are retried with capped exponential backoff; safety-filtered responses
// are surfaced as blocked and never retried.
package gemini
