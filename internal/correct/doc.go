// Package correct applies campaign dictionaries to transcript text. It
// tokenizes lines into word and separator spans, runs each word through the
// correction cascade, and extracts unknown terms for dictionary upkeep.
package correct
