// Command scribe manages tabletop session recordings: normalizing audio,
// transcribing it, applying campaign dictionaries, and generating summary
// artifacts.
package main
