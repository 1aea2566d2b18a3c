// Package whisper wraps the whisper-ctranslate2 command line transcriber
// and parses the tab-separated segment files it produces.
package whisper
