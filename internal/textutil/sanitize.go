package textutil

import "strings"

// SanitizeFileName makes a session title safe to embed in an artifact
// filename. Path separators and drive-ish punctuation become dashes, shell
// metacharacters that commonly break tooling are dropped, and surrounding
// whitespace is trimmed. Everything else, including part markers like
// "(Part 2)", passes through so related recordings stay distinguishable.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*':
			b.WriteByte('-')
		case '?', '"', '<', '>', '|':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
