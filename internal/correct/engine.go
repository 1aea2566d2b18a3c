package correct

import (
	"strings"

	"sessionscribe/internal/dictionary"
)

// Engine rewrites text using a campaign's dictionary context. Each word
// token passes through a fixed cascade: custom word (kept as written),
// correction rule, phonetic match against the word list, then passthrough.
type Engine struct {
	dict *dictionary.Context
}

// NewEngine builds an engine over the given dictionary context.
func NewEngine(dict *dictionary.Context) *Engine {
	return &Engine{dict: dict}
}

// CorrectToken runs a single word token through the cascade.
func (e *Engine) CorrectToken(token string) string {
	if e.dict.ContainsWord(token) {
		return token
	}
	if to, ok := e.dict.Replacement(token); ok {
		return to
	}
	if word, ok := e.dict.PhoneticMatch(token); ok {
		return word
	}
	return token
}

// CorrectText rewrites every word token in text, leaving separators
// untouched. With an empty dictionary the output equals the input.
func (e *Engine) CorrectText(text string) string {
	spans := Tokenize(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, span := range spans {
		if span.Word && lookupWorthy(span.Text) {
			b.WriteString(e.CorrectToken(span.Text))
		} else {
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

// CorrectLines rewrites each line of a transcript independently.
func (e *Engine) CorrectLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = e.CorrectText(line)
	}
	return out
}
