package dictionary

import (
	_ "embed"
	"strings"
)

//go:embed lexicon.txt
var embeddedLexicon string

// Lexicon answers whether a token is an ordinary English word. It combines
// an embedded common-word list with an optional user-supplied file so
// campaign-specific terms stand out as candidates instead of typos.
type Lexicon struct {
	words map[string]struct{}
}

// NewLexicon builds a lexicon from the embedded word list plus the optional
// extra file. Pass an empty path to use the embedded list alone.
func NewLexicon(extraPath string) (*Lexicon, error) {
	l := &Lexicon{words: make(map[string]struct{}, 2048)}
	l.addAll(embeddedLexicon)
	if extraPath != "" {
		extra, err := readWordFile(extraPath)
		if err != nil {
			return nil, err
		}
		for _, word := range extra {
			l.words[fold(word)] = struct{}{}
		}
	}
	return l, nil
}

// Contains reports whether the token is a known English word,
// case-insensitively.
func (l *Lexicon) Contains(token string) bool {
	_, ok := l.words[fold(token)]
	return ok
}

func (l *Lexicon) addAll(content string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		l.words[fold(line)] = struct{}{}
	}
}
