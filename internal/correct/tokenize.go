package correct

import "unicode"

// Span is one slice of input text: either a word or the separator run
// between words. Concatenating spans in order reproduces the input exactly.
type Span struct {
	Text string
	Word bool
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

// Tokenize splits text into alternating word and separator spans. Word
// spans are maximal runs of letters, digits, apostrophes, and hyphens.
func Tokenize(text string) []Span {
	var spans []Span
	start := 0
	inWord := false
	for i, r := range text {
		word := isWordRune(r)
		if i == 0 {
			inWord = word
			continue
		}
		if word != inWord {
			spans = append(spans, Span{Text: text[start:i], Word: inWord})
			start = i
			inWord = word
		}
	}
	if start < len(text) {
		spans = append(spans, Span{Text: text[start:], Word: inWord})
	}
	return spans
}

// lookupWorthy reports whether a word span contains at least one letter or
// digit. Bare apostrophe or hyphen runs are separators in disguise.
func lookupWorthy(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
