package correct

import (
	"sort"
	"unicode"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"

	"sessionscribe/internal/dictionary"
)

// Proposal partitions unknown transcript terms by how close they sit to the
// campaign word list. AutoRules scored at or above the threshold and can be
// applied without review; Candidates scored below it and need a human.
type Proposal struct {
	AutoRules  []dictionary.Rule
	Candidates []string
}

// Analyze extracts unknown terms from text and fuzzy-matches each against
// the campaign word list. The threshold is a percentage; similarity is
// Jaro-Winkler scaled to 0-100.
func Analyze(dict *dictionary.Context, lex *dictionary.Lexicon, text string, threshold float64) Proposal {
	unknown := unknownTerms(dict, lex, text)
	words := dict.Words()

	var p Proposal
	for _, token := range unknown {
		word, score := bestMatch(token, words)
		if word != "" && score >= threshold {
			p.AutoRules = append(p.AutoRules, dictionary.Rule{From: token, To: word})
		} else {
			p.Candidates = append(p.Candidates, token)
		}
	}
	return p
}

// ResolveEmptyRules fuzzy-matches unresolved correction entries against the
// word list and fills those scoring at or above the threshold, rewriting
// the corrections file when anything changed. Returns the number filled.
func ResolveEmptyRules(dict *dictionary.Context, threshold float64) (int, error) {
	rules := dict.Rules()
	words := dict.Words()
	filled := 0
	for i, rule := range rules {
		if rule.Resolved() {
			continue
		}
		word, score := bestMatch(rule.From, words)
		if word != "" && score >= threshold {
			rules[i].To = word
			filled++
		}
	}
	if filled == 0 {
		return 0, nil
	}
	if err := dict.RewriteRules(rules); err != nil {
		return 0, err
	}
	return filled, nil
}

// unknownTerms lists word tokens not covered by the word list, the
// correction rules, or the general lexicon. First occurrence wins;
// tokens without a letter are skipped.
func unknownTerms(dict *dictionary.Context, lex *dictionary.Lexicon, text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, span := range Tokenize(text) {
		if !span.Word || !hasLetter(span.Text) {
			continue
		}
		token := span.Text
		folded := fold(token)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		if dict.ContainsWord(token) || dict.HasRule(token) || lex.Contains(token) {
			continue
		}
		out = append(out, token)
	}
	sort.Slice(out, func(i, j int) bool { return fold(out[i]) < fold(out[j]) })
	return out
}

func bestMatch(token string, words []string) (string, float64) {
	best := ""
	bestScore := -1.0
	folded := fold(token)
	for _, word := range words {
		score := matchr.JaroWinkler(folded, fold(word), false) * 100
		if score > bestScore {
			best, bestScore = word, score
		}
	}
	if best == "" {
		return "", 0
	}
	return best, bestScore
}

func hasLetter(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return cases.Fold().String(s)
}
