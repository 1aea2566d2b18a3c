package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestContext(t *testing.T, words, corrections string) *Context {
	t.Helper()
	dir := t.TempDir()
	wordsPath := filepath.Join(dir, "wack_dictionary.txt")
	rulesPath := filepath.Join(dir, "corrections.txt")
	if words != "" {
		if err := os.WriteFile(wordsPath, []byte(words), 0o644); err != nil {
			t.Fatalf("write words: %v", err)
		}
	}
	if corrections != "" {
		if err := os.WriteFile(rulesPath, []byte(corrections), 0o644); err != nil {
			t.Fatalf("write corrections: %v", err)
		}
	}
	ctx, err := Load(wordsPath, rulesPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ctx
}

func TestLoadCreatesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	wordsPath := filepath.Join(dir, "wack_dictionary.txt")
	rulesPath := filepath.Join(dir, "corrections.txt")
	if _, err := Load(wordsPath, rulesPath); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, path := range []string{wordsPath, rulesPath} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected %s to be created: %v", path, err)
		}
		if !strings.HasPrefix(string(data), "#") {
			t.Fatalf("expected header comment in %s, got %q", path, data)
		}
	}
}

func TestContainsWordCaseInsensitive(t *testing.T) {
	ctx := newTestContext(t, "Githyanki\nBarovia\n", "")
	for _, token := range []string{"Githyanki", "githyanki", "GITHYANKI"} {
		if !ctx.ContainsWord(token) {
			t.Fatalf("expected %q to match word list", token)
		}
	}
	if ctx.ContainsWord("Strahd") {
		t.Fatal("unexpected word-list match")
	}
}

func TestReplacementExactBeforeFolded(t *testing.T) {
	ctx := newTestContext(t, "", "teh -> the\nTeh -> The\nmystery -> \n")
	if got, ok := ctx.Replacement("Teh"); !ok || got != "The" {
		t.Fatalf("exact lookup = %q, %v", got, ok)
	}
	if got, ok := ctx.Replacement("TEH"); !ok || got != "the" {
		t.Fatalf("folded lookup = %q, %v", got, ok)
	}
	if _, ok := ctx.Replacement("mystery"); ok {
		t.Fatal("unresolved rule should not produce a replacement")
	}
	if !ctx.HasRule("Mystery") {
		t.Fatal("unresolved rule should still register as a key")
	}
}

func TestPhoneticMatch(t *testing.T) {
	ctx := newTestContext(t, "Strahd\n", "")
	if word, ok := ctx.PhoneticMatch("Strad"); !ok || word != "Strahd" {
		t.Fatalf("PhoneticMatch = %q, %v", word, ok)
	}
	if _, ok := ctx.PhoneticMatch("banana"); ok {
		t.Fatal("unexpected phonetic match")
	}
}

func TestAppendRulesSkipsKnownKeysAndReloads(t *testing.T) {
	ctx := newTestContext(t, "", "teh -> the\n")
	err := ctx.AppendRules([]Rule{
		{From: "zephyrim"},
		{From: "teh", To: "the"},
		{From: "aasimar", To: "Aasimar"},
		{From: "Zephyrim"},
	}, "session one")
	if err != nil {
		t.Fatalf("AppendRules: %v", err)
	}
	if got, ok := ctx.Replacement("aasimar"); !ok || got != "Aasimar" {
		t.Fatalf("expected appended rule to be live, got %q, %v", got, ok)
	}
	if !ctx.HasRule("zephyrim") {
		t.Fatal("expected proposal key to be live")
	}
	rules := ctx.Rules()
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d: %v", len(rules), rules)
	}
	// Appended entries are sorted; the pre-existing rule stays first.
	if rules[1].From != "aasimar" || rules[2].From != "zephyrim" {
		t.Fatalf("unexpected rule order: %v", rules)
	}

	data, err := os.ReadFile(ctx.correctionsPath)
	if err != nil {
		t.Fatalf("read corrections: %v", err)
	}
	if !strings.Contains(string(data), "# Potential additions from session one") {
		t.Fatalf("missing provenance comment in %q", data)
	}
}

func TestRewriteRules(t *testing.T) {
	ctx := newTestContext(t, "", "teh -> the\nmystery -> \n")
	rules := ctx.Rules()
	for i := range rules {
		if rules[i].From == "mystery" {
			rules[i].To = "Mystery Manor"
		}
	}
	if err := ctx.RewriteRules(rules); err != nil {
		t.Fatalf("RewriteRules: %v", err)
	}
	if got, ok := ctx.Replacement("mystery"); !ok || got != "Mystery Manor" {
		t.Fatalf("expected resolved rule after rewrite, got %q, %v", got, ok)
	}
	if got, ok := ctx.Replacement("teh"); !ok || got != "the" {
		t.Fatalf("expected surviving rule after rewrite, got %q, %v", got, ok)
	}
}

func TestAppendWords(t *testing.T) {
	ctx := newTestContext(t, "Barovia\n", "")
	if err := ctx.AppendWords([]string{"Vallaki", "barovia", "Vallaki"}, "manual"); err != nil {
		t.Fatalf("AppendWords: %v", err)
	}
	if !ctx.ContainsWord("vallaki") {
		t.Fatal("expected appended word to be live")
	}
	if got := len(ctx.Words()); got != 2 {
		t.Fatalf("expected 2 words, got %d: %v", got, ctx.Words())
	}
}

func TestLexicon(t *testing.T) {
	lex, err := NewLexicon("")
	if err != nil {
		t.Fatalf("NewLexicon: %v", err)
	}
	for _, word := range []string{"hello", "World", "the", "don't", "DON'T"} {
		if !lex.Contains(word) {
			t.Fatalf("expected lexicon to contain %q", word)
		}
	}
	if lex.Contains("Githyanki") {
		t.Fatal("proper noun should not be in the base lexicon")
	}

	extra := filepath.Join(t.TempDir(), "extra.txt")
	if err := os.WriteFile(extra, []byte("# extras\nquixotic\n"), 0o644); err != nil {
		t.Fatalf("write extra: %v", err)
	}
	lex, err = NewLexicon(extra)
	if err != nil {
		t.Fatalf("NewLexicon with extra: %v", err)
	}
	if !lex.Contains("Quixotic") {
		t.Fatal("expected extra file word to be present")
	}
}
