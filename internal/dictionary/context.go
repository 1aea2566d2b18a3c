package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"
)

const (
	wordListHeader = "# Campaign word list: one proper noun per line.\n" +
		"# Lines starting with # are ignored.\n"
	correctionsHeader = "# Campaign corrections: misspelling -> replacement.\n" +
		"# An empty replacement marks an unresolved entry.\n"
)

// Rule is one correction-file entry. An empty To marks an entry awaiting
// human resolution.
type Rule struct {
	From string
	To   string
}

// Resolved reports whether the rule carries a replacement.
func (r Rule) Resolved() bool { return r.To != "" }

// Context holds a campaign's word list and correction rules together with
// the lookup structures derived from them. Load reads both files eagerly;
// mutating methods rewrite the files and reload.
type Context struct {
	wordListPath    string
	correctionsPath string

	words      []string
	wordSet    map[string]struct{}
	rules      []Rule
	ruleExact  map[string]string
	ruleFolded map[string]string
	ruleKeys   map[string]struct{}
	phonetic   map[string]string
}

// Load reads the campaign dictionary files, creating either file with a
// header comment when it does not exist yet.
func Load(wordListPath, correctionsPath string) (*Context, error) {
	c := &Context{
		wordListPath:    wordListPath,
		correctionsPath: correctionsPath,
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads both files and rebuilds the lookup structures.
func (c *Context) Reload() error {
	if err := ensureFile(c.wordListPath, wordListHeader); err != nil {
		return err
	}
	if err := ensureFile(c.correctionsPath, correctionsHeader); err != nil {
		return err
	}
	words, err := readWordFile(c.wordListPath)
	if err != nil {
		return err
	}
	rules, err := readRuleFile(c.correctionsPath)
	if err != nil {
		return err
	}

	c.words = words
	c.wordSet = make(map[string]struct{}, len(words))
	c.phonetic = make(map[string]string, len(words))
	for _, word := range words {
		c.wordSet[fold(word)] = struct{}{}
		primary, secondary := matchr.DoubleMetaphone(word)
		for _, code := range []string{primary, secondary} {
			if code == "" {
				continue
			}
			if _, exists := c.phonetic[code]; !exists {
				c.phonetic[code] = word
			}
		}
	}

	c.rules = rules
	c.ruleExact = make(map[string]string, len(rules))
	c.ruleFolded = make(map[string]string, len(rules))
	c.ruleKeys = make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		c.ruleKeys[fold(rule.From)] = struct{}{}
		if !rule.Resolved() {
			continue
		}
		if _, exists := c.ruleExact[rule.From]; !exists {
			c.ruleExact[rule.From] = rule.To
		}
		folded := fold(rule.From)
		if _, exists := c.ruleFolded[folded]; !exists {
			c.ruleFolded[folded] = rule.To
		}
	}
	return nil
}

// Words returns the custom word list in file order.
func (c *Context) Words() []string {
	out := make([]string, len(c.words))
	copy(out, c.words)
	return out
}

// ContainsWord reports whether the token matches a custom word,
// case-insensitively.
func (c *Context) ContainsWord(token string) bool {
	_, ok := c.wordSet[fold(token)]
	return ok
}

// Replacement looks the token up in the resolved correction rules, exact
// match first, then case-folded.
func (c *Context) Replacement(token string) (string, bool) {
	if to, ok := c.ruleExact[token]; ok {
		return to, true
	}
	if to, ok := c.ruleFolded[fold(token)]; ok {
		return to, true
	}
	return "", false
}

// HasRule reports whether the token already appears as a correction key,
// resolved or not.
func (c *Context) HasRule(token string) bool {
	_, ok := c.ruleKeys[fold(token)]
	return ok
}

// PhoneticMatch maps the token through the word-list phonetic index.
func (c *Context) PhoneticMatch(token string) (string, bool) {
	primary, secondary := matchr.DoubleMetaphone(token)
	if word, ok := c.phonetic[primary]; ok && primary != "" {
		return word, true
	}
	if word, ok := c.phonetic[secondary]; ok && secondary != "" {
		return word, true
	}
	return "", false
}

// Rules returns every correction rule in file order, unresolved entries
// included.
func (c *Context) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// AppendRules appends rules to the corrections file under a provenance
// comment and reloads. Entries are sorted by key; duplicates of existing
// keys are skipped.
func (c *Context) AppendRules(rules []Rule, source string) error {
	fresh := make([]Rule, 0, len(rules))
	seen := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		from := strings.TrimSpace(rule.From)
		if from == "" || c.HasRule(from) {
			continue
		}
		folded := fold(from)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		fresh = append(fresh, Rule{From: from, To: strings.TrimSpace(rule.To)})
	}
	if len(fresh) == 0 {
		return nil
	}
	sort.Slice(fresh, func(i, j int) bool { return fold(fresh[i].From) < fold(fresh[j].From) })

	var b strings.Builder
	fmt.Fprintf(&b, "\n# Potential additions from %s (%s)\n", source, time.Now().Format("2006-01-02 15:04"))
	for _, rule := range fresh {
		fmt.Fprintf(&b, "%s -> %s\n", rule.From, rule.To)
	}
	if err := appendToFile(c.correctionsPath, b.String()); err != nil {
		return err
	}
	return c.Reload()
}

// RewriteRules replaces the corrections file with the given rules and
// reloads. Comments in the old file are not preserved.
func (c *Context) RewriteRules(rules []Rule) error {
	var b strings.Builder
	b.WriteString(correctionsHeader)
	for _, rule := range rules {
		fmt.Fprintf(&b, "%s -> %s\n", rule.From, rule.To)
	}
	if err := os.WriteFile(c.correctionsPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("rewrite corrections file: %w", err)
	}
	return c.Reload()
}

// AppendWords appends new entries to the custom word list under a
// provenance comment and reloads. Words already present are skipped.
func (c *Context) AppendWords(words []string, source string) error {
	fresh := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" || c.ContainsWord(word) {
			continue
		}
		folded := fold(word)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		fresh = append(fresh, word)
	}
	if len(fresh) == 0 {
		return nil
	}
	sort.Slice(fresh, func(i, j int) bool { return fold(fresh[i]) < fold(fresh[j]) })

	var b strings.Builder
	fmt.Fprintf(&b, "\n# Potential additions from %s (%s)\n", source, time.Now().Format("2006-01-02 15:04"))
	for _, word := range fresh {
		b.WriteString(word)
		b.WriteByte('\n')
	}
	if err := appendToFile(c.wordListPath, b.String()); err != nil {
		return err
	}
	return c.Reload()
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func ensureFile(path, header string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

func appendToFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return words, nil
}

func readRuleFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corrections file: %w", err)
	}
	defer f.Close()

	var rules []Rule
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		from, to, found := strings.Cut(line, "->")
		if !found {
			continue
		}
		from = strings.TrimSpace(from)
		if from == "" {
			continue
		}
		rules = append(rules, Rule{From: from, To: strings.TrimSpace(to)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corrections file: %w", err)
	}
	return rules, nil
}
