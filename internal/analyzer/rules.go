// Package analyzer derives tags (scam type, location, key features, anti-fraud techniques)
// from the free-form summary of a case article.
package analyzer

import (
	"regexp"
	"strings"
)

// Rule extracts a value from text, reporting whether it matched.
type Rule interface {
	Name() string
	Match(text string) (string, bool)
}

// FirstMatch evaluates rules in order and returns the value of the first rule that
// matches, or "" when none does.
func FirstMatch(rules []Rule, text string) string {
	for _, rule := range rules {
		if value, ok := rule.Match(text); ok {
			return value
		}
	}

	return ""
}

// ContainsRule matches when the text contains the label and yields the label itself.
type ContainsRule string

// Name returns the label.
func (r ContainsRule) Name() string {
	return string(r)
}

// Match reports whether text contains the label.
func (r ContainsRule) Match(text string) (string, bool) {
	if r == "" || !strings.Contains(text, string(r)) {
		return "", false
	}

	return string(r), true
}

// PatternRule matches a regular expression and yields the first capture group of the
// leftmost match.
type PatternRule struct {
	re   *regexp.Regexp
	name string
}

// NewPatternRule compiles pattern, which must have at least one capture group.
func NewPatternRule(name, pattern string) PatternRule {
	return PatternRule{name: name, re: regexp.MustCompile(pattern)}
}

// Name returns the rule name.
func (r PatternRule) Name() string {
	return r.name
}

// Match returns the first capture of the leftmost match.
func (r PatternRule) Match(text string) (string, bool) {
	m := r.re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}

	return m[1], true
}

// All returns the first capture of up to limit non-overlapping matches, in reading order.
func (r PatternRule) All(text string, limit int) []string {
	matches := r.re.FindAllStringSubmatch(text, limit)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 {
			out = append(out, m[1])
		}
	}

	return out
}
