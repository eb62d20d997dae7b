package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to truncated strings.
const Ellipsis = "..."

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateRunes keeps the first maxRunes characters and appends Ellipsis if anything was cut.
func (s *StringHelper) TruncateRunes(str string, maxRunes int) string {
	runes := []rune(str)
	if len(runes) <= maxRunes {
		return str
	}

	return string(runes[:maxRunes]) + Ellipsis
}

// TruncateWidth cuts str to at most maxWidth terminal columns, counting CJK characters
// as two columns.
func (s *StringHelper) TruncateWidth(str string, maxWidth int) string {
	if runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, Ellipsis)
}

// DisplayWidth returns the number of terminal columns str occupies.
func (s *StringHelper) DisplayWidth(str string) int {
	return runewidth.StringWidth(str)
}
