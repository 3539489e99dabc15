package core

import (
	"strings"
	"unicode"
)

// NormalizeText lowercases text and collapses runs of whitespace to a
// single space. Keyword matching and milestone detection both operate
// on normalized text.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Tokenize splits text into lowercase alphanumeric tokens, dropping
// tokens of length one or less. An empty result means the text carries
// no searchable keywords.
func Tokenize(text string) []string {
	normalized := NormalizeText(text)
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) > 1 {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// Truncate shortens s to maxLen runes, appending "..." when truncated.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
