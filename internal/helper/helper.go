package helper

import (
	"strings"
)

// NormSymbol trims and upper-cases a ticker.
func NormSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// UniqueSymbols normalises symbols, drops blanks and keeps the first occurrence of each.
func UniqueSymbols(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = NormSymbol(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ParseSymbols splits a comma or whitespace separated list, e.g. "aapl, msft tsla".
func ParseSymbols(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	return UniqueSymbols(fields)
}
