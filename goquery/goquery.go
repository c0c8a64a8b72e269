// Package goquery implements the structure analysis and auto-selector
// engines on top of github.com/PuerkitoBio/goquery. The Analyzer scores
// candidate content regions of a parsed page and derives selector
// recommendations; the Detector applies a selector vocabulary to extract
// structured content.
package goquery

import (
	"math"
	"strings"
	"unicode/utf8"
)

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// normalizeText collapses all whitespace runs to single spaces and trims
// the result.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// countNonSpace returns the number of non-whitespace runes in s.
func countNonSpace(s string) int {
	n := 0
	for _, f := range strings.Fields(s) {
		n += utf8.RuneCountInString(f)
	}
	return n
}

// truncateRunes returns the first n runes of s, appending an ellipsis
// when s was longer. Truncation is rune-safe.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
