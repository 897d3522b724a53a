// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// MatchRange locates a case-insensitive substring match of keyword in
// text, in rune offsets [Start, End). Found is false when the trimmed
// keyword is empty or does not occur.
type MatchRange struct {
	Start int
	End   int
	Found bool
}

// FindMatch runs fzf's exact matcher over text. The comparison is
// case-insensitive and does not normalize accents, which keeps it in
// agreement with a lowercase substring test.
func FindMatch(text, keyword string) MatchRange {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || text == "" {
		return MatchRange{}
	}

	// fzf expects the pattern already folded when matching
	// case-insensitively.
	pattern := []rune(keyword)
	for index, character := range pattern {
		pattern[index] = unicode.ToLower(character)
	}

	chars := util.ToChars([]byte(text))
	result, _ := algo.ExactMatchNaive(false, false, true, &chars, pattern, false, nil)
	start, end := int(result.Start), int(result.End)
	if start < 0 || end <= start {
		return MatchRange{}
	}
	return MatchRange{Start: start, End: end, Found: true}
}

// HighlightMatch renders text with base, drawing the first keyword
// match with match instead. Without a match the whole text is
// rendered with base.
func HighlightMatch(text, keyword string, base, match lipgloss.Style) string {
	found := FindMatch(text, keyword)
	if !found.Found {
		return base.Render(text)
	}

	runes := []rune(text)
	if found.End > len(runes) {
		return base.Render(text)
	}

	var builder strings.Builder
	if found.Start > 0 {
		builder.WriteString(base.Render(string(runes[:found.Start])))
	}
	builder.WriteString(match.Render(string(runes[found.Start:found.End])))
	if found.End < len(runes) {
		builder.WriteString(base.Render(string(runes[found.End:])))
	}
	return builder.String()
}
