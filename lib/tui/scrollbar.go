// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Scroll is a viewport over whole rows of content: the item grid
// scrolls by card rows, not by terminal lines.
type Scroll struct {
	Total   int // Rows of content.
	Visible int // Rows that fit in the viewport.
	Offset  int // First visible row.
}

// Overflows reports whether some content is out of view.
func (s Scroll) Overflows() bool {
	return s.Visible > 0 && s.Total > s.Visible
}

// Clamp keeps Offset within [0, Total-Visible].
func (s Scroll) Clamp() Scroll {
	s.Offset = max(0, min(s.Offset, s.Total-s.Visible))
	return s
}

// Reveal scrolls the minimum distance that brings row into view.
func (s Scroll) Reveal(row int) Scroll {
	if s.Visible <= 0 {
		s.Offset = 0
		return s
	}
	if row < s.Offset {
		s.Offset = row
	}
	if row >= s.Offset+s.Visible {
		s.Offset = row - s.Visible + 1
	}
	return s.Clamp()
}

// Thumb returns the first line and length of the scrollbar thumb on a
// track of height lines. The thumb is at least one line long and
// touches the bottom of the track exactly when the last row is shown.
func (s Scroll) Thumb(height int) (start, length int) {
	if height <= 0 {
		return 0, 0
	}
	if !s.Overflows() {
		return 0, height
	}
	s = s.Clamp()
	length = max(1, height*s.Visible/s.Total)
	scrollable := s.Total - s.Visible
	track := height - length
	start = s.Offset * track / scrollable
	return start, length
}

// RenderScrollbar draws a one-column bar of height lines for s. When
// nothing overflows the column is blank, so callers can always reserve
// the width.
func RenderScrollbar(theme Theme, height int, s Scroll) string {
	if height <= 0 {
		return ""
	}
	lines := make([]string, height)
	if !s.Overflows() {
		for index := range lines {
			lines[index] = " "
		}
		return strings.Join(lines, "\n")
	}

	trackStyle := lipgloss.NewStyle().Foreground(theme.BorderColor)
	thumbStyle := lipgloss.NewStyle().Foreground(theme.AccentForeground)
	start, length := s.Thumb(height)
	for index := range lines {
		if index >= start && index < start+length {
			lines[index] = thumbStyle.Render("┃")
		} else {
			lines[index] = trackStyle.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}
