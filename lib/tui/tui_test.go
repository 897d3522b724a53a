// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func TestMain(m *testing.M) {
	ApplyColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestPulseTracker_Decay(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewPulseTracker(time.Second)

	if intensity := tracker.Intensity("badge", start); intensity != 0 {
		t.Errorf("Intensity before ignition = %v, want 0", intensity)
	}

	tracker.Ignite("badge", start)
	if intensity := tracker.Intensity("badge", start); intensity != 1 {
		t.Errorf("Intensity at ignition = %v, want 1", intensity)
	}
	if intensity := tracker.Intensity("badge", start.Add(500*time.Millisecond)); intensity != 0.5 {
		t.Errorf("Intensity at half = %v, want 0.5", intensity)
	}
	if tracker.Active("badge", start.Add(time.Second)) {
		t.Error("still active after the full duration")
	}
}

func TestPulseTracker_AnyActiveCollectsDecayed(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewPulseTracker(time.Second)
	tracker.Ignite("a", start)
	tracker.Ignite("b", start.Add(800*time.Millisecond))

	if !tracker.AnyActive(start.Add(1200 * time.Millisecond)) {
		t.Fatal("AnyActive = false while b is still pulsing")
	}
	if _, exists := tracker.entries["a"]; exists {
		t.Error("decayed entry a was not collected")
	}
	if tracker.AnyActive(start.Add(2 * time.Second)) {
		t.Error("AnyActive = true after every pulse decayed")
	}
}

func TestPulseTracker_ReigniteRestarts(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewPulseTracker(time.Second)
	tracker.Ignite("badge", start)
	tracker.Ignite("badge", start.Add(900*time.Millisecond))

	if !tracker.Active("badge", start.Add(1500*time.Millisecond)) {
		t.Error("re-ignited pulse ended at the original deadline")
	}
}

func TestFindMatch(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    MatchRange
	}{
		{"ascii case insensitive", "Fried Rice", "RICE", MatchRange{Start: 6, End: 10, Found: true}},
		{"trimmed keyword", "Fried Rice", "  fri ", MatchRange{Start: 0, End: 3, Found: true}},
		{"multibyte offsets are runes", "澳洲M5牛排", "牛排", MatchRange{Start: 4, End: 6, Found: true}},
		{"no match", "冰美式", "茶", MatchRange{}},
		{"empty keyword", "冰美式", "   ", MatchRange{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := FindMatch(test.text, test.keyword); got != test.want {
				t.Errorf("FindMatch(%q, %q) = %+v, want %+v", test.text, test.keyword, got, test.want)
			}
		})
	}
}

func TestHighlightMatch_PreservesText(t *testing.T) {
	base := lipgloss.NewStyle()
	match := lipgloss.NewStyle().Bold(true)

	rendered := HighlightMatch("宫保鸡丁", "鸡", base, match)
	if got := ansi.Strip(rendered); got != "宫保鸡丁" {
		t.Errorf("HighlightMatch text = %q, want %q", got, "宫保鸡丁")
	}
	if got := ansi.Strip(HighlightMatch("Tea", "coffee", base, match)); got != "Tea" {
		t.Errorf("HighlightMatch without match = %q, want %q", got, "Tea")
	}
}

func TestSpliceOverlay(t *testing.T) {
	view := strings.Join([]string{
		"..........",
		"..........",
		"..........",
	}, "\n")

	result := ansi.Strip(SpliceOverlay(view, []string{"AB", "C"}, 3, 1))
	want := strings.Join([]string{
		"..........",
		"...AB.....",
		"...C .....",
	}, "\n")
	if result != want {
		t.Errorf("SpliceOverlay =\n%s\nwant\n%s", result, want)
	}
}

func TestSpliceOverlay_PadsShortLines(t *testing.T) {
	result := ansi.Strip(SpliceOverlay("ab", []string{"X"}, 4, 0))
	if result != "ab  X" {
		t.Errorf("SpliceOverlay = %q, want %q", result, "ab  X")
	}
}

func TestCenterOverlay(t *testing.T) {
	view := strings.Repeat(".......\n", 4) + "......."
	result := strings.Split(ansi.Strip(CenterOverlay(view, "ok", 7, 5)), "\n")
	if result[2] != "..ok..." {
		t.Errorf("centered row = %q, want %q", result[2], "..ok...")
	}
}

func TestPadOverlayLine(t *testing.T) {
	line := ansi.Strip(PadOverlayLine("hi", 5, lipgloss.NewStyle()))
	if line != " hi    " {
		t.Errorf("PadOverlayLine = %q, want %q", line, " hi    ")
	}
	if width := ansi.StringWidth(PadOverlayLine("much too long", 5, lipgloss.NewStyle())); width != 7 {
		t.Errorf("truncated line width = %d, want 7", width)
	}
}

func TestScrollReveal(t *testing.T) {
	tests := []struct {
		name   string
		scroll Scroll
		row    int
		want   int
	}{
		{"already visible", Scroll{Total: 10, Visible: 3, Offset: 2}, 3, 2},
		{"above", Scroll{Total: 10, Visible: 3, Offset: 5}, 1, 1},
		{"below", Scroll{Total: 10, Visible: 3, Offset: 0}, 6, 4},
		{"stale offset after growth", Scroll{Total: 4, Visible: 4, Offset: 3}, 0, 0},
		{"no room", Scroll{Total: 4, Visible: 0, Offset: 2}, 3, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.scroll.Reveal(test.row).Offset; got != test.want {
				t.Errorf("Reveal(%d).Offset = %d, want %d", test.row, got, test.want)
			}
		})
	}
}

func TestScrollThumb(t *testing.T) {
	if start, length := (Scroll{Total: 2, Visible: 5}).Thumb(3); start != 0 || length != 3 {
		t.Errorf("fitting content thumb = (%d, %d), want (0, 3)", start, length)
	}
	if start, length := (Scroll{Total: 8, Visible: 4, Offset: 4}).Thumb(4); start != 2 || length != 2 {
		t.Errorf("end thumb = (%d, %d), want (2, 2)", start, length)
	}
	if _, length := (Scroll{Total: 100, Visible: 1}).Thumb(4); length != 1 {
		t.Errorf("tiny thumb length = %d, want 1", length)
	}
}

func TestRenderScrollbar(t *testing.T) {
	blank := strings.Split(RenderScrollbar(DefaultTheme, 3, Scroll{Total: 2, Visible: 5}), "\n")
	for index, cell := range blank {
		if cell != " " {
			t.Errorf("row %d = %q, want blank when content fits", index, cell)
		}
	}

	bar := strings.Split(ansi.Strip(RenderScrollbar(DefaultTheme, 4, Scroll{Total: 8, Visible: 4, Offset: 4})), "\n")
	want := []string{"│", "│", "┃", "┃"}
	for index := range want {
		if bar[index] != want[index] {
			t.Errorf("scrolled to end: row %d = %q, want %q", index, bar[index], want[index])
		}
	}
}
