// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme defines the color palette for the kiosk screens. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected card, category, or drawer line.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Active category tab and primary buttons.
	AccentForeground lipgloss.Color

	// Prices and totals.
	PriceForeground lipgloss.Color

	// Cart badge, and its background while pulsing after an add.
	BadgeForeground lipgloss.Color
	PulseBackground lipgloss.Color

	// Notices.
	ErrorForeground   lipgloss.Color
	SuccessForeground lipgloss.Color
	WarningForeground lipgloss.Color

	// Admin-only affordances (add item, edit markers).
	AdminForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Modal and drawer panels.
	PanelBackground lipgloss.Color

	// Background tint for keyword matches inside card titles.
	SearchHighlightBackground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	AccentForeground: lipgloss.Color("208"), // orange
	PriceForeground:  lipgloss.Color("220"), // amber

	BadgeForeground: lipgloss.Color("196"),
	PulseBackground: lipgloss.Color("58"), // dark amber tint

	ErrorForeground:   lipgloss.Color("196"),
	SuccessForeground: lipgloss.Color("114"),
	WarningForeground: lipgloss.Color("214"),

	AdminForeground: lipgloss.Color("141"), // light purple

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	PanelBackground: lipgloss.Color("237"),

	SearchHighlightBackground: lipgloss.Color("58"),
}

// ApplyColorProfile pins the color profile used by the default
// lipgloss renderer. The kiosk command passes the profile detected on
// its output; tests pass termenv.Ascii so rendered frames contain no
// escape sequences and can be compared as plain text.
func ApplyColorProfile(profile termenv.Profile) {
	lipgloss.SetColorProfile(profile)
}

// DetectColorProfile returns the color profile supported by stdout,
// or termenv.Ascii when NO_COLOR is set.
func DetectColorProfile() termenv.Profile {
	if termenv.EnvNoColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}
