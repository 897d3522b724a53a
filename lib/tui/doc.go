// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal rendering primitives shared by the
// kiosk's bubbletea screens: the color theme and profile selection,
// ANSI-aware overlay splicing for modals, the decaying pulse used to
// flash recently changed surfaces, keyword match highlighting, and a
// one-column scrollbar.
//
// Nothing here knows about menus or carts. The kiosk screen in
// lib/kioskui owns layout and domain rendering and calls into this
// package for the mechanics.
package tui
