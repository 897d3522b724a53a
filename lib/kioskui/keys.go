// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the kiosk TUI.
type KeyMap struct {
	// Grid navigation. In the cart drawer, Up and Down move between
	// cart lines instead.
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Category bar.
	NextCategory     key.Binding
	PreviousCategory key.Binding

	// Cart.
	AddToCart  key.Binding // Add the selected card (or drawer line).
	Decrement  key.Binding // Drawer: remove one unit of the selected line.
	CartToggle key.Binding
	Checkout   key.Binding // Drawer only.

	// Search overlay.
	SearchOpen key.Binding

	// Admin.
	Login    key.Binding
	Logout   key.Binding
	AddItem  key.Binding
	EditItem key.Binding

	// Modal and form handling.
	Submit    key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding

	Reload key.Binding
	Quit   key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (h/j/k/l) alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "right"),
	),
	NextCategory: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next category"),
	),
	PreviousCategory: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "prev category"),
	),
	AddToCart: key.NewBinding(
		key.WithKeys("enter", " ", "+"),
		key.WithHelp("enter", "add to cart"),
	),
	Decrement: key.NewBinding(
		key.WithKeys("-", "x"),
		key.WithHelp("-", "remove one"),
	),
	CartToggle: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "cart"),
	),
	Checkout: key.NewBinding(
		key.WithKeys("enter", "o"),
		key.WithHelp("enter", "checkout"),
	),
	SearchOpen: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Login: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "admin login"),
	),
	Logout: key.NewBinding(
		key.WithKeys("O"),
		key.WithHelp("O", "logout"),
	),
	AddItem: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new item"),
	),
	EditItem: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit item"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-tab", "prev field"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
