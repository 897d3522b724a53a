// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiosk

import (
	"slices"

	"github.com/bureau-foundation/kiosk/lib/cart"
	"github.com/bureau-foundation/kiosk/lib/menu"
)

// State is the kiosk's application root. It exclusively owns the
// catalog, the cart, the filter, and the session flags.
type State struct {
	Catalog *menu.Catalog
	Cart    *cart.Ledger
	Filter  Filter
	Session *SessionFlags

	// DropDanglingOnReload makes ReplaceCatalog reconcile the cart
	// against the new catalog. When false, entries naming removed
	// items stay in the ledger and are skipped by totals.
	DropDanglingOnReload bool
}

// NewState returns a state with an empty catalog, an empty cart, the
// unrestricted filter, and the given session flags.
func NewState(session *SessionFlags) *State {
	return &State{
		Catalog: menu.Empty(),
		Cart:    cart.New(),
		Filter:  NewFilter(),
		Session: session,
	}
}

// ReplaceCatalog installs a freshly fetched catalog wholesale. If the
// active category no longer exists, the filter falls back to All so the
// grid is not silently emptied. Returns the cart entries dropped by
// reconciliation (always nil unless DropDanglingOnReload is set).
func (state *State) ReplaceCatalog(catalog *menu.Catalog) []string {
	state.Catalog = catalog
	if !slices.Contains(catalog.Categories(), state.Filter.ActiveCategory) {
		state.Filter.ActiveCategory = menu.AllCategories
	}
	if state.DropDanglingOnReload {
		return state.Cart.Reconcile(catalog)
	}
	return nil
}

// SelectCategory changes the active category. Returns false when the
// category is already active.
func (state *State) SelectCategory(category string) bool {
	if state.Filter.ActiveCategory == category {
		return false
	}
	state.Filter.ActiveCategory = category
	return true
}

// SetKeyword changes the search keyword.
func (state *State) SetKeyword(keyword string) {
	state.Filter.Keyword = keyword
}

// Visible reports whether the named catalog item passes the filter.
// Names absent from the catalog are never visible.
func (state *State) Visible(name string) bool {
	item, exists := state.Catalog.Lookup(name)
	if !exists {
		return false
	}
	return state.Filter.Matches(item, name)
}

// CartTotals prices the cart against the current catalog.
func (state *State) CartTotals() cart.Totals {
	return state.Cart.Totals(state.Catalog)
}

// CanCheckout reports whether the checkout control is enabled: at
// least one resolvable unit is in the cart.
func (state *State) CanCheckout() bool {
	return state.CartTotals().Count > 0
}
