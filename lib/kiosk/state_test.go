// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiosk

import (
	"slices"
	"testing"

	"github.com/bureau-foundation/kiosk/lib/menu"
)

func newTestState() *State {
	return NewState(NewSessionFlags(&MemoryStore{}, nil))
}

func sampleCatalog() *menu.Catalog {
	return menu.NewCatalog([]menu.Item{
		{Name: "Fried Rice", Price: 12.5, Category: "Mains"},
		{Name: "Green Tea", Price: 4, Category: "Drinks"},
		{Name: "Rice Noodles", Price: 9, Category: "Mains"},
	}, "")
}

func visibleNames(state *State) []string {
	var names []string
	for _, item := range state.Catalog.Items() {
		if state.Visible(item.Name) {
			names = append(names, item.Name)
		}
	}
	return names
}

func TestNewState(t *testing.T) {
	state := newTestState()
	if state.Catalog.Len() != 0 || state.Cart.Len() != 0 {
		t.Error("new state is not empty")
	}
	if state.Filter.ActiveCategory != menu.AllCategories {
		t.Errorf("active category = %q, want All", state.Filter.ActiveCategory)
	}
	if state.CanCheckout() {
		t.Error("checkout enabled on empty cart")
	}
}

func TestVisible_CategoryRoundTrip(t *testing.T) {
	state := newTestState()
	state.ReplaceCatalog(sampleCatalog())
	state.SetKeyword("rice")

	all := visibleNames(state)
	if !slices.Equal(all, []string{"Fried Rice", "Rice Noodles"}) {
		t.Fatalf("visible = %v", all)
	}

	state.SelectCategory("Drinks")
	if got := visibleNames(state); len(got) != 0 {
		t.Errorf("Drinks+rice visible = %v, want none", got)
	}

	state.SelectCategory(menu.AllCategories)
	if got := visibleNames(state); !slices.Equal(got, all) {
		t.Errorf("back to All: visible = %v, want %v", got, all)
	}
}

func TestSelectCategory_ReportsChange(t *testing.T) {
	state := newTestState()
	if state.SelectCategory(menu.AllCategories) {
		t.Error("selecting the active category reported a change")
	}
	if !state.SelectCategory("Mains") {
		t.Error("selecting a new category reported no change")
	}
}

func TestReplaceCatalog_ResetsVanishedCategory(t *testing.T) {
	state := newTestState()
	state.ReplaceCatalog(sampleCatalog())
	state.SelectCategory("Drinks")

	state.ReplaceCatalog(menu.NewCatalog([]menu.Item{{Name: "Fried Rice", Price: 12.5, Category: "Mains"}}, ""))
	if state.Filter.ActiveCategory != menu.AllCategories {
		t.Errorf("active category = %q, want All", state.Filter.ActiveCategory)
	}
}

func TestReplaceCatalog_DanglingPolicy(t *testing.T) {
	reduced := menu.NewCatalog([]menu.Item{{Name: "Green Tea", Price: 4, Category: "Drinks"}}, "")

	t.Run("preserve", func(t *testing.T) {
		state := newTestState()
		state.ReplaceCatalog(sampleCatalog())
		state.Cart.Add("Fried Rice")
		state.Cart.Add("Green Tea")

		if dropped := state.ReplaceCatalog(reduced); dropped != nil {
			t.Errorf("dropped = %v, want nil", dropped)
		}
		if state.Cart.Quantity("Fried Rice") != 1 {
			t.Error("dangling entry removed with preserve policy")
		}
		if totals := state.CartTotals(); totals.Count != 1 || totals.Total != 4 {
			t.Errorf("totals = %+v, want count 1 total 4", totals)
		}
	})

	t.Run("drop", func(t *testing.T) {
		state := newTestState()
		state.DropDanglingOnReload = true
		state.ReplaceCatalog(sampleCatalog())
		state.Cart.Add("Fried Rice")
		state.Cart.Add("Green Tea")

		dropped := state.ReplaceCatalog(reduced)
		if !slices.Equal(dropped, []string{"Fried Rice"}) {
			t.Errorf("dropped = %v, want [Fried Rice]", dropped)
		}
		if state.Cart.Len() != 1 {
			t.Errorf("cart entries = %v", state.Cart)
		}
	})
}

func TestCanCheckout_IgnoresDangling(t *testing.T) {
	state := newTestState()
	state.ReplaceCatalog(sampleCatalog())
	state.Cart.Add("Ghost")
	if state.CanCheckout() {
		t.Error("checkout enabled with only dangling entries")
	}
	state.Cart.Add("Green Tea")
	if !state.CanCheckout() {
		t.Error("checkout disabled with a resolvable entry")
	}
}
