// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"github.com/bureau-foundation/kiosk/lib/kiosk"
	"github.com/bureau-foundation/kiosk/lib/menu"
)

// Settings are the display constants the projections need.
type Settings struct {
	// CurrencySymbol prefixes every price. Empty uses
	// menu.DefaultCurrencySymbol.
	CurrencySymbol string

	// PlaceholderImage replaces absent or non-http(s) image
	// references. Empty uses menu.DefaultPlaceholderImage.
	PlaceholderImage string
}

func (settings Settings) withDefaults() Settings {
	if settings.CurrencySymbol == "" {
		settings.CurrencySymbol = menu.DefaultCurrencySymbol
	}
	if settings.PlaceholderImage == "" {
		settings.PlaceholderImage = menu.DefaultPlaceholderImage
	}
	return settings
}

// CategoryTab is one entry of the category bar.
type CategoryTab struct {
	Label  string
	Active bool
}

// Card is one item of the menu grid. Cards are built for every
// catalog item; filtering only flips Visible.
type Card struct {
	Name      string
	PriceText string
	Category  string
	ImageRef  string
	Visible   bool
	Editable  bool
}

// CartLine is one row of the cart drawer.
type CartLine struct {
	Name          string
	Quantity      int
	UnitPriceText string
	LineTotalText string
}

// CartView is the projection behind the badge and the drawer.
type CartView struct {
	Count           int
	Lines           []CartLine
	TotalText       string
	CheckoutEnabled bool
}

// AdminView says which session-gated controls are shown.
type AdminView struct {
	IsAdmin     bool
	ShowLogin   bool
	ShowLogout  bool
	ShowAddItem bool
	ShowEdit    bool
}

// ProjectCategories returns the category bar: "All" first, then each
// category in first-seen catalog order, with the active one marked.
func ProjectCategories(state *kiosk.State) []CategoryTab {
	categories := state.Catalog.Categories()
	tabs := make([]CategoryTab, len(categories))
	for index, category := range categories {
		tabs[index] = CategoryTab{
			Label:  category,
			Active: category == state.Filter.ActiveCategory,
		}
	}
	return tabs
}

// BuildCards builds one card per catalog item in catalog order, with
// visibility evaluated against the current filter and the edit
// affordance set from the admin flag.
func BuildCards(state *kiosk.State, settings Settings) []Card {
	settings = settings.withDefaults()
	editable := state.Session.IsAdmin()

	items := state.Catalog.Items()
	cards := make([]Card, len(items))
	for index, item := range items {
		cards[index] = Card{
			Name:      item.Name,
			PriceText: menu.FormatPrice(item.Price, settings.CurrencySymbol),
			Category:  item.Category,
			ImageRef:  menu.ImageRef(item.ImageURL, settings.PlaceholderImage),
			Visible:   state.Filter.Matches(item, item.Name),
			Editable:  editable,
		}
	}
	return cards
}

// ApplyFilter re-evaluates visibility of already built cards against
// the current filter without rebuilding them.
func ApplyFilter(cards []Card, state *kiosk.State) {
	for index := range cards {
		cards[index].Visible = state.Visible(cards[index].Name)
	}
}

// ProjectCart prices the cart against the current catalog. Entries
// naming items the catalog no longer has produce no line.
func ProjectCart(state *kiosk.State, settings Settings) CartView {
	settings = settings.withDefaults()
	totals := state.CartTotals()

	lines := make([]CartLine, len(totals.Lines))
	for index, line := range totals.Lines {
		lines[index] = CartLine{
			Name:          line.Name,
			Quantity:      line.Quantity,
			UnitPriceText: menu.FormatPrice(line.UnitPrice, settings.CurrencySymbol),
			LineTotalText: menu.FormatPrice(line.LineTotal, settings.CurrencySymbol),
		}
	}
	return CartView{
		Count:           totals.Count,
		Lines:           lines,
		TotalText:       menu.FormatPrice(totals.Total, settings.CurrencySymbol),
		CheckoutEnabled: totals.Count > 0,
	}
}

// ProjectAdmin derives the session-gated controls.
func ProjectAdmin(session *kiosk.SessionFlags) AdminView {
	isAdmin := session.IsAdmin()
	return AdminView{
		IsAdmin:     isAdmin,
		ShowLogin:   !isAdmin,
		ShowLogout:  isAdmin,
		ShowAddItem: isAdmin,
		ShowEdit:    isAdmin,
	}
}

// visibleCardIndices returns the positions of visible cards, in grid
// order.
func visibleCardIndices(cards []Card) []int {
	var indices []int
	for index, card := range cards {
		if card.Visible {
			indices = append(indices, index)
		}
	}
	return indices
}
