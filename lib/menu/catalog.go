// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"net/url"
	"strconv"
	"strings"
)

// AllCategories is the category bar sentinel meaning "no category
// restriction". It always appears first in [Catalog.Categories].
const AllCategories = "All"

// DefaultFallbackCategory labels items that arrive without a category.
const DefaultFallbackCategory = "Other"

// DefaultPlaceholderImage is substituted for missing or malformed
// image references.
const DefaultPlaceholderImage = "https://via.placeholder.com/300x200?text=No+Image"

// DefaultCurrencySymbol prefixes every displayed price.
const DefaultCurrencySymbol = "¥"

// Item is one orderable menu entry. Name is the identity key; an admin
// edit replaces every other field wholesale.
type Item struct {
	Name     string
	Price    float64
	Category string

	// ImageURL is empty when the item has no image.
	ImageURL string
}

// Catalog is an immutable name-keyed set of menu items. The zero value
// is not usable; construct with [NewCatalog] or [Empty].
type Catalog struct {
	order []string
	items map[string]Item
}

// Empty returns a catalog with no items. An empty catalog is a valid
// state and renders as an explicit empty-state message.
func Empty() *Catalog {
	return &Catalog{items: make(map[string]Item)}
}

// NewCatalog builds a catalog from items in listing order. Name
// uniqueness is the menu service's responsibility: when a name repeats,
// the later item replaces the earlier one but keeps the earlier
// position. Items with an empty Category receive fallbackCategory
// (DefaultFallbackCategory if fallbackCategory is empty). Items with an
// empty Name are skipped.
func NewCatalog(items []Item, fallbackCategory string) *Catalog {
	if fallbackCategory == "" {
		fallbackCategory = DefaultFallbackCategory
	}

	catalog := &Catalog{
		order: make([]string, 0, len(items)),
		items: make(map[string]Item, len(items)),
	}
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		if strings.TrimSpace(item.Category) == "" {
			item.Category = fallbackCategory
		}
		if _, exists := catalog.items[item.Name]; !exists {
			catalog.order = append(catalog.order, item.Name)
		}
		catalog.items[item.Name] = item
	}
	return catalog
}

// Len returns the number of items.
func (catalog *Catalog) Len() int {
	return len(catalog.order)
}

// Lookup returns the item with the given name.
func (catalog *Catalog) Lookup(name string) (Item, bool) {
	item, exists := catalog.items[name]
	return item, exists
}

// Items returns all items in listing order.
func (catalog *Catalog) Items() []Item {
	result := make([]Item, 0, len(catalog.order))
	for _, name := range catalog.order {
		result = append(result, catalog.items[name])
	}
	return result
}

// Categories returns the category bar entries: [AllCategories] followed
// by each distinct item category in order of first appearance. An
// empty catalog yields only AllCategories.
func (catalog *Catalog) Categories() []string {
	categories := []string{AllCategories}
	seen := map[string]bool{AllCategories: true}
	for _, name := range catalog.order {
		category := catalog.items[name].Category
		if seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	return categories
}

// FormatPrice renders a price with the currency glyph and exactly two
// decimal places: FormatPrice(9, "¥") == "¥9.00". An empty symbol
// uses DefaultCurrencySymbol.
func FormatPrice(price float64, symbol string) string {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return symbol + strconv.FormatFloat(price, 'f', 2, 64)
}

// ImageRef returns imageURL when it is an absolute http or https
// reference with a host, and placeholder otherwise. An empty
// placeholder uses DefaultPlaceholderImage.
func ImageRef(imageURL, placeholder string) string {
	if placeholder == "" {
		placeholder = DefaultPlaceholderImage
	}
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return placeholder
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return placeholder
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return placeholder
	}
	return trimmed
}
