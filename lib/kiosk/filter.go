// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiosk

import (
	"strings"

	"github.com/bureau-foundation/kiosk/lib/menu"
)

// Filter is the active category plus the search keyword. The two axes
// are independent and apply conjunctively.
type Filter struct {
	// ActiveCategory is a catalog category or [menu.AllCategories].
	ActiveCategory string

	// Keyword is matched case-insensitively as a substring of the item
	// name after trimming surrounding whitespace. Empty matches all.
	Keyword string
}

// NewFilter returns the unrestricted filter.
func NewFilter() Filter {
	return Filter{ActiveCategory: menu.AllCategories}
}

// Matches reports whether the item named name passes the filter:
//
//	(active == All || item.Category == active) && lower(name) contains lower(trim(keyword))
func (filter Filter) Matches(item menu.Item, name string) bool {
	if filter.ActiveCategory != menu.AllCategories && item.Category != filter.ActiveCategory {
		return false
	}
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	return strings.Contains(strings.ToLower(name), keyword)
}

// TrimmedKeyword returns the keyword as the predicate sees it.
func (filter Filter) TrimmedKeyword() string {
	return strings.TrimSpace(filter.Keyword)
}
