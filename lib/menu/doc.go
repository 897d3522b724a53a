// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package menu holds the kiosk's in-memory menu catalog.
//
// A [Catalog] is an immutable, name-keyed set of [Item] values that
// remembers the order in which the menu service listed them. Each
// successful fetch produces a new Catalog which replaces the previous
// one wholesale; there is no incremental merge. Items without a
// category are normalized to a fallback label at construction so that
// the category bar and the filter predicate agree on what an item's
// category is.
//
// The package also owns the display policies that every surface
// shares: [FormatPrice] (fixed currency glyph, two decimals) and
// [ImageRef] (placeholder substitution for missing or malformed image
// references).
//
// No kiosk-internal dependencies. Imported by lib/cart, lib/kiosk,
// lib/kioskapi, lib/kioskui, and lib/menustore.
package menu
