// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cart implements the kiosk's quantity-per-item ledger.
//
// A [Ledger] maps item names to positive quantities and iterates in
// first-insertion order, which is the order order lines are submitted
// in. A quantity is never stored as zero: removing the last unit
// deletes the entry.
//
// The ledger does not hold prices. [Ledger.Totals] resolves names
// against a [menu.Catalog] at call time; entries whose names are absent
// from the catalog ("dangling" entries) are skipped for totals and line
// items but are kept until [Ledger.Clear] or [Ledger.Reconcile].
package cart

import (
	"slices"

	"github.com/bureau-foundation/kiosk/lib/menu"
)

// Line is a resolvable ledger entry priced against a catalog.
type Line struct {
	Name      string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

// Totals summarizes the resolvable part of a ledger. Count sums the
// quantities of resolvable entries only.
type Totals struct {
	Lines []Line
	Total float64
	Count int
}

// Ledger is an insertion-ordered name -> quantity map. Not safe for
// concurrent use; the kiosk mutates it only from its event loop.
type Ledger struct {
	order      []string
	quantities map[string]int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{quantities: make(map[string]int)}
}

// Add increments the quantity for name by one, creating the entry at
// 1 if absent. Returns the new quantity. There is no availability
// check.
func (ledger *Ledger) Add(name string) int {
	if _, exists := ledger.quantities[name]; !exists {
		ledger.order = append(ledger.order, name)
	}
	ledger.quantities[name]++
	return ledger.quantities[name]
}

// Remove decrements the quantity for name by one and deletes the entry
// when it reaches zero. Returns the remaining quantity. Removing an
// absent name is a no-op returning 0.
func (ledger *Ledger) Remove(name string) int {
	quantity, exists := ledger.quantities[name]
	if !exists {
		return 0
	}
	if quantity <= 1 {
		ledger.delete(name)
		return 0
	}
	ledger.quantities[name] = quantity - 1
	return quantity - 1
}

// Quantity returns the stored quantity for name, or 0 when absent.
func (ledger *Ledger) Quantity(name string) int {
	return ledger.quantities[name]
}

// Len returns the number of distinct entries, dangling ones included.
func (ledger *Ledger) Len() int {
	return len(ledger.order)
}

// Clear empties the ledger.
func (ledger *Ledger) Clear() {
	ledger.order = nil
	clear(ledger.quantities)
}

// Totals prices the ledger against catalog. Dangling entries
// contribute nothing and produce no line.
func (ledger *Ledger) Totals(catalog *menu.Catalog) Totals {
	var totals Totals
	for _, name := range ledger.order {
		item, exists := catalog.Lookup(name)
		if !exists {
			continue
		}
		quantity := ledger.quantities[name]
		lineTotal := item.Price * float64(quantity)
		totals.Lines = append(totals.Lines, Line{
			Name:      name,
			Quantity:  quantity,
			UnitPrice: item.Price,
			LineTotal: lineTotal,
		})
		totals.Total += lineTotal
		totals.Count += quantity
	}
	return totals
}

// OrderLines flattens the resolvable entries into one name per unit,
// in insertion order: {A:2, B:1} becomes [A, A, B].
func (ledger *Ledger) OrderLines(catalog *menu.Catalog) []string {
	var lines []string
	for _, name := range ledger.order {
		if _, exists := catalog.Lookup(name); !exists {
			continue
		}
		for range ledger.quantities[name] {
			lines = append(lines, name)
		}
	}
	return lines
}

// Dangling returns the names of entries absent from catalog, in
// insertion order.
func (ledger *Ledger) Dangling(catalog *menu.Catalog) []string {
	var names []string
	for _, name := range ledger.order {
		if _, exists := catalog.Lookup(name); !exists {
			names = append(names, name)
		}
	}
	return names
}

// Reconcile deletes dangling entries and returns their names.
func (ledger *Ledger) Reconcile(catalog *menu.Catalog) []string {
	dropped := ledger.Dangling(catalog)
	for _, name := range dropped {
		ledger.delete(name)
	}
	return dropped
}

func (ledger *Ledger) delete(name string) {
	delete(ledger.quantities, name)
	if index := slices.Index(ledger.order, name); index >= 0 {
		ledger.order = slices.Delete(ledger.order, index, index+1)
	}
}
