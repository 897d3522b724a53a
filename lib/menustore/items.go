// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menustore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/kiosk/lib/menu"
)

// ErrInvalidItem is wrapped by UpsertItem validation failures.
var ErrInvalidItem = errors.New("invalid menu item")

// Items returns every menu item in listing order.
func (s *Store) Items(ctx context.Context) ([]menu.Item, error) {
	var items []menu.Item
	err := s.withConn(ctx, "list items", func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT name, price, category, image FROM menu_items ORDER BY position",
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					items = append(items, menu.Item{
						Name:     stmt.ColumnText(0),
						Price:    stmt.ColumnFloat(1),
						Category: stmt.ColumnText(2),
						ImageURL: stmt.ColumnText(3),
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("menustore: listing items: %w", err)
	}
	return items, nil
}

// Count returns the number of menu items.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.withConn(ctx, "count items", func(conn *sqlite.Conn) error {
		return countItems(conn, &count)
	})
	return count, err
}

// UpsertItem creates the item or replaces every field of the existing
// item with the same name. An existing item keeps its listing
// position. Returns true when the item was created.
func (s *Store) UpsertItem(ctx context.Context, item menu.Item) (created bool, err error) {
	item, err = s.normalize(item)
	if err != nil {
		return false, err
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return false, fmt.Errorf("menustore: upsert item: %w", err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return false, fmt.Errorf("menustore: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	created, err = upsertItem(conn, item, s.now().UnixNano())
	return created, err
}

// Seed inserts items only when the menu is empty, so restarting the
// service never overwrites admin edits. Returns the number of items
// inserted.
func (s *Store) Seed(ctx context.Context, items []menu.Item) (inserted int, err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("menustore: seed: %w", err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return 0, fmt.Errorf("menustore: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	var existing int
	if err = countItems(conn, &existing); err != nil {
		return 0, err
	}
	if existing > 0 {
		s.logger.Debug("menu already populated, skipping seed", "items", existing)
		return 0, nil
	}

	stamp := s.now().UnixNano()
	for _, item := range items {
		normalized, normalizeErr := s.normalize(item)
		if normalizeErr != nil {
			err = fmt.Errorf("seed item %q: %w", item.Name, normalizeErr)
			return 0, err
		}
		if _, err = upsertItem(conn, normalized, stamp); err != nil {
			return 0, err
		}
		inserted++
	}
	s.logger.Info("menu seeded", "items", inserted)
	return inserted, nil
}

// normalize validates an item and fills the fallback category.
func (s *Store) normalize(item menu.Item) (menu.Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	item.ImageURL = strings.TrimSpace(item.ImageURL)

	if item.Name == "" {
		return item, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
		return item, fmt.Errorf("%w: price must be a non-negative number", ErrInvalidItem)
	}
	if item.Category == "" {
		item.Category = s.fallbackCategory
	}
	return item, nil
}

func upsertItem(conn *sqlite.Conn, item menu.Item, stamp int64) (bool, error) {
	var exists bool
	err := sqlitex.Execute(conn, "SELECT 1 FROM menu_items WHERE name = ?", &sqlitex.ExecOptions{
		Args: []any{item.Name},
		ResultFunc: func(*sqlite.Stmt) error {
			exists = true
			return nil
		},
	})
	if err != nil {
		return false, fmt.Errorf("menustore: looking up %q: %w", item.Name, err)
	}

	if exists {
		err = sqlitex.Execute(conn,
			"UPDATE menu_items SET price = ?, category = ?, image = ?, updated_at = ? WHERE name = ?",
			&sqlitex.ExecOptions{
				Args: []any{item.Price, item.Category, item.ImageURL, stamp, item.Name},
			})
	} else {
		err = sqlitex.Execute(conn,
			`INSERT INTO menu_items (name, price, category, image, position, updated_at)
			 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM menu_items), ?)`,
			&sqlitex.ExecOptions{
				Args: []any{item.Name, item.Price, item.Category, item.ImageURL, stamp},
			})
	}
	if err != nil {
		return false, fmt.Errorf("menustore: writing %q: %w", item.Name, err)
	}
	return !exists, nil
}

func countItems(conn *sqlite.Conn, count *int) error {
	err := sqlitex.Execute(conn, "SELECT COUNT(*) FROM menu_items", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			*count = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("menustore: counting items: %w", err)
	}
	return nil
}
