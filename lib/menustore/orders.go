// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menustore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/kiosk/lib/codec"
)

// ErrEmptyOrder is returned by RecordOrder when no names are given.
var ErrEmptyOrder = errors.New("cart is empty")

// ErrOrderNotFound is returned by Order for an unknown ID.
var ErrOrderNotFound = errors.New("order not found")

// StatusPending is the status of a freshly recorded order.
const StatusPending = "pending"

// OrderLine is one priced item of an order. Price is the menu price
// at the time of the order.
type OrderLine struct {
	Name     string  `cbor:"name"`
	Price    float64 `cbor:"price"`
	Quantity int     `cbor:"quantity"`
}

// Order is a recorded order.
type Order struct {
	ID        string
	Total     float64
	Status    string
	CreatedAt time.Time
	Lines     []OrderLine

	// Unknown lists requested names that were not on the menu, one
	// entry per unit. They contribute nothing to Total.
	Unknown []string
}

// RecordOrder prices names (one entry per unit) against the current
// menu and records the order. Unknown names are kept on the order but
// not charged. Lines follow the first appearance of each name.
func (s *Store) RecordOrder(ctx context.Context, names []string) (order Order, err error) {
	if len(names) == 0 {
		return Order{}, ErrEmptyOrder
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Order{}, fmt.Errorf("menustore: generating order id: %w", err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("menustore: record order: %w", err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return Order{}, fmt.Errorf("menustore: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	prices := make(map[string]float64)
	known := make(map[string]bool)
	lineIndex := make(map[string]int)
	order = Order{
		ID:        id.String(),
		Status:    StatusPending,
		CreatedAt: s.now().UTC(),
	}

	for _, name := range names {
		if _, looked := known[name]; !looked {
			price, found, lookupErr := lookupPrice(conn, name)
			if lookupErr != nil {
				err = lookupErr
				return Order{}, err
			}
			known[name] = found
			prices[name] = price
		}
		if !known[name] {
			order.Unknown = append(order.Unknown, name)
			continue
		}
		order.Total += prices[name]
		if index, exists := lineIndex[name]; exists {
			order.Lines[index].Quantity++
			continue
		}
		lineIndex[name] = len(order.Lines)
		order.Lines = append(order.Lines, OrderLine{Name: name, Price: prices[name], Quantity: 1})
	}

	linesBlob, err := codec.Marshal(order.Lines)
	if err != nil {
		return Order{}, fmt.Errorf("menustore: encoding order lines: %w", err)
	}
	var unknownBlob []byte
	if len(order.Unknown) > 0 {
		unknownBlob, err = codec.Marshal(order.Unknown)
		if err != nil {
			return Order{}, fmt.Errorf("menustore: encoding unknown items: %w", err)
		}
	}

	err = sqlitex.Execute(conn,
		"INSERT INTO orders (id, total, status, created_at, lines, unknown) VALUES (?, ?, ?, ?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{order.ID, order.Total, order.Status, order.CreatedAt.UnixNano(), linesBlob, unknownBlob},
		})
	if err != nil {
		return Order{}, fmt.Errorf("menustore: inserting order: %w", err)
	}

	s.logger.Debug("order recorded",
		"order_id", order.ID,
		"units", len(names),
		"unknown", len(order.Unknown),
		"total", order.Total,
	)
	return order, nil
}

// Order loads a recorded order by ID.
func (s *Store) Order(ctx context.Context, id string) (Order, error) {
	var (
		order Order
		found bool
	)
	err := s.withConn(ctx, "load order", func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT id, total, status, created_at, lines, unknown FROM orders WHERE id = ?",
			&sqlitex.ExecOptions{
				Args: []any{id},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					found = true
					order.ID = stmt.ColumnText(0)
					order.Total = stmt.ColumnFloat(1)
					order.Status = stmt.ColumnText(2)
					order.CreatedAt = time.Unix(0, stmt.ColumnInt64(3)).UTC()
					if err := decodeBlob(stmt, 4, &order.Lines); err != nil {
						return fmt.Errorf("decoding lines of order %s: %w", id, err)
					}
					if err := decodeBlob(stmt, 5, &order.Unknown); err != nil {
						return fmt.Errorf("decoding unknown items of order %s: %w", id, err)
					}
					return nil
				},
			})
	})
	if err != nil {
		return Order{}, fmt.Errorf("menustore: loading order: %w", err)
	}
	if !found {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return order, nil
}

func lookupPrice(conn *sqlite.Conn, name string) (price float64, found bool, err error) {
	err = sqlitex.Execute(conn, "SELECT price FROM menu_items WHERE name = ?", &sqlitex.ExecOptions{
		Args: []any{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			price = stmt.ColumnFloat(0)
			found = true
			return nil
		},
	})
	if err != nil {
		return 0, false, fmt.Errorf("menustore: pricing %q: %w", name, err)
	}
	return price, found, nil
}

// decodeBlob decodes a CBOR column. NULL and empty columns leave v
// untouched.
func decodeBlob(stmt *sqlite.Stmt, column int, v any) error {
	length := stmt.ColumnLen(column)
	if length == 0 {
		return nil
	}
	data := make([]byte, length)
	stmt.ColumnBytes(column, data)
	return codec.Unmarshal(data, v)
}
