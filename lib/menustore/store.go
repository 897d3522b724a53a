// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menustore

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/kiosk/lib/menu"
)

// Config holds the parameters for opening a Store. Path is required.
type Config struct {
	// Path is the SQLite database file. The parent directory must
	// exist. Use ":memory:" only with PoolSize 1, since every
	// in-memory connection is an independent database.
	Path string

	// PoolSize is the number of pooled connections. Zero or negative
	// uses max(runtime.NumCPU(), 4).
	PoolSize int

	// FallbackCategory replaces an empty category on upsert. Empty
	// uses menu.DefaultFallbackCategory.
	FallbackCategory string

	// Logger receives open/close and seeding records. Nil discards.
	Logger *slog.Logger

	// Now stamps orders and item updates. Nil uses time.Now.
	Now func() time.Time
}

// Store is the menu service's persistent state. Safe for concurrent
// use; each call borrows its own connection.
type Store struct {
	pool             *sqlitex.Pool
	path             string
	fallbackCategory string
	logger           *slog.Logger
	now              func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS menu_items (
	name       TEXT PRIMARY KEY,
	price      REAL NOT NULL,
	category   TEXT NOT NULL,
	image      TEXT NOT NULL DEFAULT '',
	position   INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS menu_items_position ON menu_items (position);

CREATE TABLE IF NOT EXISTS orders (
	id         TEXT PRIMARY KEY,
	total      REAL NOT NULL,
	status     TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	lines      BLOB NOT NULL,
	unknown    BLOB
);
`

// Open creates the pool. Connections are prepared lazily on first
// Take: pragmas first, then the schema. The caller must Close the
// store.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("menustore: Path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	fallbackCategory := cfg.FallbackCategory
	if fallbackCategory == "" {
		fallbackCategory = menu.DefaultFallbackCategory
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = max(runtime.NumCPU(), 4)
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("menustore: opening %s: %w", cfg.Path, err)
	}

	logger.Info("menu store opened",
		"path", cfg.Path,
		"pool_size", poolSize,
	)

	return &Store{
		pool:             pool,
		path:             cfg.Path,
		fallbackCategory: fallbackCategory,
		logger:           logger,
		now:              now,
	}, nil
}

// Close closes every connection. Blocks until borrowed connections are
// returned.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		s.logger.Error("menu store close error",
			"path", s.path,
			"error", err,
		)
		return fmt.Errorf("menustore: closing %s: %w", s.path, err)
	}
	s.logger.Info("menu store closed", "path", s.path)
	return nil
}

// FallbackCategory returns the label given to uncategorized items.
func (s *Store) FallbackCategory() string {
	return s.fallbackCategory
}

// withConn borrows a connection for the duration of fn.
func (s *Store) withConn(ctx context.Context, op string, fn func(conn *sqlite.Conn) error) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("menustore: %s: %w", op, err)
	}
	defer s.pool.Put(conn)
	return fn(conn)
}

// prepareConnection runs once per pooled connection.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=OFF",
		"PRAGMA cache_size=-8192",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("menustore: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("menustore: creating schema: %w", err)
	}
	return nil
}
