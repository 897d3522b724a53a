// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package menustore persists the menu service's catalog and orders in
// SQLite.
//
// The store owns a fixed-size zombiezen connection pool. Every
// connection gets the same pragmas (WAL journal, NORMAL sync, a busy
// timeout) and the schema is created on first use, so a fresh database
// file needs no migration step. Menu items keep their insertion
// position: an upsert of an existing name replaces price, category,
// and image in place, and a new name is appended. Orders are written
// in a single IMMEDIATE transaction that prices each requested name
// against the current menu.
//
// A database with no menu items can be seeded from [DefaultMenu] or
// from a JSONC seed file via [LoadSeedFile].
package menustore
