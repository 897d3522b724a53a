// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiosk

import (
	"fmt"
	"log/slog"
)

// AdminSessionKey is the session store key recording admin mode. Its
// value is "true" when set and the key is absent otherwise.
const AdminSessionKey = "isAdmin"

// SessionStore is a session-scoped string key/value store. Get returns
// "" for absent keys.
type SessionStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// SessionFlags is the Guest/Admin state machine. The in-memory flag is
// authoritative for the program run; the store is a mirror so a
// restart in the same session resumes admin mode.
type SessionFlags struct {
	isAdmin bool
	store   SessionStore
	logger  *slog.Logger
}

// NewSessionFlags reads the admin flag from store. A store read error
// is logged and treated as Guest. A nil logger discards.
func NewSessionFlags(store SessionStore, logger *slog.Logger) *SessionFlags {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	flags := &SessionFlags{store: store, logger: logger}

	value, err := store.Get(AdminSessionKey)
	if err != nil {
		logger.Warn("reading session store failed, starting as guest", "error", err)
		return flags
	}
	flags.isAdmin = value == "true"
	if flags.isAdmin {
		logger.Info("resuming admin session")
	}
	return flags
}

// IsAdmin reports whether the kiosk is in admin mode.
func (flags *SessionFlags) IsAdmin() bool {
	return flags.isAdmin
}

// EnableAdmin transitions to Admin and persists the flag. Calling it
// while already Admin rewrites the same value and leaves state
// unchanged. A persistence failure does not revert the in-memory
// transition; it is returned so the caller can surface it.
func (flags *SessionFlags) EnableAdmin() error {
	flags.isAdmin = true
	if err := flags.store.Set(AdminSessionKey, "true"); err != nil {
		return fmt.Errorf("persisting admin session: %w", err)
	}
	return nil
}

// DisableAdmin transitions to Guest and clears the stored flag.
func (flags *SessionFlags) DisableAdmin() error {
	flags.isAdmin = false
	if err := flags.store.Delete(AdminSessionKey); err != nil {
		return fmt.Errorf("clearing admin session: %w", err)
	}
	return nil
}
