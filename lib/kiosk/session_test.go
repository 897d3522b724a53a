// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiosk

import (
	"errors"
	"testing"
)

func TestSessionFlags_StartsGuestWithEmptyStore(t *testing.T) {
	flags := NewSessionFlags(&MemoryStore{}, nil)
	if flags.IsAdmin() {
		t.Error("new session with empty store is admin")
	}
}

func TestSessionFlags_ResumesAdminFromStore(t *testing.T) {
	store := &MemoryStore{}
	store.Set(AdminSessionKey, "true")

	flags := NewSessionFlags(store, nil)
	if !flags.IsAdmin() {
		t.Error("stored admin flag not resumed")
	}
}

func TestSessionFlags_IgnoresNonTrueValue(t *testing.T) {
	store := &MemoryStore{}
	store.Set(AdminSessionKey, "yes")

	if NewSessionFlags(store, nil).IsAdmin() {
		t.Error("value other than \"true\" treated as admin")
	}
}

func TestSessionFlags_EnableIsIdempotent(t *testing.T) {
	store := &MemoryStore{}
	flags := NewSessionFlags(store, nil)

	if err := flags.EnableAdmin(); err != nil {
		t.Fatalf("EnableAdmin: %v", err)
	}
	onceAdmin := flags.IsAdmin()
	onceStored, _ := store.Get(AdminSessionKey)

	if err := flags.EnableAdmin(); err != nil {
		t.Fatalf("EnableAdmin (second): %v", err)
	}
	twiceStored, _ := store.Get(AdminSessionKey)

	if flags.IsAdmin() != onceAdmin || twiceStored != onceStored {
		t.Errorf("second EnableAdmin changed state: admin %v->%v, stored %q->%q",
			onceAdmin, flags.IsAdmin(), onceStored, twiceStored)
	}
	if twiceStored != "true" {
		t.Errorf("stored value = %q, want \"true\"", twiceStored)
	}
}

func TestSessionFlags_DisableClearsStore(t *testing.T) {
	store := &MemoryStore{}
	flags := NewSessionFlags(store, nil)
	flags.EnableAdmin()

	if err := flags.DisableAdmin(); err != nil {
		t.Fatalf("DisableAdmin: %v", err)
	}
	if flags.IsAdmin() {
		t.Error("still admin after DisableAdmin")
	}
	if value, _ := store.Get(AdminSessionKey); value != "" {
		t.Errorf("store still holds %q after logout", value)
	}
	if NewSessionFlags(store, nil).IsAdmin() {
		t.Error("fresh flags resumed admin after logout")
	}
}

type failingStore struct{ err error }

func (store failingStore) Get(string) (string, error) { return "", store.err }
func (store failingStore) Set(string, string) error   { return store.err }
func (store failingStore) Delete(string) error        { return store.err }

func TestSessionFlags_StoreFailures(t *testing.T) {
	storeErr := errors.New("disk full")
	flags := NewSessionFlags(failingStore{err: storeErr}, nil)
	if flags.IsAdmin() {
		t.Fatal("read failure resulted in admin")
	}

	err := flags.EnableAdmin()
	if !errors.Is(err, storeErr) {
		t.Errorf("EnableAdmin error = %v, want wrapping %v", err, storeErr)
	}
	if !flags.IsAdmin() {
		t.Error("in-memory transition reverted on persistence failure")
	}
}
