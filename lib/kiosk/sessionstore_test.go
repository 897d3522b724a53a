// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiosk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_SetGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.cbor")
	store := NewFileStore(path)

	if value, err := store.Get(AdminSessionKey); err != nil || value != "" {
		t.Fatalf("Get on missing file = (%q, %v), want (\"\", nil)", value, err)
	}

	if err := store.Set(AdminSessionKey, "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %o, want 0600", mode)
	}

	reopened := NewFileStore(path)
	if value, err := reopened.Get(AdminSessionKey); err != nil || value != "true" {
		t.Errorf("Get after reopen = (%q, %v), want (\"true\", nil)", value, err)
	}

	if err := reopened.Delete(AdminSessionKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("session file still present after deleting last key: %v", err)
	}
	if err := reopened.Delete(AdminSessionKey); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestFileStore_KeepsOtherKeys(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.cbor"))
	store.Set("theme", "dark")
	store.Set(AdminSessionKey, "true")
	store.Delete(AdminSessionKey)

	if value, _ := store.Get("theme"); value != "dark" {
		t.Errorf("theme = %q after deleting admin key, want dark", value)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cbor")
	if err := os.WriteFile(path, []byte{0xff, 0x00, 0x13}, 0600); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileStore(path).Get(AdminSessionKey)
	if err == nil || !strings.Contains(err.Error(), "parsing session file") {
		t.Errorf("Get on corrupt file = %v, want parse error", err)
	}

	flags := NewSessionFlags(NewFileStore(path), nil)
	if flags.IsAdmin() {
		t.Error("corrupt session file resulted in admin")
	}
}

func TestSessionFilePath(t *testing.T) {
	directory := t.TempDir()
	path, err := SessionFilePath(directory)
	if err != nil {
		t.Fatalf("SessionFilePath: %v", err)
	}
	if filepath.Dir(path) != directory {
		t.Errorf("path %q not inside %q", path, directory)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "kiosk-session-") || !strings.HasSuffix(base, ".cbor") {
		t.Errorf("unexpected file name %q", base)
	}

	again, _ := SessionFilePath(directory)
	if again != path {
		t.Errorf("path not stable within a session: %q vs %q", path, again)
	}
}
