// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kiosk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/kiosk/lib/codec"
)

// sessionRecord is the on-disk CBOR layout of a FileStore.
type sessionRecord struct {
	Values map[string]string `cbor:"values"`
}

// FileStore is a SessionStore backed by one CBOR file. Each Set or
// Delete rewrites the file atomically (temp file plus rename), so a
// crash never leaves a torn record.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store persisting to path. The file is created
// on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// SessionFilePath returns the per-terminal-session store path inside
// directory. The file name embeds the session ID of the calling
// process, so every login shell gets its own admin flag and the flag
// does not leak into a new session. An empty directory uses
// $XDG_RUNTIME_DIR, falling back to the system temp directory.
func SessionFilePath(directory string) (string, error) {
	if directory == "" {
		directory = os.Getenv("XDG_RUNTIME_DIR")
	}
	if directory == "" {
		directory = os.TempDir()
	}
	sessionID, err := unix.Getsid(0)
	if err != nil {
		return "", fmt.Errorf("reading session id: %w", err)
	}
	name := "kiosk-session-" + strconv.Itoa(sessionID) + ".cbor"
	return filepath.Join(directory, name), nil
}

// Get returns the value for key, or "" when the key or the file is
// absent.
func (store *FileStore) Get(key string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, err := store.read()
	if err != nil {
		return "", err
	}
	return record.Values[key], nil
}

// Set stores value under key.
func (store *FileStore) Set(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, err := store.read()
	if err != nil {
		return err
	}
	record.Values[key] = value
	return store.write(record)
}

// Delete removes key. Removing the last key deletes the file.
func (store *FileStore) Delete(key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, err := store.read()
	if err != nil {
		return err
	}
	if _, exists := record.Values[key]; !exists {
		return nil
	}
	delete(record.Values, key)
	if len(record.Values) == 0 {
		if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing session file %s: %w", store.path, err)
		}
		return nil
	}
	return store.write(record)
}

func (store *FileStore) read() (sessionRecord, error) {
	record := sessionRecord{Values: make(map[string]string)}

	data, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return record, nil
		}
		return record, fmt.Errorf("reading session file %s: %w", store.path, err)
	}
	if err := codec.Unmarshal(data, &record); err != nil {
		diagnostic, _ := codec.Diagnose(data)
		return record, fmt.Errorf("parsing session file %s: %w (contents: %s)", store.path, err, diagnostic)
	}
	if record.Values == nil {
		record.Values = make(map[string]string)
	}
	return record, nil
}

func (store *FileStore) write(record sessionRecord) error {
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}

	directory := filepath.Dir(store.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	temporary, err := os.CreateTemp(directory, ".kiosk-session-*")
	if err != nil {
		return fmt.Errorf("creating temporary session file: %w", err)
	}
	temporaryPath := temporary.Name()
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing session file: %w", err)
	}
	// CreateTemp opens with mode 0600, which the rename preserves.
	if err := os.Rename(temporaryPath, store.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("replacing session file %s: %w", store.path, err)
	}
	return nil
}

// MemoryStore is an in-process SessionStore. The zero value is ready
// to use.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// Get returns the value for key or "".
func (store *MemoryStore) Get(key string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.values[key], nil
}

// Set stores value under key.
func (store *MemoryStore) Set(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.values == nil {
		store.values = make(map[string]string)
	}
	store.values[key] = value
	return nil
}

// Delete removes key.
func (store *MemoryStore) Delete(key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.values, key)
	return nil
}
