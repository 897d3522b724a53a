// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrEmpty is returned when a secret would have zero length.
var ErrEmpty = errors.New("secret: empty secret")

// Buffer is an mlock'd, non-dumpable byte region. A Buffer must not be
// copied. Reading after Close panics; Close is idempotent.
type Buffer struct {
	mu     sync.Mutex
	region []byte
	closed bool
}

// New copies source into a fresh protected region and zeroes source.
func New(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, ErrEmpty
	}

	region, err := unix.Mmap(-1, 0, len(source), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap: %w", err)
	}
	if err := unix.Mlock(region); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: mlock: %w", err)
	}
	if err := unix.Madvise(region, unix.MADV_DONTDUMP); err != nil {
		unix.Munlock(region)
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: madvise(MADV_DONTDUMP): %w", err)
	}

	copy(region, source)
	Zero(source)
	return &Buffer{region: region}, nil
}

// FromString copies a string into a protected region. The string's own
// heap memory cannot be zeroed; use this only where the secret already
// arrived as a string (a text input's value).
func FromString(value string) (*Buffer, error) {
	return New([]byte(value))
}

// Bytes returns the protected bytes. The slice aliases the mmap region
// and is invalid after Close.
func (buffer *Buffer) Bytes() []byte {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	buffer.mustBeOpen()
	return buffer.region
}

// String returns a heap copy of the secret for string-typed APIs.
func (buffer *Buffer) String() string {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	buffer.mustBeOpen()
	return string(buffer.region)
}

// Len returns the secret length, or 0 after Close.
func (buffer *Buffer) Len() int {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	return len(buffer.region)
}

// Equal compares the secret with other in constant time.
func (buffer *Buffer) Equal(other []byte) bool {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	buffer.mustBeOpen()
	return subtle.ConstantTimeCompare(buffer.region, other) == 1
}

// Close zeroes, unlocks, and unmaps the region.
func (buffer *Buffer) Close() error {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	if buffer.closed {
		return nil
	}
	buffer.closed = true

	Zero(buffer.region)
	err := errors.Join(unix.Munlock(buffer.region), unix.Munmap(buffer.region))
	buffer.region = nil
	if err != nil {
		return fmt.Errorf("secret: releasing region: %w", err)
	}
	return nil
}

func (buffer *Buffer) mustBeOpen() {
	if buffer.closed {
		panic("secret: use of closed buffer")
	}
}

// Zero overwrites data with zeros.
func Zero(data []byte) {
	clear(data)
}
