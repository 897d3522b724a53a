// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds credentials in memory that the Go runtime never
// sees.
//
// The kiosk handles two secrets: the admin password typed into the
// login prompt, and the plaintext admin password the menu service may
// read from a file at startup to derive its bcrypt hash. Both go into a
// [Buffer]: an anonymous mmap region locked into RAM (no swap), marked
// MADV_DONTDUMP (no core dumps), and zeroed and unmapped on Close.
//
// Heap copies are unavoidable at API boundaries that take strings or
// encode JSON. [Buffer.String] makes that copy explicit so call sites
// are easy to audit.
package secret
