// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for kiosk packages.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve (select with a time.After fallback) so a test that waits on a
// channel fails with a message instead of hanging the suite.
//
// Helpers call t.Fatalf on failure rather than returning errors, since
// test setup failures are not recoverable.
//
// This package has no kiosk-internal dependencies.
package testutil
