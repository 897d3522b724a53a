// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kiosk holds the kiosk's single mutable application state.
//
// [State] exclusively owns the four leaf components: the current
// [menu.Catalog], the [cart.Ledger], the [Filter] (active category and
// search keyword), and the [SessionFlags] admin flag. One State exists
// per program run and is passed by reference to the UI model; nothing
// in this package is global.
//
// [SessionFlags] mirrors the admin flag into a [SessionStore] under
// [AdminSessionKey] so that restarting the kiosk inside the same
// terminal session resumes admin mode without re-authenticating.
// [FileStore] is the production store: a CBOR record in the runtime
// directory named after the terminal session ID. [MemoryStore] backs
// tests.
//
// State is not safe for concurrent use. The UI mutates it only from
// its event loop, and every mutation is followed by a re-projection in
// the same event callback.
package kiosk
