// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint helper shared by the kiosk
// binaries: reporting the error returned by run() when the structured
// logger may not exist yet (or, for the kiosk, once the TUI has
// released the terminal) and exiting with the error's category code.
package process
