// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the pieces shared by the kiosk's command binaries:
// categorized errors with exit codes ([ToolError]), the command logger
// ([NewCommandLogger]), and the slog plumbing used when a TUI owns the
// terminal ([OpenFileLogHandler], [FanoutHandler]).
package cli
