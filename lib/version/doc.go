// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for kiosk
// binaries.
//
// Values are injected at build time via -ldflags:
//
//	go build -ldflags "-X github.com/bureau-foundation/kiosk/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version
