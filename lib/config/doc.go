// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the kiosk and
// the menu service.
//
// Configuration comes from a single file named by the KIOSK_CONFIG
// environment variable (via [Load]) or a --config flag (via
// [LoadFile]). [Resolve] implements the command-line precedence: the
// flag, then the variable, then the built-in [Default]. There is no
// directory search.
//
// The file may contain environment sections (development, staging,
// production) whose non-empty fields override base values when
// [Config].Environment matches. Production without an explicit section
// is stricter: it refuses to fall back to the demo admin password.
//
// After loading, ${HOME}, ${KIOSK_ROOT}, and ${VAR:-default} patterns
// are expanded in path fields. No other environment variables override
// config values.
//
// This package depends on no other kiosk packages.
package config
