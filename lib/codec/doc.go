// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the kiosk's CBOR encoding configuration.
//
// The kiosk uses two serialization formats with a clear boundary:
// JSON on the wire to the menu service, and CBOR for local state files
// (the per-session admin flag record). Keeping one shared encoding mode
// here means every state file is written identically: Core
// Deterministic Encoding (RFC 8949 §4.2) with sorted map keys and
// smallest integer encoding, so the same logical record always produces
// the same bytes.
//
//	data, err := codec.Marshal(record)
//	err = codec.Unmarshal(data, &record)
//
// Types that are only ever stored as CBOR carry `cbor` struct tags.
package codec
