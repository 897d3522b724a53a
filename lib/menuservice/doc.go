// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package menuservice is the reference HTTP backend for the kiosk.
//
// It serves four JSON endpoints, each answering with the envelope
// {"code", "msg", "data"} that the kiosk client expects:
//
//	GET  /api/menu        the full menu, keyed by item name
//	POST /api/order       price and record an order
//	POST /api/admin/login check the admin password
//	POST /api/admin/item  create or fully replace one item
//
// The menu response carries a content-hash ETag so a client polling
// an unchanged menu gets 304 Not Modified. Responses are gzip
// compressed when the client accepts it and compression is enabled.
// State lives in a [menustore.Store].
package menuservice
