// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kioskapi is the kiosk's typed HTTP client for the menu
// service.
//
// Four operations cover everything the kiosk needs: [Client.FetchMenu],
// [Client.SubmitOrder], [Client.Authenticate], and [Client.UpsertItem].
// Every request and response is JSON; responses use the envelope
//
//	{"code": 200, "msg": "...", "data": ...}
//
// and any non-2xx status or envelope code other than 200 is a typed
// failure, never an empty result. Each call runs under a bounded
// timeout; an expired deadline surfaces as a [NetworkError] with
// Timeout set, wrapped by the operation's own error type
// ([OrderError], [AuthError], [UpsertError]). [Message] extracts the
// text the UI shows for any of them.
//
// The menu object is decoded token by token so the resulting
// [menu.Catalog] keeps the service's listing order.
package kioskapi
