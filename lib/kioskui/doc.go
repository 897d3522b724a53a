// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kioskui is the terminal kiosk: a bubbletea program that
// renders the menu grid, category bar, cart drawer, and admin controls
// from a [kiosk.State], and turns key presses into state mutations and
// menu service calls.
//
// The flow is one-directional. A key press resolves to a control and
// event kind; the control table maps that pair to a handler; the
// handler mutates the state (or starts an asynchronous workflow as a
// tea.Cmd); the affected surfaces are re-projected in the same Update
// call. Projections live in project.go and are pure functions of the
// state, so the view is a function of (state, UI state) and rendering
// twice in a row produces the same frame.
//
// Each workflow that calls the menu service (load, login, checkout,
// item upsert) has an idle/in-flight guard. A trigger that arrives
// while the workflow is in flight is ignored, so holding Enter on the
// checkout control submits one order.
package kioskui
