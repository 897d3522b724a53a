// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ControlID names an interactive control on the kiosk screen.
type ControlID string

// Controls of the kiosk screen. Buttons are activated by key presses
// routed according to which surface has focus; inputs report changes
// and submissions.
const (
	ControlCategoryBar   ControlID = "category-bar"
	ControlAddToCart     ControlID = "add-to-cart"
	ControlDecrement     ControlID = "decrement"
	ControlCartToggle    ControlID = "cart-toggle-btn"
	ControlCloseDrawer   ControlID = "close-drawer"
	ControlCheckout      ControlID = "checkout-btn"
	ControlSuccessClose  ControlID = "success-close-btn"
	ControlSearchTrigger ControlID = "search-trigger"
	ControlCloseSearch   ControlID = "close-search"
	ControlGlobalSearch  ControlID = "global-search"
	ControlAdminLogin    ControlID = "admin-login-btn"
	ControlLoginPrompt   ControlID = "login-prompt"
	ControlLogout        ControlID = "logout-btn"
	ControlAddItem       ControlID = "add-item-btn"
	ControlEditItem      ControlID = "edit-item"
	ControlItemForm      ControlID = "item-form"
	ControlModalCancel   ControlID = "modal-cancel"
	ControlAlertDismiss  ControlID = "alert-ok"
	ControlReload        ControlID = "reload-btn"
)

// EventKind is what happened to a control.
type EventKind int

const (
	// EventActivate is a button press.
	EventActivate EventKind = iota
	// EventInput is a change to an input's value.
	EventInput
	// EventSubmit is a form or prompt submission.
	EventSubmit
	// EventDismiss closes a prompt without submitting.
	EventDismiss
)

// String returns the event kind's name for logs.
func (kind EventKind) String() string {
	switch kind {
	case EventActivate:
		return "activate"
	case EventInput:
		return "input"
	case EventSubmit:
		return "submit"
	case EventDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// Event carries the payload of a control event: the category for the
// category bar, the item name for cart and edit controls, the input
// value for inputs.
type Event struct {
	Kind  EventKind
	Value string
}

type controlKey struct {
	control ControlID
	kind    EventKind
}

type controlHandler func(model *Model, event Event) tea.Cmd

// controlTable maps (control, event kind) to the handler that mutates
// state for it. Built once per Model.
type controlTable map[controlKey]controlHandler

func defaultControlTable() controlTable {
	return controlTable{
		{ControlCategoryBar, EventActivate}:   handleCategorySelect,
		{ControlAddToCart, EventActivate}:     handleAddToCart,
		{ControlDecrement, EventActivate}:     handleDecrement,
		{ControlCartToggle, EventActivate}:    handleCartToggle,
		{ControlCloseDrawer, EventActivate}:   handleCloseDrawer,
		{ControlCheckout, EventActivate}:      handleCheckout,
		{ControlSuccessClose, EventActivate}:  handleSuccessClose,
		{ControlSearchTrigger, EventActivate}: handleSearchOpen,
		{ControlCloseSearch, EventActivate}:   handleSearchClose,
		{ControlGlobalSearch, EventInput}:     handleSearchInput,
		{ControlAdminLogin, EventActivate}:    handleLoginOpen,
		{ControlLoginPrompt, EventSubmit}:     handleLoginSubmit,
		{ControlLoginPrompt, EventDismiss}:    handleLoginDismiss,
		{ControlLogout, EventActivate}:        handleLogout,
		{ControlAddItem, EventActivate}:       handleAddItemOpen,
		{ControlEditItem, EventActivate}:      handleEditItemOpen,
		{ControlItemForm, EventSubmit}:        handleItemFormSubmit,
		{ControlModalCancel, EventActivate}:   handleModalCancel,
		{ControlAlertDismiss, EventActivate}:  handleAlertDismiss,
		{ControlReload, EventActivate}:        handleReload,
	}
}

// dispatch routes one control event through the table. Controls that
// are not on screen in the current session state (admin controls for
// a guest, login for an admin) are ignored. A pair with no bound
// handler is logged and ignored, so one missing binding never takes
// down the other controls.
func (model *Model) dispatch(control ControlID, kind EventKind, value string) tea.Cmd {
	if !model.controlPresent(control) {
		model.logger.Debug("control not present", "control", string(control), "event", kind.String())
		return nil
	}
	handler, bound := model.controls[controlKey{control: control, kind: kind}]
	if !bound {
		model.logger.Warn("no handler bound for control", "control", string(control), "event", kind.String())
		return nil
	}
	return handler(model, Event{Kind: kind, Value: value})
}

// controlPresent reports whether control is rendered for the current
// session. Admin gating is consulted here and at render time only.
func (model *Model) controlPresent(control ControlID) bool {
	switch control {
	case ControlAdminLogin, ControlLoginPrompt:
		return !model.state.Session.IsAdmin()
	case ControlLogout, ControlAddItem, ControlEditItem:
		return model.state.Session.IsAdmin()
	default:
		return true
	}
}

func handleCategorySelect(model *Model, event Event) tea.Cmd {
	if model.state.SelectCategory(event.Value) {
		model.applyFilter()
	}
	model.renderCategoryBar()
	return nil
}

func handleAddToCart(model *Model, event Event) tea.Cmd {
	if event.Value == "" {
		return nil
	}
	if model.cartLocked() {
		return model.setNotice(cartLockedNotice, noticeInfo)
	}
	model.state.Cart.Add(event.Value)
	model.refreshCart()
	return model.ignitePulse(event.Value)
}

func handleDecrement(model *Model, event Event) tea.Cmd {
	if event.Value == "" {
		return nil
	}
	if model.cartLocked() {
		return model.setNotice(cartLockedNotice, noticeInfo)
	}
	model.state.Cart.Remove(event.Value)
	model.refreshCart()
	return nil
}

const cartLockedNotice = "The cart is locked while the order is submitted"

// cartLocked reports whether a checkout is in flight. The submitted
// order lines were taken from the cart as it stood, so the cart must
// not change until the result arrives.
func (model *Model) cartLocked() bool {
	return model.guards.inFlight(workflowCheckout)
}

func handleCartToggle(model *Model, _ Event) tea.Cmd {
	model.drawerOpen = !model.drawerOpen
	model.drawerCursor = 0
	return nil
}

func handleCloseDrawer(model *Model, _ Event) tea.Cmd {
	model.drawerOpen = false
	return nil
}

func handleCheckout(model *Model, _ Event) tea.Cmd {
	return model.startCheckout()
}

func handleSuccessClose(model *Model, _ Event) tea.Cmd {
	model.receipt = nil
	return nil
}

func handleSearchOpen(model *Model, _ Event) tea.Cmd {
	model.searching = true
	model.searchInput.SetValue(model.state.Filter.Keyword)
	model.searchInput.CursorEnd()
	return model.searchInput.Focus()
}

func handleSearchClose(model *Model, _ Event) tea.Cmd {
	model.searching = false
	model.searchInput.Blur()
	return nil
}

func handleSearchInput(model *Model, event Event) tea.Cmd {
	model.state.SetKeyword(event.Value)
	model.applyFilter()
	return nil
}

func handleLoginOpen(model *Model, _ Event) tea.Cmd {
	prompt := newLoginPrompt()
	model.loginPrompt = &prompt
	return model.loginPrompt.input.Focus()
}

func handleLoginSubmit(model *Model, event Event) tea.Cmd {
	model.loginPrompt = nil
	return model.startLogin(event.Value)
}

func handleLoginDismiss(model *Model, _ Event) tea.Cmd {
	model.loginPrompt = nil
	return nil
}

func handleLogout(model *Model, _ Event) tea.Cmd {
	if err := model.state.Session.DisableAdmin(); err != nil {
		model.logger.Warn("clearing admin flag from session store failed", "error", err)
	}
	model.rebuildGrid()
	return model.setNotice("Logged out", noticeInfo)
}

func handleAddItemOpen(model *Model, _ Event) tea.Cmd {
	form := newItemForm(nil)
	model.form = &form
	return model.form.focusCurrent()
}

func handleEditItemOpen(model *Model, event Event) tea.Cmd {
	item, exists := model.state.Catalog.Lookup(event.Value)
	if !exists {
		return nil
	}
	form := newItemForm(&item)
	model.form = &form
	return model.form.focusCurrent()
}

func handleItemFormSubmit(model *Model, _ Event) tea.Cmd {
	return model.startUpsert()
}

func handleModalCancel(model *Model, _ Event) tea.Cmd {
	model.form = nil
	return nil
}

func handleAlertDismiss(model *Model, _ Event) tea.Cmd {
	model.alert = ""
	return nil
}

func handleReload(model *Model, _ Event) tea.Cmd {
	return model.startLoad(false)
}
