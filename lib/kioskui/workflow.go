// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/kiosk/lib/kioskapi"
	"github.com/bureau-foundation/kiosk/lib/menu"
	"github.com/bureau-foundation/kiosk/lib/secret"
)

// API is the menu service as the kiosk uses it. *kioskapi.Client
// implements it; each method bounds itself with the client's timeout.
type API interface {
	FetchMenu(ctx context.Context) (*menu.Catalog, error)
	SubmitOrder(ctx context.Context, names []string) (kioskapi.OrderReceipt, error)
	Authenticate(ctx context.Context, credential *secret.Buffer) error
	UpsertItem(ctx context.Context, item menu.Item) error
}

// workflow identifies an asynchronous operation with one outbound
// call.
type workflow int

const (
	workflowLoad workflow = iota
	workflowLogin
	workflowCheckout
	workflowUpsert
	workflowCount
)

func (kind workflow) String() string {
	switch kind {
	case workflowLoad:
		return "load"
	case workflowLogin:
		return "login"
	case workflowCheckout:
		return "checkout"
	case workflowUpsert:
		return "upsert"
	default:
		return "unknown"
	}
}

// guardSet holds the idle/in-flight state of every workflow.
type guardSet [workflowCount]bool

// begin moves kind from idle to in flight. Returns false if it was
// already in flight.
func (guards *guardSet) begin(kind workflow) bool {
	if guards[kind] {
		return false
	}
	guards[kind] = true
	return true
}

func (guards *guardSet) end(kind workflow) {
	guards[kind] = false
}

func (guards *guardSet) inFlight(kind workflow) bool {
	return guards[kind]
}

// Workflow results, delivered back into Update.
type (
	catalogLoadedMsg struct {
		catalog *menu.Catalog
		err     error
	}

	loginResultMsg struct {
		err error
	}

	checkoutResultMsg struct {
		receipt kioskapi.OrderReceipt
		units   int
		total   float64
		err     error
	}

	upsertResultMsg struct {
		item menu.Item
		err  error
	}
)

// startLoad fetches the catalog. When a load is already in flight the
// trigger is dropped, unless queue is set: then one more load runs
// after the current one, so a save is never followed by a stale
// catalog.
func (model *Model) startLoad(queue bool) tea.Cmd {
	if !model.guards.begin(workflowLoad) {
		if queue {
			model.reloadPending = true
		}
		return nil
	}
	api, ctx := model.api, model.ctx
	return func() tea.Msg {
		catalog, err := api.FetchMenu(ctx)
		return catalogLoadedMsg{catalog: catalog, err: err}
	}
}

// finishLoad installs a fetched catalog, or keeps the previous one and
// raises the blocking alert.
func (model *Model) finishLoad(message catalogLoadedMsg) tea.Cmd {
	model.guards.end(workflowLoad)
	model.loading = false

	if message.err != nil {
		text := "Could not load the menu: " + kioskapi.Message(message.err)
		model.loadError = text
		model.alert = text
		model.logger.Error("loading menu failed", "error", message.err)
	} else {
		model.loadError = ""
		dropped := model.state.ReplaceCatalog(message.catalog)
		if len(dropped) > 0 {
			model.logger.Info("dropped cart entries for removed items", "items", dropped)
		}
		model.rebuildGrid()
		model.renderCategoryBar()
		model.refreshCart()
	}

	if model.reloadPending {
		model.reloadPending = false
		return model.startLoad(false)
	}
	return nil
}

// startLogin moves the typed credential into a locked buffer and
// authenticates. The buffer is closed once the call returns.
func (model *Model) startLogin(password string) tea.Cmd {
	if !model.guards.begin(workflowLogin) {
		return nil
	}
	credential, err := secret.FromString(password)
	if err != nil {
		model.guards.end(workflowLogin)
		if errors.Is(err, secret.ErrEmpty) {
			return model.setNotice("Enter the admin password", noticeError)
		}
		model.logger.Error("protecting credential failed", "error", err)
		return model.setNotice("Login failed: "+err.Error(), noticeError)
	}

	api, ctx := model.api, model.ctx
	return func() tea.Msg {
		defer credential.Close()
		return loginResultMsg{err: api.Authenticate(ctx, credential)}
	}
}

func (model *Model) finishLogin(message loginResultMsg) tea.Cmd {
	model.guards.end(workflowLogin)

	if message.err != nil {
		var authErr *kioskapi.AuthError
		if errors.As(message.err, &authErr) && authErr.Rejected {
			text := authErr.Message
			if text == "" {
				text = "wrong password"
			}
			return model.setNotice("Login rejected: "+text, noticeError)
		}
		model.logger.Warn("admin login failed", "error", message.err)
		return model.setNotice("Login failed: "+kioskapi.Message(message.err), noticeError)
	}

	if err := model.state.Session.EnableAdmin(); err != nil {
		model.logger.Warn("recording admin flag in session store failed", "error", err)
	}
	model.rebuildGrid()
	return model.setNotice("Admin mode enabled", noticeSuccess)
}

// startCheckout submits the cart as one order line per unit. A cart
// with nothing resolvable leaves the control disabled and makes no
// call.
func (model *Model) startCheckout() tea.Cmd {
	if !model.state.CanCheckout() {
		return nil
	}
	if !model.guards.begin(workflowCheckout) {
		return nil
	}
	names := model.state.Cart.OrderLines(model.state.Catalog)
	total := model.state.CartTotals().Total

	api, ctx := model.api, model.ctx
	return func() tea.Msg {
		receipt, err := api.SubmitOrder(ctx, names)
		return checkoutResultMsg{receipt: receipt, units: len(names), total: total, err: err}
	}
}

func (model *Model) finishCheckout(message checkoutResultMsg) tea.Cmd {
	model.guards.end(workflowCheckout)

	if message.err != nil {
		model.logger.Warn("order submission failed", "error", message.err)
		return model.setNotice("Order failed: "+kioskapi.Message(message.err), noticeError)
	}

	receipt := message.receipt
	if receipt.Total == 0 {
		receipt.Total = message.total
	}
	model.logger.Info("order submitted", "order_id", receipt.OrderID, "units", message.units, "total", receipt.Total)

	model.state.Cart.Clear()
	model.refreshCart()
	model.drawerOpen = false
	model.receipt = &receipt
	return nil
}

// startUpsert validates the form locally and saves the item. A local
// validation failure stays in the modal and makes no call.
func (model *Model) startUpsert() tea.Cmd {
	if model.form == nil {
		return nil
	}
	item, err := model.form.item(model.settings.CurrencySymbol)
	if err != nil {
		model.form.err = err.Error()
		return nil
	}
	if !model.guards.begin(workflowUpsert) {
		model.form.err = upsertBusyMessage
		return nil
	}
	model.form.err = ""
	model.form.submitting = true

	api, ctx := model.api, model.ctx
	return func() tea.Msg {
		return upsertResultMsg{item: item, err: api.UpsertItem(ctx, item)}
	}
}

// upsertBusyMessage is shown in a modal whose save was refused because
// an earlier save has not returned yet.
const upsertBusyMessage = "Still saving the previous item, try again shortly"

// finishUpsert applies a save result. Only the modal that submitted
// the save is closed or shows the error; a modal opened after that
// one was cancelled keeps its values.
func (model *Model) finishUpsert(message upsertResultMsg) tea.Cmd {
	model.guards.end(workflowUpsert)
	saving := model.form != nil && model.form.submitting

	if message.err != nil {
		model.logger.Warn("saving menu item failed", "item", message.item.Name, "error", message.err)
		text := "Save failed: " + kioskapi.Message(message.err)
		if !saving {
			return model.setNotice(text, noticeError)
		}
		model.form.submitting = false
		model.form.err = text
		return nil
	}

	if saving {
		model.form = nil
	} else if model.form != nil && model.form.err == upsertBusyMessage {
		model.form.err = ""
	}
	return tea.Batch(
		model.setNotice("Saved "+message.item.Name, noticeSuccess),
		model.startLoad(true),
	)
}

// pulseTickMsg re-renders while the badge or a card is pulsing.
type pulseTickMsg struct{}

func schedulePulseTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pulseTickMsg{}
	})
}
