// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"context"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/kiosk/lib/kiosk"
	"github.com/bureau-foundation/kiosk/lib/kioskapi"
	"github.com/bureau-foundation/kiosk/lib/menu"
	"github.com/bureau-foundation/kiosk/lib/secret"
	"github.com/bureau-foundation/kiosk/lib/tui"
)

func TestMain(m *testing.M) {
	tui.ApplyColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

var testClock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testItems() []menu.Item {
	return []menu.Item{
		{Name: "宫保鸡丁", Price: 28, Category: "中式经典", ImageURL: "https://images.example.com/kungpao.jpg"},
		{Name: "澳洲M5牛排", Price: 128, Category: "西式料理"},
		{Name: "冰美式", Price: 15, Category: "饮品甜点", ImageURL: "not a url"},
	}
}

// fakeAPI is an in-memory menu service.
type fakeAPI struct {
	mu sync.Mutex

	items    []menu.Item
	fetchErr error
	fetches  int

	orders   [][]string
	orderErr error
	receipt  kioskapi.OrderReceipt

	password  string
	authCalls int

	upserts   []menu.Item
	upsertErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		items:    testItems(),
		password: "admin123",
		receipt:  kioskapi.OrderReceipt{OrderID: "ord-1"},
	}
}

func (api *fakeAPI) FetchMenu(context.Context) (*menu.Catalog, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.fetches++
	if api.fetchErr != nil {
		return nil, api.fetchErr
	}
	return menu.NewCatalog(slices.Clone(api.items), ""), nil
}

func (api *fakeAPI) SubmitOrder(_ context.Context, names []string) (kioskapi.OrderReceipt, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.orderErr != nil {
		return kioskapi.OrderReceipt{}, api.orderErr
	}
	api.orders = append(api.orders, slices.Clone(names))
	return api.receipt, nil
}

func (api *fakeAPI) Authenticate(_ context.Context, credential *secret.Buffer) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.authCalls++
	if !credential.Equal([]byte(api.password)) {
		return &kioskapi.AuthError{Rejected: true, Message: "wrong password"}
	}
	return nil
}

func (api *fakeAPI) UpsertItem(_ context.Context, item menu.Item) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.upsertErr != nil {
		return api.upsertErr
	}
	api.upserts = append(api.upserts, item)
	for index := range api.items {
		if api.items[index].Name == item.Name {
			api.items[index] = item
			return nil
		}
	}
	api.items = append(api.items, item)
	return nil
}

func (api *fakeAPI) set(mutate func(api *fakeAPI)) {
	api.mu.Lock()
	defer api.mu.Unlock()
	mutate(api)
}

// newTestModel builds a model over a fresh state and runs the initial
// load. A non-nil store is used as the session store.
func newTestModel(t *testing.T, api API, store kiosk.SessionStore) Model {
	t.Helper()
	if store == nil {
		store = &kiosk.MemoryStore{}
	}
	state := kiosk.NewState(kiosk.NewSessionFlags(store, nil))
	model := NewModel(Options{
		API:   api,
		State: state,
		Now:   func() time.Time { return testClock },
	})
	return drain(t, model, model.Init())
}

// keyMsg converts a key name into the message bubbletea would deliver.
func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
}

// press sends key names one at a time, running any workflow they
// start to completion.
func press(t *testing.T, model Model, names ...string) Model {
	t.Helper()
	for _, name := range names {
		var cmd tea.Cmd
		model, cmd = pressRaw(model, name)
		model = drain(t, model, cmd)
	}
	return model
}

// pressRaw sends one key and returns the command without running it.
func pressRaw(model Model, name string) (Model, tea.Cmd) {
	updated, cmd := model.Update(keyMsg(name))
	return updated.(Model), cmd
}

// typeText types each rune of text as its own key press.
func typeText(t *testing.T, model Model, text string) Model {
	t.Helper()
	for _, character := range text {
		model = press(t, model, string(character))
	}
	return model
}

// drain runs cmd and feeds workflow results back into Update until no
// workflow message remains. Timer and cursor-blink commands are left
// unresolved.
func drain(t *testing.T, model Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, message := range collect(cmd) {
		switch message.(type) {
		case catalogLoadedMsg, loginResultMsg, checkoutResultMsg, upsertResultMsg:
			updated, next := model.Update(message)
			model = drain(t, updated.(Model), next)
		}
	}
	return model
}

// collect runs cmd, expanding batches, and returns every message that
// arrives promptly.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()

	select {
	case message := <-result:
		if batch, ok := message.(tea.BatchMsg); ok {
			var messages []tea.Msg
			for _, inner := range batch {
				messages = append(messages, collect(inner)...)
			}
			return messages
		}
		return []tea.Msg{message}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func visibleNames(model Model) []string {
	var names []string
	for _, card := range model.cards {
		if card.Visible {
			names = append(names, card.Name)
		}
	}
	return names
}

func teaWindowSize(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: width, Height: height}
}
