// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/kiosk/lib/kiosk"
	"github.com/bureau-foundation/kiosk/lib/kioskapi"
	"github.com/bureau-foundation/kiosk/lib/menu"
	"github.com/bureau-foundation/kiosk/lib/tui"
)

// Default terminal size until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// noticeFadeDelay is how long a workflow notice stays in the status
// bar.
const noticeFadeDelay = 5 * time.Second

// badgePulseKey is the pulse tracker key of the cart badge. Card
// pulses are keyed by item name, which never starts with a NUL.
const badgePulseKey = "\x00badge"

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeError
)

// noticeFadeMsg clears a notice unless a newer one replaced it.
type noticeFadeMsg struct {
	generation int
}

// Options configures a Model.
type Options struct {
	// API is the menu service. Required.
	API API

	// State is the application root. Required; its Session must be
	// set.
	State *kiosk.State

	Settings Settings

	// Logger receives workflow logs. Nil discards. When the logger's
	// handler includes a TUILogHandler, warnings reach the status bar.
	Logger *slog.Logger

	// Context bounds every outbound call. Nil uses
	// context.Background.
	Context context.Context

	// Now supplies pulse ignition times. Nil uses time.Now.
	Now func() time.Time
}

// Model is the top-level bubbletea model for the kiosk.
type Model struct {
	api      API
	state    *kiosk.State
	settings Settings
	theme    tui.Theme
	keys     KeyMap
	logger   *slog.Logger
	ctx      context.Context
	now      func() time.Time
	controls controlTable

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int

	guards        guardSet
	reloadPending bool // A save finished while a load was in flight.

	// Projected surfaces. Each is refreshed by the mutation that can
	// change it, never by View.
	categories []CategoryTab
	cards      []Card
	cart       CartView
	admin      AdminView

	// Menu load status. loadError persists until the next successful
	// load; alert blocks all other input until dismissed.
	loading   bool
	loadError string
	alert     string

	// Grid selection. selectedName keeps the selection stable across
	// filter changes; cursor indexes the visible cards.
	cursor       int
	selectedName string
	gridOffset   int // First visible grid row.

	drawerOpen   bool
	drawerCursor int

	searching   bool
	searchInput textinput.Model

	loginPrompt *loginPrompt
	form        *itemForm
	receipt     *kioskapi.OrderReceipt

	notice           string
	noticeLevel      noticeLevel
	noticeGeneration int

	logMessage    string
	logLevel      slog.Level
	logGeneration int

	pulses      *tui.PulseTracker
	tickRunning bool
}

// NewModel creates a Model over the given state. The first catalog
// load starts from Init.
func NewModel(options Options) Model {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx := options.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}

	searchInput := textinput.New()
	searchInput.Prompt = "Search: "
	searchInput.Placeholder = "item name"
	searchInput.CharLimit = 64

	model := Model{
		api:         options.API,
		state:       options.State,
		settings:    options.Settings.withDefaults(),
		theme:       tui.DefaultTheme,
		keys:        DefaultKeyMap,
		logger:      logger,
		ctx:         ctx,
		now:         now,
		controls:    defaultControlTable(),
		width:       defaultWidth,
		height:      defaultHeight,
		loading:     true,
		searchInput: searchInput,
		pulses:      tui.NewPulseTracker(tui.PulseDuration),
	}
	// The first load is in flight from construction until its result
	// arrives, so a reload pressed before then is dropped.
	model.guards.begin(workflowLoad)
	model.rebuildGrid()
	model.renderCategoryBar()
	model.refreshCart()
	return model
}

// Init implements tea.Model. Starts the first catalog load.
func (model Model) Init() tea.Cmd {
	return func() tea.Msg {
		catalog, err := model.api.FetchMenu(model.ctx)
		return catalogLoadedMsg{catalog: catalog, err: err}
	}
}

// Update implements tea.Model. Routes keys to the surface that has
// focus and folds workflow results into the state.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ensureCursorVisible()
		return model, nil

	case tea.KeyMsg:
		cmd := model.handleKey(message)
		return model, cmd

	case catalogLoadedMsg:
		return model, model.finishLoad(message)

	case loginResultMsg:
		return model, model.finishLogin(message)

	case checkoutResultMsg:
		return model, model.finishCheckout(message)

	case upsertResultMsg:
		return model, model.finishUpsert(message)

	case pulseTickMsg:
		if model.pulses.AnyActive(model.now()) {
			return model, schedulePulseTick(tui.PulseTickInterval)
		}
		model.tickRunning = false
		return model, nil

	case noticeFadeMsg:
		if message.generation == model.noticeGeneration {
			model.notice = ""
		}
		return model, nil

	case logRecordMsg:
		model.logMessage = message.Summary
		model.logLevel = message.Level
		model.logGeneration++
		generation := model.logGeneration
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{generation: generation}
		})

	case logRecordFadeMsg:
		if message.generation == model.logGeneration {
			model.logMessage = ""
		}
		return model, nil
	}

	// Cursor blink and other input bookkeeping.
	return model, model.forwardToFocusedInput(message)
}

// forwardToFocusedInput passes non-key messages to whichever text input
// has focus.
func (model *Model) forwardToFocusedInput(message tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case model.loginPrompt != nil:
		cmd = model.loginPrompt.update(message)
	case model.form != nil:
		cmd = model.form.update(message)
	case model.searching:
		model.searchInput, cmd = model.searchInput.Update(message)
	}
	return cmd
}

// handleKey routes a key press by focus. Overlays take precedence in
// stacking order: the blocking alert, then the order confirmation,
// then the login prompt, the item form, the search bar, and the cart
// drawer, before the grid.
func (model *Model) handleKey(message tea.KeyMsg) tea.Cmd {
	if message.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	switch {
	case model.alert != "":
		if key.Matches(message, model.keys.Submit, model.keys.Cancel) {
			return model.dispatch(ControlAlertDismiss, EventActivate, "")
		}
		return nil

	case model.receipt != nil:
		if key.Matches(message, model.keys.Submit, model.keys.Cancel) {
			return model.dispatch(ControlSuccessClose, EventActivate, "")
		}
		return nil

	case model.loginPrompt != nil:
		return model.handleLoginKeys(message)

	case model.form != nil:
		return model.handleFormKeys(message)

	case model.searching:
		return model.handleSearchKeys(message)

	case model.drawerOpen:
		return model.handleDrawerKeys(message)

	default:
		return model.handleGridKeys(message)
	}
}

func (model *Model) handleLoginKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Cancel):
		return model.dispatch(ControlLoginPrompt, EventDismiss, "")
	case key.Matches(message, model.keys.Submit):
		return model.dispatch(ControlLoginPrompt, EventSubmit, model.loginPrompt.take())
	default:
		return model.loginPrompt.update(message)
	}
}

func (model *Model) handleFormKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Cancel):
		return model.dispatch(ControlModalCancel, EventActivate, "")
	case key.Matches(message, model.keys.Submit), message.Type == tea.KeyCtrlS:
		return model.dispatch(ControlItemForm, EventSubmit, "")
	case key.Matches(message, model.keys.NextField):
		return model.form.moveFocus(1)
	case key.Matches(message, model.keys.PrevField):
		return model.form.moveFocus(-1)
	default:
		return model.form.update(message)
	}
}

func (model *Model) handleSearchKeys(message tea.KeyMsg) tea.Cmd {
	if key.Matches(message, model.keys.Cancel, model.keys.Submit) {
		return model.dispatch(ControlCloseSearch, EventActivate, "")
	}

	var cmd tea.Cmd
	model.searchInput, cmd = model.searchInput.Update(message)
	if value := model.searchInput.Value(); value != model.state.Filter.Keyword {
		return tea.Batch(cmd, model.dispatch(ControlGlobalSearch, EventInput, value))
	}
	return cmd
}

func (model *Model) handleDrawerKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Quit):
		return tea.Quit
	case key.Matches(message, model.keys.Cancel):
		return model.dispatch(ControlCloseDrawer, EventActivate, "")
	case key.Matches(message, model.keys.CartToggle):
		return model.dispatch(ControlCartToggle, EventActivate, "")
	case key.Matches(message, model.keys.Up):
		if model.drawerCursor > 0 {
			model.drawerCursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.drawerCursor < len(model.cart.Lines)-1 {
			model.drawerCursor++
		}
	case key.Matches(message, model.keys.Decrement):
		return model.dispatch(ControlDecrement, EventActivate, model.selectedCartLine())
	case key.Matches(message, model.keys.Checkout):
		return model.dispatch(ControlCheckout, EventActivate, "")
	case key.Matches(message, model.keys.AddToCart):
		return model.dispatch(ControlAddToCart, EventActivate, model.selectedCartLine())
	}
	return nil
}

func (model *Model) handleGridKeys(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, model.keys.Quit):
		return tea.Quit
	case key.Matches(message, model.keys.Cancel):
		if model.state.Filter.Keyword != "" {
			model.searchInput.SetValue("")
			return model.dispatch(ControlGlobalSearch, EventInput, "")
		}
	case key.Matches(message, model.keys.Up):
		model.moveCursor(-model.gridColumns())
	case key.Matches(message, model.keys.Down):
		model.moveCursor(model.gridColumns())
	case key.Matches(message, model.keys.Left):
		model.moveCursor(-1)
	case key.Matches(message, model.keys.Right):
		model.moveCursor(1)
	case key.Matches(message, model.keys.NextCategory):
		return model.dispatch(ControlCategoryBar, EventActivate, model.adjacentCategory(1))
	case key.Matches(message, model.keys.PreviousCategory):
		return model.dispatch(ControlCategoryBar, EventActivate, model.adjacentCategory(-1))
	case key.Matches(message, model.keys.AddToCart):
		return model.dispatch(ControlAddToCart, EventActivate, model.selectedCard())
	case key.Matches(message, model.keys.CartToggle):
		return model.dispatch(ControlCartToggle, EventActivate, "")
	case key.Matches(message, model.keys.SearchOpen):
		return model.dispatch(ControlSearchTrigger, EventActivate, "")
	case key.Matches(message, model.keys.Login):
		return model.dispatch(ControlAdminLogin, EventActivate, "")
	case key.Matches(message, model.keys.Logout):
		return model.dispatch(ControlLogout, EventActivate, "")
	case key.Matches(message, model.keys.AddItem):
		return model.dispatch(ControlAddItem, EventActivate, "")
	case key.Matches(message, model.keys.EditItem):
		return model.dispatch(ControlEditItem, EventActivate, model.selectedCard())
	case key.Matches(message, model.keys.Reload):
		return model.dispatch(ControlReload, EventActivate, "")
	}
	return nil
}

// rebuildGrid rebuilds every card from the catalog. Runs on catalog
// reload and on admin toggle, the two events that change card content.
func (model *Model) rebuildGrid() {
	model.cards = BuildCards(model.state, model.settings)
	model.admin = ProjectAdmin(model.state.Session)
	model.restoreSelection()
}

// applyFilter re-evaluates card visibility after a category or keyword
// change. Cards are not rebuilt.
func (model *Model) applyFilter() {
	ApplyFilter(model.cards, model.state)
	model.restoreSelection()
}

func (model *Model) renderCategoryBar() {
	model.categories = ProjectCategories(model.state)
}

// refreshCart re-projects the badge, drawer lines, drawer total, and
// checkout enablement. Runs after every cart mutation.
func (model *Model) refreshCart() {
	model.cart = ProjectCart(model.state, model.settings)
	if model.drawerCursor >= len(model.cart.Lines) {
		model.drawerCursor = max(0, len(model.cart.Lines)-1)
	}
}

// restoreSelection keeps the selected card selected if it is still
// visible, otherwise clamps the cursor into the visible range.
func (model *Model) restoreSelection() {
	visible := visibleCardIndices(model.cards)
	if len(visible) == 0 {
		model.cursor = 0
		model.selectedName = ""
		model.gridOffset = 0
		return
	}
	position := slices.IndexFunc(visible, func(index int) bool {
		return model.cards[index].Name == model.selectedName
	})
	if position < 0 {
		position = min(model.cursor, len(visible)-1)
	}
	model.cursor = position
	model.selectedName = model.cards[visible[position]].Name
	model.ensureCursorVisible()
}

func (model *Model) moveCursor(delta int) {
	visible := visibleCardIndices(model.cards)
	if len(visible) == 0 {
		return
	}
	model.cursor = max(0, min(model.cursor+delta, len(visible)-1))
	model.selectedName = model.cards[visible[model.cursor]].Name
	model.ensureCursorVisible()
}

// ensureCursorVisible scrolls the grid so the cursor's row is shown.
func (model *Model) ensureCursorVisible() {
	model.gridOffset = model.gridScroll().Reveal(model.cursor / model.gridColumns()).Offset
}

// selectedCard returns the name of the selected visible card, or "".
func (model *Model) selectedCard() string {
	visible := visibleCardIndices(model.cards)
	if model.cursor < 0 || model.cursor >= len(visible) {
		return ""
	}
	return model.cards[visible[model.cursor]].Name
}

// selectedCartLine returns the name of the selected drawer line, or "".
func (model *Model) selectedCartLine() string {
	if model.drawerCursor < 0 || model.drawerCursor >= len(model.cart.Lines) {
		return ""
	}
	return model.cart.Lines[model.drawerCursor].Name
}

// adjacentCategory returns the category delta steps from the active
// one, wrapping around.
func (model *Model) adjacentCategory(delta int) string {
	categories := model.state.Catalog.Categories()
	position := slices.Index(categories, model.state.Filter.ActiveCategory)
	if position < 0 {
		return menu.AllCategories
	}
	return categories[(position+delta+len(categories))%len(categories)]
}

// ignitePulse flashes the cart badge and the added card, starting the
// animation tick if it is not running.
func (model *Model) ignitePulse(name string) tea.Cmd {
	now := model.now()
	model.pulses.Ignite(badgePulseKey, now)
	model.pulses.Ignite(name, now)
	if model.tickRunning {
		return nil
	}
	model.tickRunning = true
	return schedulePulseTick(tui.PulseTickInterval)
}

// setNotice shows text in the status bar and schedules its fade.
func (model *Model) setNotice(text string, level noticeLevel) tea.Cmd {
	model.notice = text
	model.noticeLevel = level
	model.noticeGeneration++
	generation := model.noticeGeneration
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{generation: generation}
	})
}
