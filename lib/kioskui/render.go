// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/kiosk/lib/menu"
	"github.com/bureau-foundation/kiosk/lib/tui"
)

// Card geometry. A card is a bordered box of four content lines.
const (
	cardOuterWidth   = 28
	cardContentWidth = cardOuterWidth - 4 // Border and one column of padding per side.
	cardHeight       = 6
	cardGap          = 1

	// Header, category bar, search line, status bar.
	chromeLines = 4

	drawerMaxWidth = 46
	modalWidth     = 48
)

// gridColumns is how many cards fit side by side, leaving a column for
// the scrollbar.
func (model *Model) gridColumns() int {
	return max(1, (model.width-2)/(cardOuterWidth+cardGap))
}

func (model *Model) gridHeight() int {
	return max(cardHeight, model.height-chromeLines)
}

func (model *Model) gridVisibleRows() int {
	return max(1, model.gridHeight()/cardHeight)
}

// gridScroll is the grid viewport over rows of visible cards.
func (model *Model) gridScroll() tui.Scroll {
	columns := model.gridColumns()
	visible := len(visibleCardIndices(model.cards))
	return tui.Scroll{
		Total:   (visible + columns - 1) / columns,
		Visible: model.gridVisibleRows(),
		Offset:  model.gridOffset,
	}
}

// View implements tea.Model.
func (model Model) View() string {
	sections := []string{
		model.renderHeader(),
		model.renderCategoryTabs(),
		model.renderSearchLine(),
		model.renderGrid(),
		model.renderStatusBar(),
	}
	view := strings.Join(sections, "\n")

	if model.drawerOpen {
		view = model.overlayDrawer(view)
	}
	switch {
	case model.alert != "":
		view = tui.CenterOverlay(view, model.renderAlert(), model.width, model.height)
	case model.receipt != nil:
		view = tui.CenterOverlay(view, model.renderReceipt(), model.width, model.height)
	case model.loginPrompt != nil:
		view = tui.CenterOverlay(view, model.renderLoginPrompt(), model.width, model.height)
	case model.form != nil:
		view = tui.CenterOverlay(view, model.renderForm(), model.width, model.height)
	}
	return view
}

func (model Model) renderHeader() string {
	theme := model.theme
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(" Menu")

	var right []string
	if model.admin.IsAdmin {
		right = append(right, lipgloss.NewStyle().Bold(true).Foreground(theme.AdminForeground).Render("ADMIN"))
	}

	badgeStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.BadgeForeground)
	if model.pulses.Active(badgePulseKey, model.now()) {
		badgeStyle = badgeStyle.Background(theme.PulseBackground)
	}
	right = append(right, lipgloss.NewStyle().Foreground(theme.NormalText).Render("Cart ")+
		badgeStyle.Render(fmt.Sprintf(" %d ", model.cart.Count)))

	rightText := strings.Join(right, "  ") + " "
	gap := model.width - ansi.StringWidth(title) - ansi.StringWidth(rightText)
	if gap < 1 {
		return ansi.Truncate(title+" "+rightText, model.width, "…")
	}
	return title + strings.Repeat(" ", gap) + rightText
}

func (model Model) renderCategoryTabs() string {
	theme := model.theme
	activeStyle := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(theme.AccentForeground)
	inactiveStyle := lipgloss.NewStyle().Foreground(theme.FaintText)

	var builder strings.Builder
	builder.WriteString(" ")
	for index, tab := range model.categories {
		if index > 0 {
			builder.WriteString(inactiveStyle.Render(" │ "))
		}
		if tab.Active {
			builder.WriteString(activeStyle.Render(tab.Label))
		} else {
			builder.WriteString(inactiveStyle.Render(tab.Label))
		}
	}
	return ansi.Truncate(builder.String(), model.width, "…")
}

func (model Model) renderSearchLine() string {
	theme := model.theme
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	switch {
	case model.searching:
		return " " + model.searchInput.View()
	case model.loadError != "" && model.state.Catalog.Len() > 0:
		return ansi.Truncate(" "+lipgloss.NewStyle().Foreground(theme.ErrorForeground).Render(model.loadError), model.width, "…")
	case model.state.Filter.TrimmedKeyword() != "":
		return ansi.Truncate(faint.Render(fmt.Sprintf(" Filter: %q  (/ edit, esc clear)", model.state.Filter.TrimmedKeyword())), model.width, "…")
	default:
		return ""
	}
}

// renderGrid draws exactly gridHeight lines: the visible card rows
// with a scrollbar, or the empty-state message.
func (model Model) renderGrid() string {
	height := model.gridHeight()
	visible := visibleCardIndices(model.cards)

	if len(visible) == 0 {
		return padLines(model.renderEmptyState(), height)
	}

	columns := model.gridColumns()
	totalRows := (len(visible) + columns - 1) / columns
	visibleRows := model.gridVisibleRows()

	var rows []string
	for row := model.gridOffset; row < totalRows && row < model.gridOffset+visibleRows; row++ {
		var cards []string
		for column := range columns {
			position := row*columns + column
			if position >= len(visible) {
				break
			}
			if column > 0 {
				cards = append(cards, strings.Repeat(" ", cardGap))
			}
			cards = append(cards, model.renderCard(model.cards[visible[position]], position == model.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)

	if scroll := model.gridScroll(); scroll.Overflows() {
		gridWidth := columns*(cardOuterWidth+cardGap) - cardGap
		scrollbar := tui.RenderScrollbar(model.theme, visibleRows*cardHeight, scroll)
		grid = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(gridWidth+1).Render(grid),
			scrollbar,
		)
	}
	return padLines(grid, height)
}

func (model Model) renderEmptyState() string {
	theme := model.theme
	var text string
	style := lipgloss.NewStyle().Foreground(theme.FaintText)
	switch {
	case model.state.Catalog.Len() == 0 && model.loadError != "":
		text = model.loadError
		style = lipgloss.NewStyle().Foreground(theme.ErrorForeground)
	case model.state.Catalog.Len() == 0 && model.loading:
		text = "Loading menu…"
	case model.state.Catalog.Len() == 0:
		text = "No items on the menu yet."
	default:
		text = "No items match the current filter."
	}
	return "\n " + style.Render(text)
}

func (model Model) renderCard(card Card, selected bool) string {
	theme := model.theme

	borderColor := theme.BorderColor
	if selected {
		borderColor = theme.AccentForeground
	}
	if model.pulses.Active(card.Name, model.now()) {
		borderColor = theme.BadgeForeground
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(cardOuterWidth - 2)

	titleWidth := cardContentWidth
	marker := ""
	if card.Editable {
		titleWidth -= 2
		marker = lipgloss.NewStyle().Foreground(theme.AdminForeground).Render(" ✎")
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.NormalText)
	if selected {
		titleStyle = titleStyle.Foreground(theme.SelectedForeground)
	}
	matchStyle := titleStyle.Background(theme.SearchHighlightBackground)
	title := tui.HighlightMatch(ansi.Truncate(card.Name, titleWidth, "…"), model.state.Filter.Keyword, titleStyle, matchStyle)

	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	lines := []string{
		title + marker,
		lipgloss.NewStyle().Foreground(theme.PriceForeground).Render(card.PriceText),
		faint.Render(ansi.Truncate(card.Category, cardContentWidth, "…")),
		faint.Render(ansi.Truncate(card.ImageRef, cardContentWidth, "…")),
	}
	return box.Render(strings.Join(lines, "\n"))
}

// overlayDrawer splices the cart drawer along the right edge, below
// the header.
func (model Model) overlayDrawer(view string) string {
	theme := model.theme
	outerWidth := min(drawerMaxWidth, model.width-2)
	innerWidth := outerWidth - 4

	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	price := lipgloss.NewStyle().Foreground(theme.PriceForeground)

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(fmt.Sprintf("Cart (%d)", model.cart.Count)),
		"",
	}
	if len(model.cart.Lines) == 0 {
		lines = append(lines, faint.Render("Your cart is empty."))
	}
	for index, line := range model.cart.Lines {
		label := fmt.Sprintf("%s ×%d", line.Name, line.Quantity)
		amount := price.Render(line.LineTotalText)
		labelWidth := innerWidth - ansi.StringWidth(amount) - 3
		label = ansi.Truncate(label, max(1, labelWidth), "…")
		cursor := "  "
		labelStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
		if index == model.drawerCursor {
			cursor = lipgloss.NewStyle().Foreground(theme.AccentForeground).Render("▸ ")
			labelStyle = labelStyle.Bold(true).Foreground(theme.SelectedForeground)
		}
		gap := max(1, innerWidth-2-ansi.StringWidth(label)-ansi.StringWidth(amount))
		lines = append(lines, cursor+labelStyle.Render(label)+strings.Repeat(" ", gap)+amount)
	}

	lines = append(lines,
		faint.Render(strings.Repeat("─", innerWidth)),
		"Total "+price.Bold(true).Render(model.cart.TotalText),
		"",
	)
	switch {
	case model.guards.inFlight(workflowCheckout):
		lines = append(lines, faint.Render("Submitting order…"))
	case model.cart.CheckoutEnabled:
		lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(theme.AccentForeground).Render("enter  Checkout"))
	default:
		lines = append(lines, faint.Render("Checkout unavailable"))
	}
	lines = append(lines, faint.Render("-/+ quantity  esc close"))

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.AccentForeground).
		Padding(0, 1).
		Width(outerWidth - 2).
		Render(strings.Join(lines, "\n"))

	return tui.SpliceOverlay(view, strings.Split(panel, "\n"), model.width-outerWidth, 1)
}

func (model Model) renderForm() string {
	theme := model.theme
	form := model.form
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	labelStyle := lipgloss.NewStyle().Foreground(theme.NormalText).Width(11)
	focusedLabel := labelStyle.Foreground(theme.AccentForeground).Bold(true)

	title := "New menu item"
	if form.editing {
		title = "Edit menu item"
	}
	lines := []string{modalTitle(theme, title), ""}
	for index := range form.inputs {
		label := labelStyle.Render(fieldLabels[index])
		if index == form.focus {
			label = focusedLabel.Render(fieldLabels[index])
		}
		value := form.inputs[index].View()
		if index == fieldName && form.nameLocked() {
			value = faint.Render(form.inputs[index].Value() + " (locked)")
		}
		lines = append(lines, label+value)
	}

	lines = append(lines, "")
	switch {
	case form.submitting:
		lines = append(lines, faint.Render("Saving…"))
	case form.err != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ErrorForeground).Render(form.err))
	}
	lines = append(lines, faint.Render(helpText(model.keys.NextField, model.keys.Submit, model.keys.Cancel)))
	return modalBox(theme.AccentForeground, lines)
}

func (model Model) renderLoginPrompt() string {
	theme := model.theme
	lines := []string{
		modalTitle(theme, "Admin login"),
		"",
		model.loginPrompt.input.View(),
		"",
		lipgloss.NewStyle().Foreground(theme.FaintText).Render(helpText(model.keys.Submit, model.keys.Cancel)),
	}
	return modalBox(theme.AdminForeground, lines)
}

func (model Model) renderReceipt() string {
	theme := model.theme
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(theme.SuccessForeground).Render("Order placed"),
		"",
	}
	if model.receipt.OrderID != "" {
		lines = append(lines, "Order "+model.receipt.OrderID)
	}
	lines = append(lines,
		"Total "+lipgloss.NewStyle().Foreground(theme.PriceForeground).Render(menu.FormatPrice(model.receipt.Total, model.settings.CurrencySymbol)),
		"",
		lipgloss.NewStyle().Foreground(theme.FaintText).Render("enter close"),
	)
	return modalBox(theme.SuccessForeground, lines)
}

func (model Model) renderAlert() string {
	theme := model.theme
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(theme.ErrorForeground).Render("Error"),
		"",
		model.alert,
		"",
		lipgloss.NewStyle().Foreground(theme.FaintText).Render("enter dismiss"),
	}
	return modalBox(theme.ErrorForeground, lines)
}

func (model Model) renderStatusBar() string {
	theme := model.theme

	if model.notice != "" {
		color := theme.NormalText
		switch model.noticeLevel {
		case noticeSuccess:
			color = theme.SuccessForeground
		case noticeError:
			color = theme.ErrorForeground
		}
		return ansi.Truncate(" "+lipgloss.NewStyle().Foreground(color).Render(model.notice), model.width, "…")
	}

	if model.logMessage != "" {
		color := theme.WarningForeground
		if model.logLevel >= slog.LevelError {
			color = theme.ErrorForeground
		}
		return ansi.Truncate(" "+lipgloss.NewStyle().Foreground(color).Render(model.logMessage), model.width, "…")
	}

	return ansi.Truncate(" "+lipgloss.NewStyle().Foreground(theme.HelpText).Render(model.helpLine()), model.width, "…")
}

// helpLine lists the bindings available on the focused surface.
func (model Model) helpLine() string {
	keys := model.keys
	switch {
	case model.searching:
		return helpText(keys.Cancel)
	case model.drawerOpen:
		return helpText(keys.Up, keys.Down, keys.Decrement, keys.Checkout, keys.Cancel, keys.Quit)
	}

	bindings := []key.Binding{keys.NextCategory, keys.AddToCart, keys.CartToggle, keys.SearchOpen}
	if model.admin.ShowAddItem {
		bindings = append(bindings, keys.AddItem, keys.EditItem, keys.Logout)
	}
	if model.admin.ShowLogin {
		bindings = append(bindings, keys.Login)
	}
	bindings = append(bindings, keys.Reload, keys.Quit)
	return helpText(bindings...)
}

func helpText(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}

func modalTitle(theme tui.Theme, title string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(title)
}

func modalBox(border lipgloss.Color, lines []string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 2).
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))
}

// padLines pads or cuts text to exactly height lines.
func padLines(text string, height int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
