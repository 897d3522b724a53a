// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/kiosk/lib/menu"
)

// Item form field positions.
const (
	fieldName = iota
	fieldPrice
	fieldCategory
	fieldImage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Price", "Category", "Image URL"}

// itemForm is the admin create/edit modal. In edit mode the name field
// is locked: the name is the item's identity and an edit replaces the
// other fields wholesale.
type itemForm struct {
	editing bool
	inputs  [fieldCount]textinput.Model
	focus   int

	// err is shown inside the modal: local validation failures and
	// rejected saves. The field values stay as typed.
	err string

	submitting bool
}

// newItemForm opens the form in create mode when item is nil and in
// edit mode, prefilled, otherwise.
func newItemForm(item *menu.Item) itemForm {
	form := itemForm{}
	placeholders := [fieldCount]string{"Kung Pao Chicken", "28.00", menu.DefaultFallbackCategory, "https://"}
	for index := range form.inputs {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = placeholders[index]
		input.CharLimit = 256
		form.inputs[index] = input
	}

	if item != nil {
		form.editing = true
		form.inputs[fieldName].SetValue(item.Name)
		form.inputs[fieldPrice].SetValue(strconv.FormatFloat(item.Price, 'f', -1, 64))
		form.inputs[fieldCategory].SetValue(item.Category)
		form.inputs[fieldImage].SetValue(item.ImageURL)
		form.focus = fieldPrice
	}
	return form
}

// nameLocked reports whether the name field is disabled.
func (form *itemForm) nameLocked() bool {
	return form.editing
}

func (form *itemForm) focusCurrent() tea.Cmd {
	for index := range form.inputs {
		if index != form.focus {
			form.inputs[index].Blur()
		}
	}
	return form.inputs[form.focus].Focus()
}

// moveFocus steps to the next (delta 1) or previous (delta -1)
// editable field, wrapping around and skipping a locked name field.
func (form *itemForm) moveFocus(delta int) tea.Cmd {
	next := form.focus
	for range fieldCount {
		next = (next + delta + fieldCount) % fieldCount
		if next == fieldName && form.nameLocked() {
			continue
		}
		break
	}
	form.focus = next
	return form.focusCurrent()
}

// update forwards a message to the focused input.
func (form *itemForm) update(message tea.Msg) tea.Cmd {
	if form.focus == fieldName && form.nameLocked() {
		return nil
	}
	var cmd tea.Cmd
	form.inputs[form.focus], cmd = form.inputs[form.focus].Update(message)
	return cmd
}

func (form *itemForm) value(field int) string {
	return strings.TrimSpace(form.inputs[field].Value())
}

// item validates the fields and returns the item to upsert. A price
// may carry the display currency symbol. An empty category is sent
// as-is; the menu service assigns its fallback.
func (form *itemForm) item(currencySymbol string) (menu.Item, error) {
	name := form.value(fieldName)
	if name == "" {
		return menu.Item{}, errors.New("name is required")
	}
	price, err := parsePrice(form.value(fieldPrice), currencySymbol)
	if err != nil {
		return menu.Item{}, err
	}
	return menu.Item{
		Name:     name,
		Price:    price,
		Category: form.value(fieldCategory),
		ImageURL: form.value(fieldImage),
	}, nil
}

func parsePrice(text, currencySymbol string) (float64, error) {
	if text == "" {
		return 0, errors.New("price is required")
	}
	if currencySymbol != "" {
		text = strings.TrimSpace(strings.TrimPrefix(text, currencySymbol))
	}
	price, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("price %q is not a number", text)
	}
	if price < 0 {
		return 0, fmt.Errorf("price cannot be negative")
	}
	return price, nil
}

// loginPrompt asks for the admin credential. The input echoes mask
// characters; the typed value is moved into a locked buffer on submit.
type loginPrompt struct {
	input textinput.Model
}

func newLoginPrompt() loginPrompt {
	input := textinput.New()
	input.Prompt = "Password: "
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 128
	return loginPrompt{input: input}
}

func (prompt *loginPrompt) update(message tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	prompt.input, cmd = prompt.input.Update(message)
	return cmd
}

// take returns the typed credential and clears the input.
func (prompt *loginPrompt) take() string {
	value := prompt.input.Value()
	prompt.input.Reset()
	return value
}
