// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bureau-foundation/kiosk/lib/menu"
)

// envelope is the common response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"msg,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// SuccessCode is the envelope code for a successful call.
const SuccessCode = 200

// MenuEntry is the wire form of one menu item, keyed by name in the
// menu object.
type MenuEntry struct {
	Price    Price  `json:"price"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// ErrInvalidPrice is returned when a price is not a finite,
// non-negative number or numeric string.
var ErrInvalidPrice = errors.New("invalid price")

// Price decodes from a JSON number or a numeric string, since older
// menu data files stored prices as text. It always encodes as a number.
type Price float64

// UnmarshalJSON accepts 12.5, "12.5", and null (zero). NaN, infinities
// and negative values are rejected, spelled as numbers or as text.
func (price *Price) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*price = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%w %s", ErrInvalidPrice, data)
	}
	*price = Price(value)
	return nil
}

// OrderRequest is the body of POST /api/order.
type OrderRequest struct {
	Items []string `json:"items"`
}

// OrderReceipt is the data of a successful order response.
type OrderReceipt struct {
	OrderID string  `json:"order_id,omitempty"`
	Total   float64 `json:"total"`
}

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// ItemRequest is the body of POST /api/admin/item.
type ItemRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
}

// DecodeMenu decodes a menu object (name -> MenuEntry) into a catalog,
// preserving key order. A null or absent object is an empty catalog.
func DecodeMenu(data []byte, fallbackCategory string) (*menu.Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return menu.NewCatalog(nil, fallbackCategory), nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding menu: %w", err)
	}
	if delimiter, ok := token.(json.Delim); !ok || delimiter != '{' {
		return nil, fmt.Errorf("decoding menu: expected object, got %v", token)
	}

	var items []menu.Item
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding menu: %w", err)
		}
		name, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("decoding menu: unexpected key %v", keyToken)
		}
		var entry MenuEntry
		if err := decoder.Decode(&entry); err != nil {
			return nil, fmt.Errorf("decoding menu item %q: %w", name, err)
		}
		items = append(items, menu.Item{
			Name:     name,
			Price:    float64(entry.Price),
			Category: entry.Category,
			ImageURL: entry.Image,
		})
	}
	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("decoding menu: %w", err)
	}
	return menu.NewCatalog(items, fallbackCategory), nil
}
