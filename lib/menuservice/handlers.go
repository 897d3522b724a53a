// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menuservice

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/bcrypt"

	"github.com/bureau-foundation/kiosk/lib/kioskapi"
	"github.com/bureau-foundation/kiosk/lib/menu"
	"github.com/bureau-foundation/kiosk/lib/menustore"
	"github.com/bureau-foundation/kiosk/lib/netutil"
)

// Response messages. Clients show these verbatim.
const (
	messageCartEmpty     = "cart is empty"
	messageOrderPlaced   = "order placed"
	messageLoginOK       = "login ok"
	messageWrongPassword = "wrong password"
	messageNameRequired  = "name is required"
	messageInvalidPrice  = "price must be a non-negative number"
	messageItemSaved     = "item saved"
	messageBadRequest    = "malformed request body"
	messageInternal      = "internal error"
)

// Handler implements the API endpoints.
type Handler struct {
	store        Store
	passwordHash []byte
	logger       *slog.Logger
}

// response is the envelope every endpoint writes.
type response struct {
	Code    int    `json:"code"`
	Message string `json:"msg,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// itemBody is the upsert request. Price accepts a number or a numeric
// string and defaults to zero when absent.
type itemBody struct {
	Name     string          `json:"name"`
	Price    *kioskapi.Price `json:"price"`
	Category string          `json:"category"`
	Image    string          `json:"image"`
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandlePreflight answers CORS preflight requests.
func (h *Handler) HandlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// HandleMenu returns the menu as an object keyed by item name, in
// listing order. The ETag is a hash of the body; a matching
// If-None-Match gets 304.
func (h *Handler) HandleMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Items(r.Context())
	if err != nil {
		h.logger.Error("loading menu", "error", err)
		h.sendError(w, http.StatusInternalServerError, messageInternal)
		return
	}

	data, err := encodeMenu(items)
	if err != nil {
		h.logger.Error("encoding menu", "error", err)
		h.sendError(w, http.StatusInternalServerError, messageInternal)
		return
	}
	body, err := json.Marshal(response{Code: kioskapi.SuccessCode, Data: data})
	if err != nil {
		h.logger.Error("encoding menu envelope", "error", err)
		h.sendError(w, http.StatusInternalServerError, messageInternal)
		return
	}

	etag := menuETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(append(body, '\n'))
}

// HandleOrder prices the requested names (one per unit) and records
// the order. Names not on the menu are accepted but not charged.
func (h *Handler) HandleOrder(w http.ResponseWriter, r *http.Request) {
	var request kioskapi.OrderRequest
	if err := netutil.DecodeRequest(w, r, &request); err != nil {
		h.sendDecodeError(w, err)
		return
	}
	if len(request.Items) == 0 {
		h.sendError(w, http.StatusBadRequest, messageCartEmpty)
		return
	}

	record, err := h.store.RecordOrder(r.Context(), request.Items)
	if err != nil {
		h.logger.Error("recording order", "error", err, "units", len(request.Items))
		h.sendError(w, http.StatusInternalServerError, messageInternal)
		return
	}

	h.logger.Info("order received",
		"order_id", record.ID,
		"units", len(request.Items),
		"total", record.Total,
	)
	h.writeJSON(w, http.StatusOK, response{
		Code:    kioskapi.SuccessCode,
		Message: messageOrderPlaced,
		Data:    kioskapi.OrderReceipt{OrderID: record.ID, Total: record.Total},
	})
}

// HandleLogin checks the admin password against the bcrypt hash.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request kioskapi.LoginRequest
	if err := netutil.DecodeRequest(w, r, &request); err != nil {
		h.sendDecodeError(w, err)
		return
	}

	password := []byte(request.Password)
	request.Password = ""
	err := bcrypt.CompareHashAndPassword(h.passwordHash, password)
	clear(password)
	if err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			h.logger.Error("comparing admin password", "error", err)
		}
		h.logger.Warn("admin login rejected", "remote", r.RemoteAddr)
		h.sendError(w, http.StatusUnauthorized, messageWrongPassword)
		return
	}

	h.logger.Info("admin login", "remote", r.RemoteAddr)
	h.writeJSON(w, http.StatusOK, response{Code: kioskapi.SuccessCode, Message: messageLoginOK})
}

// HandleUpsertItem creates or fully replaces one item. Fields left out
// of the request are reset: price to zero, category to the fallback
// label, image to none.
func (h *Handler) HandleUpsertItem(w http.ResponseWriter, r *http.Request) {
	var request itemBody
	if err := netutil.DecodeRequest(w, r, &request); err != nil {
		if errors.Is(err, kioskapi.ErrInvalidPrice) {
			h.sendError(w, http.StatusBadRequest, messageInvalidPrice)
			return
		}
		h.sendDecodeError(w, err)
		return
	}

	name := strings.TrimSpace(request.Name)
	if name == "" {
		h.sendError(w, http.StatusBadRequest, messageNameRequired)
		return
	}
	var price float64
	if request.Price != nil {
		price = float64(*request.Price)
	}

	item := menu.Item{
		Name:     name,
		Price:    price,
		Category: request.Category,
		ImageURL: request.Image,
	}
	created, err := h.store.UpsertItem(r.Context(), item)
	if err != nil {
		if errors.Is(err, menustore.ErrInvalidItem) {
			h.sendError(w, http.StatusBadRequest, messageInvalidPrice)
			return
		}
		h.logger.Error("saving item", "error", err, "name", name)
		h.sendError(w, http.StatusInternalServerError, messageInternal)
		return
	}

	h.logger.Info("menu item saved", "name", name, "created", created)
	h.writeJSON(w, http.StatusOK, response{Code: kioskapi.SuccessCode, Message: messageItemSaved})
}

// encodeMenu renders items as a JSON object in listing order.
// encoding/json sorts map keys, so the object is assembled by hand.
func encodeMenu(items []menu.Item) (json.RawMessage, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, item := range items {
		if i > 0 {
			buffer.WriteByte(',')
		}
		key, err := json.Marshal(item.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(kioskapi.MenuEntry{
			Price:    kioskapi.Price(item.Price),
			Category: item.Category,
			Image:    item.ImageURL,
		})
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')
		buffer.Write(value)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// menuETag is a strong validator over the response body.
func menuETag(body []byte) string {
	sum := blake3.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// etagMatches implements the If-None-Match comparison: "*" or any
// listed tag, ignoring weak prefixes.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func (h *Handler) sendDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, netutil.ErrRequestTooLarge) {
		h.sendError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	h.sendError(w, http.StatusBadRequest, messageBadRequest)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, response{Code: status, Message: message})
}

// writeJSON encodes value with the given status. Encoding failures
// mean the client went away, so they are only logged.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		h.logger.Warn("writing JSON response", "error", err, "status", status)
	}
}
