// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds HTTP body reads on both sides of the menu API.
//
// The kiosk client reads responses through [ReadResponse]; the menu
// service decodes request bodies through [DecodeRequest]. Both cap the
// number of bytes read so a misbehaving peer cannot exhaust memory.
package netutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxResponseSize bounds menu API response reads: 32 MB. A menu with
// thousands of items is a few hundred kilobytes.
const MaxResponseSize int64 = 32 << 20

// MaxRequestSize bounds menu API request bodies: 1 MB. The largest
// legitimate request is an order listing one name per unit.
const MaxRequestSize int64 = 1 << 20

// ErrRequestTooLarge is returned by DecodeRequest when the body
// exceeds MaxRequestSize.
var ErrRequestTooLarge = errors.New("request body too large")

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an error response body for diagnostics. Read errors
// are ignored; a partial body is still useful in a message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}

// DecodeRequest JSON-decodes the request body into v, reading at most
// MaxRequestSize bytes. An empty body decodes as the zero value.
func DecodeRequest(writer http.ResponseWriter, request *http.Request, v any) error {
	body := http.MaxBytesReader(writer, request.Body, MaxRequestSize)
	data, err := io.ReadAll(body)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return ErrRequestTooLarge
		}
		return fmt.Errorf("reading request body: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}
