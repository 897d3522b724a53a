// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskapi

import (
	"errors"
	"fmt"
)

// StatusError is a menu service response that reported failure, either
// through a non-2xx HTTP status or an envelope code other than 200.
type StatusError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the envelope code; it mirrors StatusCode on the
	// reference service but is reported separately because the
	// envelope is authoritative.
	Code int

	// Message is the server-reported message, possibly empty.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("menu service returned code %d (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("menu service returned code %d (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// NetworkError means a call could not complete: the connection failed,
// the bounded timeout expired, or the response was unreadable. A
// FetchMenu failure is always a NetworkError; the other operations wrap
// one inside their own error type when the failure was transport-level.
type NetworkError struct {
	// Op names the operation ("fetch menu", "submit order", ...).
	Op string

	// Timeout is set when the call's deadline expired.
	Timeout bool

	Err error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// OrderError means checkout failed. Message carries the server's
// explanation when one was sent.
type OrderError struct {
	Message string
	Err     error
}

func (e *OrderError) Error() string { return "submit order: " + describe(e.Message, e.Err) }

func (e *OrderError) Unwrap() error { return e.Err }

// AuthError means admin login failed. Rejected is set when the service
// answered and refused the credential, as opposed to being unreachable.
type AuthError struct {
	Rejected bool
	Message  string
	Err      error
}

func (e *AuthError) Error() string { return "authenticate: " + describe(e.Message, e.Err) }

func (e *AuthError) Unwrap() error { return e.Err }

// UpsertError means saving a menu item failed.
type UpsertError struct {
	Name    string
	Message string
	Err     error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("save item %q: %s", e.Name, describe(e.Message, e.Err))
}

func (e *UpsertError) Unwrap() error { return e.Err }

func describe(message string, err error) string {
	switch {
	case message != "" && err != nil:
		return message + " (" + err.Error() + ")"
	case message != "":
		return message
	case err != nil:
		return err.Error()
	default:
		return "unknown failure"
	}
}

// Message returns the most specific user-facing text for err: the
// server-reported message when there is one, a timeout notice for
// expired deadlines, and the error text otherwise.
func Message(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	var networkErr *NetworkError
	if errors.As(err, &networkErr) {
		if networkErr.Timeout {
			return "the menu service did not respond in time"
		}
		return "cannot reach the menu service"
	}
	return err.Error()
}
