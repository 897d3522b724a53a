// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bureau-foundation/kiosk/lib/menu"
	"github.com/bureau-foundation/kiosk/lib/netutil"
	"github.com/bureau-foundation/kiosk/lib/secret"
)

// DefaultTimeout bounds each call when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the service root, e.g. "http://localhost:5000". The
	// "/api/..." paths are appended to it. Required.
	BaseURL string

	// Timeout bounds every call. Zero uses DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the transport. Nil uses a plain
	// http.Client; per-call deadlines come from Timeout either way.
	HTTPClient *http.Client

	// FallbackCategory labels uncategorized items in fetched catalogs.
	FallbackCategory string

	// Logger receives per-request debug records. Nil discards.
	Logger *slog.Logger
}

// Client calls the menu service. Safe for concurrent use.
type Client struct {
	baseURL          string
	timeout          time.Duration
	httpClient       *http.Client
	fallbackCategory string
	logger           *slog.Logger
}

// NewClient validates options and returns a client.
func NewClient(options Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(options.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("kioskapi: BaseURL is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("kioskapi: BaseURL %q must be an http or https URL", options.BaseURL)
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:          baseURL,
		timeout:          timeout,
		httpClient:       httpClient,
		fallbackCategory: options.FallbackCategory,
		logger:           logger,
	}, nil
}

// BaseURL returns the normalized service root.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// FetchMenu loads the full catalog. Every failure, including a
// non-success response, is a *NetworkError.
func (client *Client) FetchMenu(ctx context.Context) (*menu.Catalog, error) {
	const op = "fetch menu"

	response, err := client.do(ctx, op, http.MethodGet, "/api/menu", nil)
	if err != nil {
		var networkErr *NetworkError
		if errors.As(err, &networkErr) {
			return nil, err
		}
		return nil, &NetworkError{Op: op, Err: err}
	}

	catalog, err := DecodeMenu(response.Data, client.fallbackCategory)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	return catalog, nil
}

// SubmitOrder sends one name per unit ordered. Failures are *OrderError.
func (client *Client) SubmitOrder(ctx context.Context, names []string) (OrderReceipt, error) {
	response, err := client.do(ctx, "submit order", http.MethodPost, "/api/order", OrderRequest{Items: names})
	if err != nil {
		return OrderReceipt{}, &OrderError{Message: statusMessage(err), Err: err}
	}

	var receipt OrderReceipt
	if len(response.Data) > 0 && !bytes.Equal(response.Data, []byte("null")) {
		if err := json.Unmarshal(response.Data, &receipt); err != nil {
			return OrderReceipt{}, &OrderError{Err: fmt.Errorf("decoding order receipt: %w", err)}
		}
	}
	return receipt, nil
}

// Authenticate checks the admin credential. The credential is copied
// onto the heap only for the JSON body. Failures are *AuthError, with
// Rejected set when the service refused the credential.
func (client *Client) Authenticate(ctx context.Context, credential *secret.Buffer) error {
	if credential == nil || credential.Len() == 0 {
		return &AuthError{Rejected: true, Message: "password is required"}
	}

	_, err := client.do(ctx, "authenticate", http.MethodPost, "/api/admin/login", LoginRequest{Password: credential.String()})
	if err != nil {
		var statusErr *StatusError
		rejected := errors.As(err, &statusErr)
		return &AuthError{Rejected: rejected, Message: statusMessage(err), Err: err}
	}
	return nil
}

// UpsertItem creates or fully replaces a menu item. Failures are
// *UpsertError.
func (client *Client) UpsertItem(ctx context.Context, item menu.Item) error {
	request := ItemRequest{
		Name:     item.Name,
		Price:    item.Price,
		Category: item.Category,
		Image:    item.ImageURL,
	}
	if _, err := client.do(ctx, "save item", http.MethodPost, "/api/admin/item", request); err != nil {
		return &UpsertError{Name: item.Name, Message: statusMessage(err), Err: err}
	}
	return nil
}

// do performs one bounded request and unwraps the envelope. Transport
// failures are *NetworkError; failure responses are *StatusError.
func (client *Client) do(ctx context.Context, op, method, path string, requestBody any) (*envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, &NetworkError{Op: op, Timeout: isTimeout(ctx, err), Err: err}
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Timeout: isTimeout(ctx, err), Err: fmt.Errorf("reading response body: %w", err)}
	}

	client.logger.Debug("menu service request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"bytes", len(responseBody),
		"elapsed", time.Since(started),
	)

	var decoded envelope
	decodeErr := json.Unmarshal(responseBody, &decoded)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: response.StatusCode, Code: response.StatusCode}
		if decodeErr == nil {
			if decoded.Code != 0 {
				statusErr.Code = decoded.Code
			}
			statusErr.Message = decoded.Message
		}
		return nil, statusErr
	}
	if decodeErr != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("unexpected response from %s %s: %w", method, path, decodeErr)}
	}
	if decoded.Code != SuccessCode {
		return nil, &StatusError{StatusCode: response.StatusCode, Code: decoded.Code, Message: decoded.Message}
	}
	return &decoded, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func statusMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	return ""
}
