// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/bureau-foundation/kiosk/lib/menu"
	"github.com/bureau-foundation/kiosk/lib/secret"
)

func testServer(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{BaseURL: server.URL, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func itemNames(catalog *menu.Catalog) []string {
	var names []string
	for _, item := range catalog.Items() {
		names = append(names, item.Name)
	}
	return names
}

func writeEnvelope(writer http.ResponseWriter, status int, body string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	writer.Write([]byte(body))
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"empty", "", true},
		{"no scheme", "localhost:5000", true},
		{"http", "http://localhost:5000", false},
		{"trailing slash", "https://menu.example.com/", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client, err := NewClient(Options{BaseURL: test.baseURL})
			if (err != nil) != test.wantErr {
				t.Fatalf("NewClient(%q) error = %v, wantErr %v", test.baseURL, err, test.wantErr)
			}
			if err == nil && client.BaseURL() != "http://localhost:5000" && client.BaseURL() != "https://menu.example.com" {
				t.Errorf("BaseURL() = %q", client.BaseURL())
			}
		})
	}
}

func TestFetchMenu(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/menu", func(writer http.ResponseWriter, request *http.Request) {
		writeEnvelope(writer, http.StatusOK, `{"code":200,"data":{
			"Kung Pao Chicken": {"price": 28, "category": "Chinese", "image": ""},
			"Iced Americano": {"price": "15.5", "category": "Drinks", "image": "https://cdn.example.com/coffee.png"},
			"Mystery": {"price": 1, "category": "", "image": ""}
		}}`)
	})

	catalog, err := testServer(t, mux).FetchMenu(context.Background())
	if err != nil {
		t.Fatalf("FetchMenu: %v", err)
	}

	want := []string{"Kung Pao Chicken", "Iced Americano", "Mystery"}
	if got := itemNames(catalog); !slices.Equal(got, want) {
		t.Errorf("item names = %v, want %v", got, want)
	}
	coffee, _ := catalog.Lookup("Iced Americano")
	if coffee.Price != 15.5 || coffee.ImageURL != "https://cdn.example.com/coffee.png" {
		t.Errorf("coffee = %+v", coffee)
	}
	mystery, _ := catalog.Lookup("Mystery")
	if mystery.Category != menu.DefaultFallbackCategory {
		t.Errorf("mystery category = %q, want fallback", mystery.Category)
	}
}

func TestFetchMenu_EmptyData(t *testing.T) {
	for _, body := range []string{`{"code":200,"data":{}}`, `{"code":200,"data":null}`, `{"code":200}`} {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/menu", func(writer http.ResponseWriter, request *http.Request) {
			writeEnvelope(writer, http.StatusOK, body)
		})
		catalog, err := testServer(t, mux).FetchMenu(context.Background())
		if err != nil {
			t.Fatalf("FetchMenu(%s): %v", body, err)
		}
		if catalog.Len() != 0 {
			t.Errorf("FetchMenu(%s) returned %d items", body, catalog.Len())
		}
	}
}

func TestFetchMenu_FailuresAreNetworkErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"envelope code", http.StatusOK, `{"code":500,"msg":"store unavailable"}`},
		{"http status", http.StatusBadGateway, `upstream down`},
		{"malformed json", http.StatusOK, `<html>`},
		{"data not an object", http.StatusOK, `{"code":200,"data":[1,2]}`},
		{"negative price", http.StatusOK, `{"code":200,"data":{"宫保鸡丁":{"price":-28}}}`},
		{"NaN price", http.StatusOK, `{"code":200,"data":{"宫保鸡丁":{"price":"NaN"}}}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /api/menu", func(writer http.ResponseWriter, request *http.Request) {
				writeEnvelope(writer, test.status, test.body)
			})
			_, err := testServer(t, mux).FetchMenu(context.Background())
			var networkErr *NetworkError
			if !errors.As(err, &networkErr) {
				t.Fatalf("error = %v (%T), want *NetworkError", err, err)
			}
		})
	}
}

func TestFetchMenu_ServerMessageSurfaces(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/menu", func(writer http.ResponseWriter, request *http.Request) {
		writeEnvelope(writer, http.StatusOK, `{"code":503,"msg":"menu is being updated"}`)
	})
	_, err := testServer(t, mux).FetchMenu(context.Background())
	if got := Message(err); got != "menu is being updated" {
		t.Errorf("Message() = %q", got)
	}
}

func TestFetchMenu_Timeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/menu", func(writer http.ResponseWriter, request *http.Request) {
		<-request.Context().Done()
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.FetchMenu(context.Background())
	var networkErr *NetworkError
	if !errors.As(err, &networkErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if !networkErr.Timeout {
		t.Errorf("Timeout = false for deadline expiry: %v", err)
	}
	if got := Message(err); got != "the menu service did not respond in time" {
		t.Errorf("Message() = %q", got)
	}
}

func TestFetchMenu_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(Options{BaseURL: url, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.FetchMenu(context.Background())
	var networkErr *NetworkError
	if !errors.As(err, &networkErr) || networkErr.Timeout {
		t.Fatalf("error = %v, want non-timeout *NetworkError", err)
	}
	if got := Message(err); got != "cannot reach the menu service" {
		t.Errorf("Message() = %q", got)
	}
}

func TestSubmitOrder(t *testing.T) {
	var received OrderRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/order", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", request.Header.Get("Content-Type"))
		}
		json.NewDecoder(request.Body).Decode(&received)
		writeEnvelope(writer, http.StatusOK, `{"code":200,"msg":"ordered","data":{"order_id":"abc","total":46.5}}`)
	})

	receipt, err := testServer(t, mux).SubmitOrder(context.Background(), []string{"A", "A", "B"})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if !slices.Equal(received.Items, []string{"A", "A", "B"}) {
		t.Errorf("server received %v", received.Items)
	}
	if receipt.OrderID != "abc" || receipt.Total != 46.5 {
		t.Errorf("receipt = %+v", receipt)
	}
}

func TestSubmitOrder_Rejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/order", func(writer http.ResponseWriter, request *http.Request) {
		writeEnvelope(writer, http.StatusBadRequest, `{"code":400,"msg":"cart is empty"}`)
	})

	_, err := testServer(t, mux).SubmitOrder(context.Background(), nil)
	var orderErr *OrderError
	if !errors.As(err, &orderErr) {
		t.Fatalf("error = %v, want *OrderError", err)
	}
	if orderErr.Message != "cart is empty" {
		t.Errorf("Message = %q", orderErr.Message)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusError not reachable through OrderError: %v", err)
	}
}

func TestSubmitOrder_TimeoutWrapsNetworkError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/order", func(writer http.ResponseWriter, request *http.Request) {
		<-request.Context().Done()
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client, _ := NewClient(Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond})

	_, err := client.SubmitOrder(context.Background(), []string{"A"})
	var orderErr *OrderError
	var networkErr *NetworkError
	if !errors.As(err, &orderErr) || !errors.As(err, &networkErr) || !networkErr.Timeout {
		t.Fatalf("error = %v, want OrderError wrapping timed-out NetworkError", err)
	}
}

func TestAuthenticate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/login", func(writer http.ResponseWriter, request *http.Request) {
		var body LoginRequest
		json.NewDecoder(request.Body).Decode(&body)
		if body.Password == "admin123" {
			writeEnvelope(writer, http.StatusOK, `{"code":200,"msg":"ok"}`)
			return
		}
		writeEnvelope(writer, http.StatusUnauthorized, `{"code":401,"msg":"wrong password"}`)
	})
	client := testServer(t, mux)

	good, err := secret.FromString("admin123")
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	defer good.Close()
	if err := client.Authenticate(context.Background(), good); err != nil {
		t.Errorf("Authenticate(correct): %v", err)
	}

	bad, _ := secret.FromString("guess")
	defer bad.Close()
	err = client.Authenticate(context.Background(), bad)
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthError", err)
	}
	if !authErr.Rejected || authErr.Message != "wrong password" {
		t.Errorf("AuthError = %+v", authErr)
	}
}

func TestAuthenticate_EmptyCredential(t *testing.T) {
	client := testServer(t, http.NotFoundHandler())
	err := client.Authenticate(context.Background(), nil)
	var authErr *AuthError
	if !errors.As(err, &authErr) || !authErr.Rejected {
		t.Errorf("error = %v, want rejected *AuthError", err)
	}
}

func TestAuthenticate_UnreachableIsNotRejection(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	client, _ := NewClient(Options{BaseURL: url, Timeout: time.Second})

	credential, _ := secret.FromString("admin123")
	defer credential.Close()
	err := client.Authenticate(context.Background(), credential)
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthError", err)
	}
	if authErr.Rejected {
		t.Error("transport failure reported as rejection")
	}
}

func TestUpsertItem(t *testing.T) {
	var received ItemRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/item", func(writer http.ResponseWriter, request *http.Request) {
		json.NewDecoder(request.Body).Decode(&received)
		if received.Name == "" {
			writeEnvelope(writer, http.StatusBadRequest, `{"code":400,"msg":"name is required"}`)
			return
		}
		writeEnvelope(writer, http.StatusOK, `{"code":200,"msg":"saved"}`)
	})
	client := testServer(t, mux)

	item := menu.Item{Name: "Green Tea", Price: 4, Category: "Drinks", ImageURL: "https://cdn.example.com/tea.png"}
	if err := client.UpsertItem(context.Background(), item); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	want := ItemRequest{Name: "Green Tea", Price: 4, Category: "Drinks", Image: "https://cdn.example.com/tea.png"}
	if received != want {
		t.Errorf("server received %+v, want %+v", received, want)
	}

	err := client.UpsertItem(context.Background(), menu.Item{})
	var upsertErr *UpsertError
	if !errors.As(err, &upsertErr) || upsertErr.Message != "name is required" {
		t.Errorf("error = %v, want *UpsertError with server message", err)
	}
}

func TestPriceUnmarshal(t *testing.T) {
	tests := []struct {
		input   string
		want    Price
		wantErr bool
	}{
		{`12.5`, 12.5, false},
		{`"9"`, 9, false},
		{`" 3.25 "`, 3.25, false},
		{`null`, 0, false},
		{`0`, 0, false},
		{`"cheap"`, 0, true},
		{`true`, 0, true},
		{`-1`, 0, true},
		{`"-0.5"`, 0, true},
		{`"NaN"`, 0, true},
		{`"Inf"`, 0, true},
		{`"-Infinity"`, 0, true},
		{`1e400`, 0, true},
	}
	for _, test := range tests {
		var price Price
		err := json.Unmarshal([]byte(test.input), &price)
		if (err != nil) != test.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", test.input, err, test.wantErr)
			continue
		}
		if test.wantErr && test.input != `true` && !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("Unmarshal(%s) error = %v, want ErrInvalidPrice", test.input, err)
		}
		if !test.wantErr && price != test.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", test.input, price, test.want)
		}
	}
}
