// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menuservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzhttp"

	"github.com/bureau-foundation/kiosk/lib/menu"
	"github.com/bureau-foundation/kiosk/lib/menustore"
)

// Store is the persistence the handlers need. *menustore.Store
// implements it.
type Store interface {
	Items(ctx context.Context) ([]menu.Item, error)
	UpsertItem(ctx context.Context, item menu.Item) (created bool, err error)
	RecordOrder(ctx context.Context, names []string) (menustore.Order, error)
}

// Config holds the parameters for NewServer.
type Config struct {
	// Store is required.
	Store Store

	// PasswordHash is the bcrypt hash of the admin password. Required.
	PasswordHash []byte

	// Gzip compresses responses for clients that accept it.
	Gzip bool

	// Logger receives one record per request. Nil uses slog.Default.
	Logger *slog.Logger
}

// Server serves the menu API over TCP.
type Server struct {
	handler    *Handler
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer validates the configuration and builds the handler chain.
func NewServer(config Config) (*Server, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("menuservice: Store is required")
	}
	if len(config.PasswordHash) == 0 {
		return nil, fmt.Errorf("menuservice: PasswordHash is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler := &Handler{
		store:        config.Store,
		passwordHash: config.PasswordHash,
		logger:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/menu", handler.HandleMenu)
	mux.HandleFunc("POST /api/order", handler.HandleOrder)
	mux.HandleFunc("POST /api/admin/login", handler.HandleLogin)
	mux.HandleFunc("POST /api/admin/item", handler.HandleUpsertItem)
	mux.HandleFunc("OPTIONS /api/", handler.HandlePreflight)
	mux.HandleFunc("GET /health", handler.HandleHealth)

	var chain http.Handler = mux
	if config.Gzip {
		chain = gzhttp.GzipHandler(chain)
	}
	chain = withCORS(chain)
	chain = withRequestLog(chain, logger)

	return &Server{
		handler: handler,
		httpServer: &http.Server{
			Handler:           chain,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		logger: logger,
	}, nil
}

// Handler returns the full handler chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Serve accepts connections on listener until Shutdown. Returns nil
// after a clean shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("menu service listening", "address", listener.Addr().String())
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("menuservice: serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight
// requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down menu service")
	return s.httpServer.Shutdown(ctx)
}

// withCORS lets browser-hosted frontends call the API from another
// origin.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Expose-Headers", "ETag")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code and body size for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(data []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(data)
	r.bytes += int64(n)
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func withRequestLog(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"size", humanize.Bytes(uint64(recorder.bytes)),
			"elapsed", time.Since(started),
			"remote", r.RemoteAddr,
		)
	})
}
