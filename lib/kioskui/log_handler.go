// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a slog record to the model for display in the
// status bar.
type logRecordMsg struct {
	// Summary is the one-line "message (key=value, ...)" text.
	Summary string

	// Level selects warning or error styling.
	Level slog.Level
}

// logRecordFadeMsg clears a log message from the status bar unless a
// newer one replaced it.
type logRecordFadeMsg struct {
	generation int
}

// logRecordFadeDelay is how long log messages stay visible in the
// status bar before fading back to the key help line.
const logRecordFadeDelay = 5 * time.Second

// Sender is the part of *tea.Program the log handler needs.
type Sender interface {
	Send(message tea.Msg)
}

// maxPendingLogRecords bounds the records waiting for the event loop.
// Beyond it the oldest are dropped; the status bar only shows the
// newest anyway.
const maxPendingLogRecords = 32

// TUILogHandler is a slog.Handler that routes log records into a
// bubbletea program as messages. While the program owns the terminal
// nothing may write to stderr, so warnings and errors surface in the
// status bar instead. Records below the configured level are dropped.
//
// Handle never blocks. The model logs from inside Update, where a
// direct program.Send would wait on the event loop that is running
// it, so records are queued and delivered in order by a separate
// goroutine.
//
// The handler must be created before the program starts; call
// SetProgram once the tea.Program exists. Records arriving before
// that are dropped. Handlers derived via WithAttrs/WithGroup share the
// forwarder, so one SetProgram call reaches all of them.
type TUILogHandler struct {
	level     slog.Level
	forwarder *logForwarder
	attrs     []slog.Attr
	groups    []string
}

// NewTUILogHandler creates a handler that delivers records at or above
// level to the program.
func NewTUILogHandler(level slog.Level) *TUILogHandler {
	return &TUILogHandler{
		level:     level,
		forwarder: &logForwarder{},
	}
}

// SetProgram sets the receiver of log messages. Nil detaches the
// program; queued and later records are dropped. Safe to call from
// any goroutine.
func (handler *TUILogHandler) SetProgram(program Sender) {
	handler.forwarder.attach(program)
}

// Enabled reports whether the handler is interested in records at the
// given level.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle formats the record and queues it for the program.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	if !handler.forwarder.attached() {
		return nil
	}

	prefix := strings.Join(handler.groups, ".")
	if prefix != "" {
		prefix += "."
	}

	var attrParts []string
	for _, attr := range handler.attrs {
		attrParts = append(attrParts, attr.Key+"="+attr.Value.String())
	}
	record.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, prefix+attr.Key+"="+attr.Value.String())
		return true
	})

	summary := record.Message
	if len(attrParts) > 0 {
		summary += " (" + strings.Join(attrParts, ", ") + ")"
	}

	handler.forwarder.enqueue(logRecordMsg{Summary: summary, Level: record.Level})
	return nil
}

// WithAttrs returns a handler with attrs appended, sharing the
// forwarder.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TUILogHandler{
		level:     handler.level,
		forwarder: handler.forwarder,
		attrs:     append(sliceClone(handler.attrs), attrs...),
		groups:    sliceClone(handler.groups),
	}
}

// WithGroup returns a handler with the group appended, sharing the
// forwarder.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	return &TUILogHandler{
		level:     handler.level,
		forwarder: handler.forwarder,
		attrs:     sliceClone(handler.attrs),
		groups:    append(sliceClone(handler.groups), name),
	}
}

// logForwarder queues records and delivers them to the program from
// at most one goroutine at a time, preserving order.
type logForwarder struct {
	mu      sync.Mutex
	program Sender
	pending []logRecordMsg
	running bool
}

func (forwarder *logForwarder) attach(program Sender) {
	forwarder.mu.Lock()
	defer forwarder.mu.Unlock()
	forwarder.program = program
	if program == nil {
		forwarder.pending = nil
	}
}

func (forwarder *logForwarder) attached() bool {
	forwarder.mu.Lock()
	defer forwarder.mu.Unlock()
	return forwarder.program != nil
}

func (forwarder *logForwarder) enqueue(message logRecordMsg) {
	forwarder.mu.Lock()
	defer forwarder.mu.Unlock()
	if forwarder.program == nil {
		return
	}
	if len(forwarder.pending) >= maxPendingLogRecords {
		forwarder.pending = forwarder.pending[1:]
	}
	forwarder.pending = append(forwarder.pending, message)
	if !forwarder.running {
		forwarder.running = true
		go forwarder.deliver()
	}
}

// deliver sends queued records until the queue is empty or the program
// is detached. A tea.Program's Send returns once the program has
// exited, so a detached program never strands this goroutine.
func (forwarder *logForwarder) deliver() {
	for {
		forwarder.mu.Lock()
		if len(forwarder.pending) == 0 || forwarder.program == nil {
			forwarder.pending = nil
			forwarder.running = false
			forwarder.mu.Unlock()
			return
		}
		message := forwarder.pending[0]
		forwarder.pending = forwarder.pending[1:]
		program := forwarder.program
		forwarder.mu.Unlock()

		program.Send(message)
	}
}

// sliceClone returns a shallow copy of a slice. Avoids aliasing when
// building derived handlers.
func sliceClone[T any](source []T) []T {
	if source == nil {
		return nil
	}
	result := make([]T, len(source))
	copy(result, source)
	return result
}
