// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/kiosk/lib/kiosk"
	"github.com/bureau-foundation/kiosk/lib/kioskapi"
	"github.com/bureau-foundation/kiosk/lib/testutil"
)

// recordingSender collects delivered messages on a channel.
type recordingSender struct {
	messages chan tea.Msg
}

func newRecordingSender() *recordingSender {
	return &recordingSender{messages: make(chan tea.Msg, 64)}
}

func (sender *recordingSender) Send(message tea.Msg) {
	sender.messages <- message
}

func (sender *recordingSender) next(t *testing.T) logRecordMsg {
	t.Helper()
	message := testutil.RequireReceive(t, sender.messages, 5*time.Second, "waiting for log record")
	return message.(logRecordMsg)
}

func (sender *recordingSender) requireQuiet(t *testing.T) {
	t.Helper()
	select {
	case message := <-sender.messages:
		t.Fatalf("unexpected message %#v", message)
	case <-time.After(50 * time.Millisecond):
	}
}

// blockingSender never accepts a message until released.
type blockingSender struct {
	release chan struct{}
}

func (sender *blockingSender) Send(tea.Msg) {
	<-sender.release
}

func TestTUILogHandler_DropsBeforeProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	logger := slog.New(handler)
	logger.Warn("early")

	sender := newRecordingSender()
	handler.SetProgram(sender)
	logger.Warn("late")

	if record := sender.next(t); record.Summary != "late" {
		t.Errorf("summary = %q, want late", record.Summary)
	}
	sender.requireQuiet(t)
}

func TestTUILogHandler_LevelAndAttrs(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	sender := newRecordingSender()
	handler.SetProgram(sender)

	logger := slog.New(handler).With("component", "kiosk")
	logger.Info("ignored")
	logger.WithGroup("order").Error("submission failed", "units", 3)

	record := sender.next(t)
	if record.Summary != "submission failed (component=kiosk, order.units=3)" {
		t.Errorf("summary = %q", record.Summary)
	}
	if record.Level != slog.LevelError {
		t.Errorf("level = %v, want error", record.Level)
	}
	sender.requireQuiet(t)
}

func TestTUILogHandler_PreservesOrder(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	sender := newRecordingSender()
	handler.SetProgram(sender)

	logger := slog.New(handler)
	for _, text := range []string{"first", "second", "third"} {
		logger.Warn(text)
	}
	for _, want := range []string{"first", "second", "third"} {
		if record := sender.next(t); record.Summary != want {
			t.Errorf("summary = %q, want %q", record.Summary, want)
		}
	}
}

func TestTUILogHandler_HandleDoesNotWaitForProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	sender := &blockingSender{release: make(chan struct{})}
	handler.SetProgram(sender)
	defer close(sender.release)

	logged := make(chan struct{})
	go func() {
		logger := slog.New(handler)
		for range maxPendingLogRecords * 2 {
			logger.Error("event loop busy")
		}
		close(logged)
	}()
	testutil.RequireClosed(t, logged, 5*time.Second, "logging blocked on a busy program")
}

func TestLogRecordShownAndFaded(t *testing.T) {
	model := newTestModel(t, newFakeAPI(), nil)

	updated, _ := model.Update(logRecordMsg{Summary: "session store unavailable", Level: slog.LevelWarn})
	model = updated.(Model)
	if model.logMessage != "session store unavailable" {
		t.Fatalf("log message = %q", model.logMessage)
	}

	stale, _ := model.Update(logRecordFadeMsg{generation: model.logGeneration - 1})
	if stale.(Model).logMessage == "" {
		t.Error("stale fade cleared a newer message")
	}
	faded, _ := model.Update(logRecordFadeMsg{generation: model.logGeneration})
	if faded.(Model).logMessage != "" {
		t.Error("fade did not clear the message")
	}
}

func TestTUILogHandler_DetachedProgramDrops(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	sender := newRecordingSender()
	handler.SetProgram(sender)
	handler.SetProgram(nil)

	slog.New(handler).Error("after exit")
	sender.requireQuiet(t)
}

// quitAfterDelivery forwards a log record to the program and then
// asks it to quit, so the program exits only once the record was
// accepted by the event loop.
type quitAfterDelivery struct {
	program *tea.Program
}

func (sender quitAfterDelivery) Send(message tea.Msg) {
	sender.program.Send(message)
	sender.program.Quit()
}

func TestRunningProgramSurvivesLoadFailureLog(t *testing.T) {
	api := newFakeAPI()
	api.fetchErr = &kioskapi.NetworkError{Op: "fetch menu", Err: io.ErrUnexpectedEOF}

	handler := NewTUILogHandler(slog.LevelWarn)
	model := NewModel(Options{
		API:    api,
		State:  kiosk.NewState(kiosk.NewSessionFlags(&kiosk.MemoryStore{}, nil)),
		Logger: slog.New(handler),
		Now:    func() time.Time { return testClock },
	})
	program := tea.NewProgram(model,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	handler.SetProgram(quitAfterDelivery{program: program})
	defer handler.SetProgram(nil)

	type runResult struct {
		model tea.Model
		err   error
	}
	done := make(chan runResult, 1)
	go func() {
		final, err := program.Run()
		done <- runResult{model: final, err: err}
	}()

	result := testutil.RequireReceive(t, done, 5*time.Second, "program stalled after logging a menu load failure")
	if result.err != nil {
		t.Fatalf("Run: %v", result.err)
	}
	final := result.model.(Model)
	if final.alert == "" {
		t.Error("load failure did not raise the alert")
	}
	if !strings.HasPrefix(final.logMessage, "loading menu failed") {
		t.Errorf("status bar log = %q, want the load failure", final.logMessage)
	}
}
