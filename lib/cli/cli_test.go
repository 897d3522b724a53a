// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestToolError_ErrorWithHint(t *testing.T) {
	err := Validation("unknown flag --colour").WithHint("Run 'kiosk --help' for usage.")
	want := "unknown flag --colour\n\nRun 'kiosk --help' for usage."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestToolError_ExitCodes(t *testing.T) {
	tests := []struct {
		err  *ToolError
		want int
	}{
		{Validation("bad"), 2},
		{Transient("later"), 3},
		{Internal("bug"), 1},
	}
	for _, test := range tests {
		if got := test.err.ExitCode(); got != test.want {
			t.Errorf("%s ExitCode() = %d, want %d", test.err.Category, got, test.want)
		}
	}
}

func TestToolError_SurvivesWrapping(t *testing.T) {
	cause := errors.New("address already in use")
	inner := Transient("listening: %w", cause).WithHint("pick another --listen port")
	wrapped := fmt.Errorf("starting: %w", inner)

	var toolErr *ToolError
	if !errors.As(wrapped, &toolErr) {
		t.Fatal("errors.As should find ToolError in wrapped chain")
	}
	if toolErr.Hint != "pick another --listen port" {
		t.Errorf("Hint = %q", toolErr.Hint)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should reach the cause through ToolError")
	}
}

func TestNewLogger_FormatFollowsTerminal(t *testing.T) {
	var text bytes.Buffer
	newLogger(&text, true, slog.LevelInfo).Info("menu loaded", "items", 3)
	if !strings.Contains(text.String(), "msg=\"menu loaded\"") {
		t.Errorf("terminal output = %q, want text format", text.String())
	}

	var structured bytes.Buffer
	newLogger(&structured, false, slog.LevelInfo).Info("menu loaded", "items", 3)
	var record map[string]any
	if err := json.Unmarshal(structured.Bytes(), &record); err != nil {
		t.Fatalf("non-terminal output is not JSON: %q", structured.String())
	}
	if record["items"] != float64(3) {
		t.Errorf("record = %v", record)
	}
}

func TestFanoutHandler(t *testing.T) {
	var warnOnly, everything bytes.Buffer
	logger := slog.New(FanoutHandler{
		slog.NewJSONHandler(&warnOnly, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&everything, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}).With("component", "kiosk")

	logger.Debug("tick")
	logger.Warn("checkout failed")

	if strings.Contains(warnOnly.String(), "tick") {
		t.Error("debug record reached warn-level handler")
	}
	if !strings.Contains(warnOnly.String(), "checkout failed") || !strings.Contains(everything.String(), "tick") {
		t.Errorf("records missing: warn=%q all=%q", warnOnly.String(), everything.String())
	}
	if !strings.Contains(everything.String(), `"component":"kiosk"`) {
		t.Errorf("attrs not propagated: %q", everything.String())
	}
}

func TestOpenFileLogHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosk.log")
	handler, closer, err := OpenFileLogHandler(path)
	if err != nil {
		t.Fatalf("OpenFileLogHandler: %v", err)
	}
	slog.New(handler).Debug("written")
	closer()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"written"`) {
		t.Errorf("log file = %q", data)
	}
}
