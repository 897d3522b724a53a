// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// kiosk is the terminal ordering client. Customers browse the menu by
// category or keyword, build a cart, and check out against the menu
// service. An administrator logs in to add and edit menu items; the
// admin flag lasts for the current terminal session.
//
// The TUI owns the terminal, so background log records are routed to
// the status bar (warnings and above) and, with --log-output, to a
// JSON file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kiosk/lib/cli"
	"github.com/bureau-foundation/kiosk/lib/config"
	"github.com/bureau-foundation/kiosk/lib/kiosk"
	"github.com/bureau-foundation/kiosk/lib/kioskapi"
	"github.com/bureau-foundation/kiosk/lib/kioskui"
	"github.com/bureau-foundation/kiosk/lib/process"
	"github.com/bureau-foundation/kiosk/lib/tui"
	"github.com/bureau-foundation/kiosk/lib/version"
)

const binaryName = "kiosk"

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath   string
		apiURL       string
		sessionDir   string
		logOutput    string
		dropDangling bool
	)

	flagSet := pflag.NewFlagSet(binaryName, pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to kiosk.yaml (default: $KIOSK_CONFIG, then built-in defaults)")
	flagSet.StringVar(&apiURL, "api-url", "", "menu service root URL (overrides kiosk.api_url)")
	flagSet.StringVar(&sessionDir, "session-dir", "", "directory for the per-session admin flag (overrides kiosk.session_dir)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (in addition to the status bar)")
	flagSet.BoolVar(&dropDangling, "drop-dangling", false, "drop cart entries for items removed from the menu on reload")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print(binaryName)
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return cli.Validation("%w", err)
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return cli.Validation("unexpected argument: %s", args[0])
	}

	cfg, source, err := config.Resolve(configPath)
	if err != nil {
		return cli.Validation("loading config: %w", err)
	}
	if apiURL != "" {
		cfg.Kiosk.APIURL = apiURL
	}
	if sessionDir != "" {
		cfg.Kiosk.SessionDir = sessionDir
	}
	if flagSet.Changed("drop-dangling") {
		cfg.Kiosk.DropDanglingOnReload = dropDangling
	}
	if err := cfg.ValidateKiosk(); err != nil {
		return cli.Validation("invalid config from %s: %w", source, err)
	}
	requestTimeout, _ := cfg.RequestTimeout()

	tuiHandler := kioskui.NewTUILogHandler(slog.LevelWarn)
	var logger *slog.Logger
	if logOutput != "" {
		fileHandler, closeFile, err := cli.OpenFileLogHandler(logOutput)
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", logOutput, err)
		}
		defer closeFile()
		logger = slog.New(cli.FanoutHandler{tuiHandler, fileHandler})
	} else {
		logger = slog.New(tuiHandler)
	}
	client, err := kioskapi.NewClient(kioskapi.Options{
		BaseURL:          cfg.Kiosk.APIURL,
		Timeout:          requestTimeout,
		FallbackCategory: cfg.Kiosk.FallbackCategory,
		Logger:           logger.With("component", "api"),
	})
	if err != nil {
		return cli.Validation("%w", err)
	}
	logger.Info("starting kiosk",
		"version", version.Info(),
		"config", source,
		"api_url", client.BaseURL(),
	)

	sessionPath, err := kiosk.SessionFilePath(cfg.Kiosk.SessionDir)
	if err != nil {
		return cli.Internal("%w", err)
	}
	session := kiosk.NewSessionFlags(kiosk.NewFileStore(sessionPath), logger)
	state := kiosk.NewState(session)
	state.DropDanglingOnReload = cfg.Kiosk.DropDanglingOnReload

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tui.ApplyColorProfile(tui.DetectColorProfile())
	model := kioskui.NewModel(kioskui.Options{
		API:   client,
		State: state,
		Settings: kioskui.Settings{
			CurrencySymbol:   cfg.Kiosk.CurrencySymbol,
			PlaceholderImage: cfg.Kiosk.PlaceholderImage,
		},
		Logger:  logger,
		Context: ctx,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	tuiHandler.SetProgram(program)

	_, err = program.Run()
	// Records logged after Run returns would block on a dead program.
	tuiHandler.SetProgram(nil)
	if err != nil {
		return cli.Internal("terminal UI: %w", err)
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `kiosk is a terminal menu and ordering client.

Usage:
  %s [flags]

Examples:
  # Connect to a local menu service
  %s

  # Connect to a remote service and keep a debug log
  %s --api-url http://menu.internal:5000 --log-output /tmp/kiosk.log

Keys:
  arrows/hjkl move   tab category   / search   enter add   c cart
  L admin login      n new item     e edit     r reload    q quit

Flags:
`, binaryName, binaryName, binaryName)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
