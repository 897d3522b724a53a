// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// kiosk-menu-service is the reference HTTP backend for the kiosk
// terminal client. It serves the menu, records orders, and accepts
// admin logins and menu edits, persisting everything to SQLite.
//
// An empty database is seeded on startup from the configured seed file
// (JSON with comments) or from the built-in default menu. The admin
// password comes from a bcrypt hash in the config, or from a plaintext
// file hashed at startup. Development deployments with neither fall
// back to the demo password and log a warning.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kiosk/lib/cli"
	"github.com/bureau-foundation/kiosk/lib/config"
	"github.com/bureau-foundation/kiosk/lib/menu"
	"github.com/bureau-foundation/kiosk/lib/menuservice"
	"github.com/bureau-foundation/kiosk/lib/menustore"
	"github.com/bureau-foundation/kiosk/lib/process"
	"github.com/bureau-foundation/kiosk/lib/secret"
	"github.com/bureau-foundation/kiosk/lib/version"
)

const binaryName = "kiosk-menu-service"

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath        string
		listen            string
		database          string
		seedFile          string
		adminPasswordFile string
		noGzip            bool
		verbose           bool
	)

	flagSet := pflag.NewFlagSet(binaryName, pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to kiosk.yaml (default: $KIOSK_CONFIG, then built-in defaults)")
	flagSet.StringVar(&listen, "listen", "", "TCP listen address (overrides menu_service.listen)")
	flagSet.StringVar(&database, "database", "", "SQLite database path (overrides menu_service.database)")
	flagSet.StringVar(&seedFile, "seed-file", "", "JSONC menu used to seed an empty database")
	flagSet.StringVar(&adminPasswordFile, "admin-password-file", "", "file holding the admin password, or - for stdin")
	flagSet.BoolVar(&noGzip, "no-gzip", false, "disable response compression")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
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
	if listen != "" {
		cfg.MenuService.Listen = listen
	}
	if database != "" {
		cfg.MenuService.Database = database
	}
	if seedFile != "" {
		cfg.MenuService.SeedFile = seedFile
	}
	if adminPasswordFile != "" {
		cfg.MenuService.AdminPasswordFile = adminPasswordFile
	}
	if noGzip {
		cfg.MenuService.Gzip = false
	}
	if err := cfg.ValidateMenuService(); err != nil {
		return cli.Validation("invalid config from %s: %w", source, err)
	}
	shutdownTimeout, _ := cfg.ShutdownTimeout()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := cli.NewCommandLogger(level)
	logger.Info("starting menu service",
		"version", version.Info(),
		"config", source,
		"environment", cfg.Environment,
	)

	passwordHash, err := resolvePasswordHash(cfg, logger)
	if err != nil {
		return err
	}

	if err := cfg.EnsureRoot(); err != nil {
		return cli.Internal("%w", err)
	}
	store, err := menustore.Open(menustore.Config{
		Path:             cfg.MenuService.Database,
		FallbackCategory: cfg.Kiosk.FallbackCategory,
		Logger:           logger,
	})
	if err != nil {
		return cli.Internal("%w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seedMenu(ctx, store, cfg.MenuService.SeedFile, cfg.Kiosk.FallbackCategory); err != nil {
		return err
	}

	server, err := menuservice.NewServer(menuservice.Config{
		Store:        store,
		PasswordHash: passwordHash,
		Gzip:         cfg.MenuService.Gzip,
		Logger:       logger,
	})
	if err != nil {
		return cli.Internal("%w", err)
	}

	listener, err := net.Listen("tcp", cfg.MenuService.Listen)
	if err != nil {
		return cli.Transient("listening on %s: %w", cfg.MenuService.Listen, err).
			WithHint("Another process may hold the port. Use --listen to pick a different address.")
	}

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(listener)
	}()

	select {
	case err := <-serveDone:
		return cli.Internal("%w", err)
	case <-ctx.Done():
	}

	shutdownContext, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownContext); err != nil {
		logger.Error("graceful shutdown incomplete", "error", err)
	}
	if err := <-serveDone; err != nil {
		logger.Error("menu service error", "error", err)
	}
	return nil
}

// resolvePasswordHash picks the admin credential: configured hash,
// then password file, then (development only) the demo password.
func resolvePasswordHash(cfg *config.Config, logger *slog.Logger) ([]byte, error) {
	if cfg.MenuService.AdminPasswordHash != "" {
		hash, err := menuservice.ParseHash(cfg.MenuService.AdminPasswordHash)
		if err != nil {
			return nil, cli.Validation("menu_service.admin_password_hash: %w", err)
		}
		return hash, nil
	}

	var (
		password *secret.Buffer
		err      error
	)
	switch {
	case cfg.MenuService.AdminPasswordFile != "":
		password, err = secret.ReadFromPath(cfg.MenuService.AdminPasswordFile)
		if err != nil {
			return nil, cli.Validation("reading admin password from %s: %w", cfg.MenuService.AdminPasswordFile, err)
		}
	case cfg.AllowsDemoPassword():
		logger.Warn("no admin credential configured, using the demo password",
			"environment", cfg.Environment)
		password, err = secret.FromString(menuservice.DemoPassword)
		if err != nil {
			return nil, cli.Internal("%w", err)
		}
	default:
		return nil, cli.Validation("no admin credential configured").
			WithHint("Set menu_service.admin_password_hash or pass --admin-password-file.")
	}
	defer password.Close()

	hash, err := menuservice.HashPassword(password)
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	return hash, nil
}

// seedMenu fills an empty database from the seed file or the default
// menu. A populated database is left alone.
func seedMenu(ctx context.Context, store *menustore.Store, seedFile, fallbackCategory string) error {
	var items []menu.Item
	if seedFile != "" {
		loaded, err := menustore.LoadSeedFile(seedFile, fallbackCategory)
		if err != nil {
			return cli.Validation("%w", err)
		}
		items = loaded
	} else {
		items = menustore.DefaultMenu()
	}

	if _, err := store.Seed(ctx, items); err != nil {
		return cli.Internal("seeding menu: %w", err)
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `kiosk-menu-service serves the kiosk menu API over HTTP.

Usage:
  %s [flags]

Examples:
  # Development: built-in defaults, demo admin password
  %s

  # Production config with the admin password read from stdin
  %s --config /etc/kiosk/kiosk.yaml --admin-password-file -

Flags:
`, binaryName, binaryName, binaryName)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
