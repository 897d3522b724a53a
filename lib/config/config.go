// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "KIOSK_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local machines. The menu service accepts the
	// demo admin password when no credential is configured.
	Development Environment = "development"
	// Staging is for pre-production kiosks.
	Staging Environment = "staging"
	// Production is for customer-facing kiosks.
	Production Environment = "production"
)

// Config is the master configuration.
type Config struct {
	// Environment identifies the deployment type.
	Environment Environment `yaml:"environment"`

	// Root is the base directory for kiosk data; ${KIOSK_ROOT} in other
	// path fields expands to it.
	Root string `yaml:"root"`

	// Kiosk configures the terminal client.
	Kiosk KioskConfig `yaml:"kiosk"`

	// MenuService configures the reference menu service.
	MenuService MenuServiceConfig `yaml:"menu_service"`

	// Per-environment overrides, applied after the base config.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Kiosk       *KioskOverrides       `yaml:"kiosk,omitempty"`
	MenuService *MenuServiceOverrides `yaml:"menu_service,omitempty"`
}

// KioskConfig configures the terminal client.
type KioskConfig struct {
	// APIURL is the menu service root (the client appends /api/...).
	// Default: http://localhost:5000
	APIURL string `yaml:"api_url"`

	// RequestTimeout bounds every menu service call.
	// Default: 10s
	RequestTimeout string `yaml:"request_timeout"`

	// SessionDir holds the per-terminal-session admin flag file.
	// Default: empty, meaning $XDG_RUNTIME_DIR or the temp directory.
	SessionDir string `yaml:"session_dir"`

	// PlaceholderImage replaces missing or malformed item images.
	PlaceholderImage string `yaml:"placeholder_image"`

	// CurrencySymbol prefixes every price. Default: ¥
	CurrencySymbol string `yaml:"currency_symbol"`

	// FallbackCategory labels uncategorized items. Default: Other
	FallbackCategory string `yaml:"fallback_category"`

	// DropDanglingOnReload removes cart entries whose items vanished
	// from the menu after a reload. Default: false (entries are kept
	// and contribute nothing to totals).
	DropDanglingOnReload bool `yaml:"drop_dangling_on_reload"`
}

// KioskOverrides mirrors KioskConfig with pointer booleans so an
// override can switch a flag off.
type KioskOverrides struct {
	APIURL               string `yaml:"api_url,omitempty"`
	RequestTimeout       string `yaml:"request_timeout,omitempty"`
	SessionDir           string `yaml:"session_dir,omitempty"`
	PlaceholderImage     string `yaml:"placeholder_image,omitempty"`
	CurrencySymbol       string `yaml:"currency_symbol,omitempty"`
	FallbackCategory     string `yaml:"fallback_category,omitempty"`
	DropDanglingOnReload *bool  `yaml:"drop_dangling_on_reload,omitempty"`
}

// MenuServiceConfig configures the reference menu service.
type MenuServiceConfig struct {
	// Listen is the TCP listen address. Default: 127.0.0.1:5000
	Listen string `yaml:"listen"`

	// Database is the SQLite file path. Default: ${KIOSK_ROOT}/menu.db
	Database string `yaml:"database"`

	// SeedFile is a JSONC menu object used to seed an empty database.
	// Empty uses the built-in default menu.
	SeedFile string `yaml:"seed_file"`

	// AdminPasswordHash is the bcrypt hash of the admin password.
	AdminPasswordHash string `yaml:"admin_password_hash"`

	// AdminPasswordFile holds the plaintext admin password, hashed at
	// startup. Ignored when AdminPasswordHash is set.
	AdminPasswordFile string `yaml:"admin_password_file"`

	// Gzip enables response compression. Default: true
	Gzip bool `yaml:"gzip"`

	// ShutdownTimeout bounds graceful shutdown. Default: 5s
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// MenuServiceOverrides mirrors MenuServiceConfig for environment
// sections.
type MenuServiceOverrides struct {
	Listen            string `yaml:"listen,omitempty"`
	Database          string `yaml:"database,omitempty"`
	SeedFile          string `yaml:"seed_file,omitempty"`
	AdminPasswordHash string `yaml:"admin_password_hash,omitempty"`
	AdminPasswordFile string `yaml:"admin_password_file,omitempty"`
	Gzip              *bool  `yaml:"gzip,omitempty"`
	ShutdownTimeout   string `yaml:"shutdown_timeout,omitempty"`
}

// Default returns the development configuration used as the base
// before a file is merged in, and on its own when no file is given.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".local", "share", "kiosk")

	return &Config{
		Environment: Development,
		Root:        defaultRoot,
		Kiosk: KioskConfig{
			APIURL:           "http://localhost:5000",
			RequestTimeout:   "10s",
			PlaceholderImage: "https://via.placeholder.com/300x200?text=No+Image",
			CurrencySymbol:   "¥",
			FallbackCategory: "Other",
		},
		MenuService: MenuServiceConfig{
			Listen:          "127.0.0.1:5000",
			Database:        "${KIOSK_ROOT}/menu.db",
			Gzip:            true,
			ShutdownTimeout: "5s",
		},
	}
}

// Load loads configuration from the KIOSK_CONFIG environment variable.
// Fails when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your kiosk.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// Resolve loads configuration for a command: flagPath when non-empty,
// otherwise KIOSK_CONFIG when set, otherwise Default. The returned
// source names where the configuration came from, for logging.
func Resolve(flagPath string) (cfg *Config, source string, err error) {
	if flagPath != "" {
		cfg, err = LoadFile(flagPath)
		return cfg, flagPath, err
	}
	if envPath := os.Getenv(EnvironmentVariable); envPath != "" {
		cfg, err = LoadFile(envPath)
		return cfg, envPath, err
	}
	cfg = Default()
	cfg.expandVariables()
	return cfg, "built-in defaults", nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if kiosk := overrides.Kiosk; kiosk != nil {
		setIfNonEmpty(&c.Kiosk.APIURL, kiosk.APIURL)
		setIfNonEmpty(&c.Kiosk.RequestTimeout, kiosk.RequestTimeout)
		setIfNonEmpty(&c.Kiosk.SessionDir, kiosk.SessionDir)
		setIfNonEmpty(&c.Kiosk.PlaceholderImage, kiosk.PlaceholderImage)
		setIfNonEmpty(&c.Kiosk.CurrencySymbol, kiosk.CurrencySymbol)
		setIfNonEmpty(&c.Kiosk.FallbackCategory, kiosk.FallbackCategory)
		if kiosk.DropDanglingOnReload != nil {
			c.Kiosk.DropDanglingOnReload = *kiosk.DropDanglingOnReload
		}
	}

	if service := overrides.MenuService; service != nil {
		setIfNonEmpty(&c.MenuService.Listen, service.Listen)
		setIfNonEmpty(&c.MenuService.Database, service.Database)
		setIfNonEmpty(&c.MenuService.SeedFile, service.SeedFile)
		setIfNonEmpty(&c.MenuService.AdminPasswordHash, service.AdminPasswordHash)
		setIfNonEmpty(&c.MenuService.AdminPasswordFile, service.AdminPasswordFile)
		setIfNonEmpty(&c.MenuService.ShutdownTimeout, service.ShutdownTimeout)
		if service.Gzip != nil {
			c.MenuService.Gzip = *service.Gzip
		}
	}
}

func setIfNonEmpty(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"KIOSK_ROOT": c.Root,
		"HOME":       os.Getenv("HOME"),
	}

	c.Root = expandVars(c.Root, vars)
	vars["KIOSK_ROOT"] = c.Root

	c.Kiosk.SessionDir = expandVars(c.Kiosk.SessionDir, vars)
	c.MenuService.Database = expandVars(c.MenuService.Database, vars)
	c.MenuService.SeedFile = expandVars(c.MenuService.SeedFile, vars)
	c.MenuService.AdminPasswordFile = expandVars(c.MenuService.AdminPasswordFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default}. Provided vars take
// precedence over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// RequestTimeout returns the parsed kiosk request timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	return parsePositiveDuration("kiosk.request_timeout", c.Kiosk.RequestTimeout)
}

// ShutdownTimeout returns the parsed menu service shutdown timeout.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	return parsePositiveDuration("menu_service.shutdown_timeout", c.MenuService.ShutdownTimeout)
}

func parsePositiveDuration(field, value string) (time.Duration, error) {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", field, value)
	}
	return duration, nil
}

// AllowsDemoPassword reports whether the menu service may fall back to
// the demo admin password when no credential is configured.
func (c *Config) AllowsDemoPassword() bool {
	return c.Environment == Development
}

// Validate checks every section. Commands that use only one section
// call ValidateKiosk or ValidateMenuService instead.
func (c *Config) Validate() error {
	return errors.Join(c.ValidateKiosk(), c.ValidateMenuService())
}

// ValidateKiosk checks the environment and the kiosk section.
func (c *Config) ValidateKiosk() error {
	errs := c.validateEnvironment()

	if parsed, err := url.Parse(c.Kiosk.APIURL); err != nil || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		errs = append(errs, fmt.Errorf("kiosk.api_url must be an absolute http or https URL, got %q", c.Kiosk.APIURL))
	}
	if _, err := c.RequestTimeout(); err != nil {
		errs = append(errs, err)
	}
	if c.Kiosk.CurrencySymbol == "" {
		errs = append(errs, fmt.Errorf("kiosk.currency_symbol is required"))
	}
	if c.Kiosk.FallbackCategory == "" {
		errs = append(errs, fmt.Errorf("kiosk.fallback_category is required"))
	}
	return errors.Join(errs...)
}

// ValidateMenuService checks the environment and the menu service
// section. The service labels uncategorized items with
// kiosk.fallback_category, so that field is checked here too.
func (c *Config) ValidateMenuService() error {
	errs := c.validateEnvironment()

	if c.MenuService.Listen == "" {
		errs = append(errs, fmt.Errorf("menu_service.listen is required"))
	}
	if c.MenuService.Database == "" {
		errs = append(errs, fmt.Errorf("menu_service.database is required"))
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		errs = append(errs, err)
	}
	if c.Kiosk.FallbackCategory == "" {
		errs = append(errs, fmt.Errorf("kiosk.fallback_category is required"))
	}
	if !c.AllowsDemoPassword() && c.MenuService.AdminPasswordHash == "" && c.MenuService.AdminPasswordFile == "" {
		errs = append(errs, fmt.Errorf("menu_service.admin_password_hash or menu_service.admin_password_file is required in %s", c.Environment))
	}
	return errors.Join(errs...)
}

func (c *Config) validateEnvironment() []error {
	environments := []Environment{Development, Staging, Production}
	if !slices.Contains(environments, c.Environment) {
		return []error{fmt.Errorf("invalid environment: %s", c.Environment)}
	}
	return nil
}

// EnsureRoot creates the root directory and the database's parent
// directory if they don't exist.
func (c *Config) EnsureRoot() error {
	for _, path := range []string{c.Root, filepath.Dir(c.MenuService.Database)} {
		if path == "" || path == "." {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
