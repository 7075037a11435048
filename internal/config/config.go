// Package config provides JSON-based configuration loading for Toolbelt.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPasswordCommand is written into newly created config files. It
// retrieves the search-provider session token from pass(1).
const DefaultPasswordCommand = "pass show kagi/session-token"

// DefaultTimeout is the subprocess timeout in seconds for token retrieval.
const DefaultTimeout = 10

// Config is the top-level Toolbelt configuration, loaded from config.json.
type Config struct {
	PasswordCommand string          `json:"password_command"`
	Timeout         int             `json:"timeout"`
	Storage         StorageConfig   `json:"storage,omitempty"`
	Notify          NotifyConfig    `json:"notify,omitempty"`
	Dashboard       DashboardConfig `json:"dashboard,omitempty"`
}

// StorageConfig selects the backing store for the activity recorder.
type StorageConfig struct {
	Driver   string `json:"driver,omitempty"` // "sqlite" (default) or "mysql"
	Path     string `json:"path,omitempty"`   // sqlite database file
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
}

// NotifyConfig holds optional session-digest delivery targets.
type NotifyConfig struct {
	SlackWebhookURL  string `json:"slack_webhook_url,omitempty"`
	DiscordToken     string `json:"discord_token,omitempty"`
	DiscordChannelID string `json:"discord_channel_id,omitempty"`
}

// DashboardConfig holds settings for the read-only stats server.
type DashboardConfig struct {
	Port int `json:"port,omitempty"`
}

// Dir returns the Toolbelt configuration directory (~/.toolbelt).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".toolbelt"), nil
}

// DefaultPath returns the well-known config file path (~/.toolbelt/config.json).
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file at path, creating it with defaults first if it
// does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := defaultConfig()
		if werr := writeConfig(path, cfg); werr != nil {
			return nil, werr
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals JSON bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in default values for absent fields.
func (c *Config) applyDefaults() {
	if c.PasswordCommand == "" {
		c.PasswordCommand = DefaultPasswordCommand
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		if dir, err := Dir(); err == nil {
			c.Storage.Path = filepath.Join(dir, "sessions.db")
		}
	}
	if c.Storage.Driver == "mysql" {
		if c.Storage.Host == "" {
			c.Storage.Host = "127.0.0.1"
		}
		if c.Storage.Port == 0 {
			c.Storage.Port = 3306
		}
		if c.Storage.Database == "" {
			c.Storage.Database = "toolbelt"
		}
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8990
	}
}

// validate checks that all fields are consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Timeout < 0 {
		errs = append(errs, "timeout must be non-negative")
	}
	switch c.Storage.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("storage.driver %q is not supported (sqlite, mysql)", c.Storage.Driver))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// defaultConfig returns a Config populated entirely from defaults.
func defaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// writeConfig creates the config directory and writes cfg as indented JSON.
func writeConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal defaults: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
