// Package config handles configuration loading and validation for catalog.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/colonyops/catalog/internal/core/notify"
	"gopkg.in/yaml.v3"
)

// Unique id policies accepted by catalog.unique_id_policy.
const (
	PolicyFailOpen   = "fail-open"
	PolicyFailClosed = "fail-closed"
)

// Config holds the application configuration.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Notifications NotificationsConfig `yaml:"notifications"`
	TUI           TUIConfig           `yaml:"tui"`
	Database      DatabaseConfig      `yaml:"database"`
	DataDir       string              `yaml:"-"` // set by caller, not from config file
}

// APIConfig configures the REST backend client.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// CatalogConfig configures the product workflows.
type CatalogConfig struct {
	PageSizes       []int    `yaml:"page_sizes"`
	DefaultPageSize int      `yaml:"default_page_size"`
	UniqueIDPolicy  string   `yaml:"unique_id_policy"`
	URLSchemes      []string `yaml:"url_schemes"` // schemes the logo sanitizer keeps
}

// NotificationsConfig configures toast lifetimes and the persisted history.
type NotificationsConfig struct {
	Durations  notify.Durations `yaml:"durations"`
	MaxVisible int              `yaml:"max_visible"`
	History    int              `yaml:"history"` // rows kept in the database, 0 disables persistence
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:3002/bp",
			Timeout:   10 * time.Second,
			UserAgent: "catalog",
		},
		Catalog: CatalogConfig{
			PageSizes:       []int{5, 10, 20},
			DefaultPageSize: 10,
			UniqueIDPolicy:  PolicyFailOpen,
			URLSchemes:      []string{"http", "https", "ftp", "mailto", "tel"},
		},
		Notifications: NotificationsConfig{
			Durations:  notify.DefaultDurations(),
			MaxVisible: 3,
			History:    200,
		},
		TUI: TUIConfig{
			Theme: "tokyo-night",
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and validates it.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg, err := Read(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation. `catalog config validate` uses it to
// report every problem instead of failing on the first load.
func Read(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = defaults.API.UserAgent
	}

	if len(c.Catalog.PageSizes) == 0 {
		c.Catalog.PageSizes = defaults.Catalog.PageSizes
	}
	if c.Catalog.DefaultPageSize == 0 {
		c.Catalog.DefaultPageSize = c.Catalog.PageSizes[0]
		if slices.Contains(c.Catalog.PageSizes, defaults.Catalog.DefaultPageSize) {
			c.Catalog.DefaultPageSize = defaults.Catalog.DefaultPageSize
		}
	}
	if c.Catalog.UniqueIDPolicy == "" {
		c.Catalog.UniqueIDPolicy = defaults.Catalog.UniqueIDPolicy
	}
	if len(c.Catalog.URLSchemes) == 0 {
		c.Catalog.URLSchemes = defaults.Catalog.URLSchemes
	}

	d := &c.Notifications.Durations
	if d.Success == 0 {
		d.Success = defaults.Notifications.Durations.Success
	}
	if d.Error == 0 {
		d.Error = defaults.Notifications.Durations.Error
	}
	if d.Warning == 0 {
		d.Warning = defaults.Notifications.Durations.Warning
	}
	if d.Info == 0 {
		d.Info = defaults.Notifications.Durations.Info
	}
	if c.Notifications.MaxVisible == 0 {
		c.Notifications.MaxVisible = defaults.Notifications.MaxVisible
	}

	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// LogFile returns the default log file location inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "catalog.log")
}
