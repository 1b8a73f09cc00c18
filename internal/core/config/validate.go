package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("api.base_url", c.API.BaseURL, isHTTPURL),
		c.validateTimeout(),
		c.validateCatalog(),
		c.validateNotifications(),
		c.validateDatabase(),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
	)
}

// ValidateDeep performs Validate plus checks that touch the filesystem. The
// configPath argument specifies the config file location to validate (empty
// string skips the config file check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Catalog.UniqueIDPolicy == PolicyFailClosed {
		warnings = append(warnings, ValidationWarning{
			Category: "Catalog",
			Item:     "unique_id_policy",
			Message:  "fail-closed blocks product creation while the backend is unreachable",
		})
	}
	if c.Notifications.History == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Notifications",
			Item:     "history",
			Message:  "notification history is disabled",
		})
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		warnings = append(warnings, ValidationWarning{
			Category: "Database",
			Item:     "max_idle_conns",
			Message:  "max_idle_conns exceeds max_open_conns and will be capped",
		})
	}

	return warnings
}

func (c *Config) validateCatalog() error {
	var errs criterio.FieldErrorsBuilder

	if len(c.Catalog.PageSizes) == 0 {
		errs = errs.Append("catalog.page_sizes", errors.New("at least one page size is required"))
	}
	for i, n := range c.Catalog.PageSizes {
		if n < 1 {
			errs = errs.Append(fmt.Sprintf("catalog.page_sizes[%d]", i), fmt.Errorf("must be at least 1, got %d", n))
		}
	}
	if !slices.Contains(c.Catalog.PageSizes, c.Catalog.DefaultPageSize) {
		errs = errs.Append("catalog.default_page_size", fmt.Errorf("%d is not one of page_sizes %v", c.Catalog.DefaultPageSize, c.Catalog.PageSizes))
	}

	switch c.Catalog.UniqueIDPolicy {
	case PolicyFailOpen, PolicyFailClosed:
	default:
		errs = errs.Append("catalog.unique_id_policy", fmt.Errorf("must be %q or %q, got %q", PolicyFailOpen, PolicyFailClosed, c.Catalog.UniqueIDPolicy))
	}

	for i, s := range c.Catalog.URLSchemes {
		if s == "" {
			errs = errs.Append(fmt.Sprintf("catalog.url_schemes[%d]", i), errors.New("scheme cannot be empty"))
		}
	}

	return errs.ToError()
}

func (c *Config) validateTimeout() error {
	if c.API.Timeout <= 0 {
		return criterio.NewFieldErrors("api.timeout", fmt.Errorf("must be positive, got %s", c.API.Timeout))
	}
	return nil
}

// validateNotifications leaves durations alone: a negative duration keeps
// toasts of that level until they are dismissed.
func (c *Config) validateNotifications() error {
	var errs criterio.FieldErrorsBuilder

	if c.Notifications.MaxVisible < 1 {
		errs = errs.Append("notifications.max_visible", errors.New("must be at least 1"))
	}
	if c.Notifications.History < 0 {
		errs = errs.Append("notifications.history", errors.New("cannot be negative"))
	}

	return errs.ToError()
}

func (c *Config) validateDatabase() error {
	var errs criterio.FieldErrorsBuilder

	if err := positive(c.Database.MaxOpenConns); err != nil {
		errs = errs.Append("database.max_open_conns", err)
	}
	if err := nonNegative(c.Database.MaxIdleConns); err != nil {
		errs = errs.Append("database.max_idle_conns", err)
	}
	if err := nonNegative(c.Database.BusyTimeout); err != nil {
		errs = errs.Append("database.busy_timeout", err)
	}

	return errs.ToError()
}

func isHTTPURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q, available: %s", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func positive(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	return nil
}

func nonNegative(n int) error {
	if n < 0 {
		return fmt.Errorf("cannot be negative, got %d", n)
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return errors.New("exists but is not a directory")
	}
	return nil
}
