package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/catalog/internal/core/config"
	"github.com/colonyops/catalog/internal/core/product"
)

// ConfigCheck validates the loaded configuration and reports its warnings.
type ConfigCheck struct {
	cfg        *config.Config
	configPath string
}

func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, configPath: configPath}
}

func (c *ConfigCheck) Name() string { return "Configuration" }

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.cfg.ValidateDeep(c.configPath); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result.add(fe.Field, StatusFail, fe.Err.Error())
			}
		} else {
			result.add("config", StatusFail, err.Error())
		}
		return result
	}

	result.add("config", StatusPass, c.configPath)
	for _, w := range c.cfg.Warnings() {
		label := w.Category
		if w.Item != "" {
			label = w.Item
		}
		result.add(label, StatusWarn, w.Message)
	}

	return result
}

// ProductLister is the subset of the API client the API check needs.
type ProductLister interface {
	BaseURL() string
	List(ctx context.Context) ([]product.Product, error)
}

// APICheck verifies the product endpoint answers within timeout.
type APICheck struct {
	api     ProductLister
	timeout time.Duration
}

func NewAPICheck(api ProductLister, timeout time.Duration) *APICheck {
	return &APICheck{api: api, timeout: timeout}
}

func (c *APICheck) Name() string { return "Product API" }

func (c *APICheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	products, err := c.api.List(ctx)
	if err != nil {
		result.add(c.api.BaseURL(), StatusFail, err.Error())
		return result
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	result.add(c.api.BaseURL(), StatusPass, fmt.Sprintf("%d products in %s", len(products), elapsed))
	return result
}

// HistoryCounter reports how many notifications are persisted.
type HistoryCounter interface {
	Count(ctx context.Context) (int64, error)
}

// HistoryCheck reports on the notification history database. A nil store
// means history is disabled.
type HistoryCheck struct {
	store HistoryCounter
	limit int
}

func NewHistoryCheck(store HistoryCounter, limit int) *HistoryCheck {
	return &HistoryCheck{store: store, limit: limit}
}

func (c *HistoryCheck) Name() string { return "Notification History" }

func (c *HistoryCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.store == nil {
		result.add("database", StatusWarn, "disabled, notifications are kept in memory only")
		return result
	}

	n, err := c.store.Count(ctx)
	if err != nil {
		result.add("database", StatusFail, err.Error())
		return result
	}

	result.add("database", StatusPass, fmt.Sprintf("%d of %d notifications stored", n, c.limit))
	return result
}
