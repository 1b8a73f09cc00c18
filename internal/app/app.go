// Package app wires the catalog services from configuration. Commands and
// the TUI consume App instead of cherry-picking raw dependencies.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/config"
	"github.com/colonyops/catalog/internal/core/logging"
	"github.com/colonyops/catalog/internal/core/notify"
	"github.com/colonyops/catalog/internal/core/sanitize"
	"github.com/colonyops/catalog/internal/data/api"
	"github.com/colonyops/catalog/internal/data/db"
	"github.com/colonyops/catalog/internal/data/stores"
)

// App is the central entry point for all catalog operations.
type App struct {
	Config        *config.Config
	API           *api.Client
	Products      *catalog.Service
	Selection     *catalog.Selection
	Notifications *notify.Center
	Sanitizer     *sanitize.URLSanitizer
	Unique        *catalog.UniqueIDValidator
	DB            *db.DB

	log zerolog.Logger
}

// New constructs an App. database may be nil, in which case notification
// history is not persisted.
func New(cfg *config.Config, database *db.DB, log zerolog.Logger) (*App, error) {
	client, err := api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Logger:    logging.Component(log, "api"),
	})
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	policy, err := catalog.ParseUniquePolicy(cfg.Catalog.UniqueIDPolicy)
	if err != nil {
		return nil, err
	}

	centerOpts := []notify.Option{
		notify.WithDurations(cfg.Notifications.Durations),
		notify.WithLogger(logging.Component(log, "notify")),
	}
	if database != nil && cfg.Notifications.History > 0 {
		centerOpts = append(centerOpts, notify.WithStore(stores.NewNotifyStore(database, cfg.Notifications.History)))
	}

	products := catalog.NewService(client, log)

	return &App{
		Config:        cfg,
		API:           client,
		Products:      products,
		Selection:     catalog.NewSelection(),
		Notifications: notify.NewCenter(centerOpts...),
		Sanitizer:     sanitize.NewURLSanitizer(cfg.Catalog.URLSchemes...),
		Unique:        catalog.NewUniqueIDValidator(products, policy, logging.Component(log, "catalog")),
		DB:            database,
		log:           log,
	}, nil
}

// NewListWorkflow returns a list bound to the shared selection.
func (a *App) NewListWorkflow(nav catalog.Navigator) *catalog.ListWorkflow {
	return catalog.NewListWorkflow(catalog.ListDeps{
		Products:        a.Products,
		Selection:       a.Selection,
		Navigator:       nav,
		Logger:          a.log,
		PageSizes:       a.Config.Catalog.PageSizes,
		DefaultPageSize: a.Config.Catalog.DefaultPageSize,
	})
}

// NewCreateWorkflow returns an empty product form.
func (a *App) NewCreateWorkflow(nav catalog.Navigator) *catalog.CreateWorkflow {
	return catalog.NewCreateWorkflow(catalog.CreateDeps{
		Products:  a.Products,
		Unique:    a.Unique.Rule(),
		Sanitizer: a.Sanitizer,
		Notifier:  a.Notifications,
		Navigator: nav,
		Logger:    a.log,
		Today:     catalog.Today,
	})
}

// NewEditWorkflow returns an edit form for the selected product. Init must
// be called before use.
func (a *App) NewEditWorkflow(nav catalog.Navigator) *catalog.EditWorkflow {
	return catalog.NewEditWorkflow(catalog.EditDeps{
		Products:  a.Products,
		Selection: a.Selection,
		Sanitizer: a.Sanitizer,
		Navigator: nav,
		Logger:    a.log,
		Today:     catalog.Today,
	})
}

// Close stops pending notification timers and closes the database.
func (a *App) Close() error {
	a.Notifications.ClearAll()
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
