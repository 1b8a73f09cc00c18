package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/app"
	"github.com/colonyops/catalog/internal/commands"
	"github.com/colonyops/catalog/internal/core/config"
	"github.com/colonyops/catalog/internal/core/logging"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/internal/data/db"
	"github.com/colonyops/catalog/internal/data/stores"
	"github.com/colonyops/catalog/internal/tui"
	"github.com/colonyops/catalog/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func buildInfo() tui.BuildInfo {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	return tui.BuildInfo{Version: v, Commit: c, Date: d}
}

func build() string {
	b := buildInfo()
	short := b.Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s) %s", b.Version, short, b.Date)
}

// openDatabase opens the notification history database, moving a corrupted
// file aside and retrying once.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	backup, recoverErr := stores.RecoverFromCorruption(cfg.DataDir)
	if recoverErr != nil {
		return nil, fmt.Errorf("recover database: %w", recoverErr)
	}
	log.Warn().Str("backup", backup).Msg("notification history was corrupted and has been reset")

	return db.Open(cfg.DataDir, opts)
}

func main() {
	ctx := context.Background()

	var (
		logCloser  func()
		catalogApp = &app.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "catalog",
		Usage:     "Browse and manage the product catalog",
		UsageText: "catalog [global options] command [command options]",
		Description: `catalog lists, creates, edits, and deletes products through the catalog
REST API, validating every form before it reaches the server.

Run 'catalog' with no arguments to open the interactive product list.
Run 'catalog ls' or 'catalog add' for scripting.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CATALOG_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/catalog.log)",
				Sources:     cli.EnvVars("CATALOG_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CATALOG_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("CATALOG_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "api-url",
				Usage:       "catalog API base URL (overrides api.base_url)",
				Sources:     cli.EnvVars("CATALOG_API_URL"),
				Destination: &flags.APIURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the TUI owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = (&config.Config{DataDir: flags.DataDir}).LogFile()
			}

			logger, closer, err := logutils.New(logutils.Options{Level: flags.LogLevel, File: logFile})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			// config validate reports problems itself instead of failing here.
			if c.Args().First() == "config" {
				return ctx, nil
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.APIURL != "" {
				cfg.API.BaseURL = flags.APIURL
				if err := cfg.Validate(); err != nil {
					return ctx, fmt.Errorf("invalid --api-url: %w", err)
				}
			}
			flags.Config = cfg

			// Validation ensures the theme name is known.
			if err := styles.Apply(cfg.TUI.Theme); err != nil {
				return ctx, err
			}

			// History is optional; run without it rather than fail.
			var database *db.DB
			if cfg.Notifications.History > 0 {
				database, err = openDatabase(cfg)
				if err != nil {
					log.Warn().Err(err).Msg("notification history disabled")
					database = nil
				}
			}

			a, err := app.New(cfg, database, log.Logger)
			if err != nil {
				if database != nil {
					_ = database.Close()
				}
				return ctx, err
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*catalogApp = *a
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			var closeErr error
			if catalogApp.Notifications != nil {
				if err := catalogApp.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close app")
					closeErr = err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return closeErr
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, catalogApp, buildInfo())

	root = commands.NewLsCmd(flags, catalogApp).Register(root)
	root = commands.NewShowCmd(flags, catalogApp).Register(root)
	root = commands.NewAddCmd(flags, catalogApp).Register(root)
	root = commands.NewEditCmd(flags, catalogApp).Register(root)
	root = commands.NewRmCmd(flags, catalogApp).Register(root)
	root = commands.NewNotificationsCmd(flags, catalogApp).Register(root)
	root = commands.NewDoctorCmd(flags, catalogApp).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'catalog --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
