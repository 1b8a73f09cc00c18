package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/core/config"
	"github.com/colonyops/catalog/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "catalog config validate [options]",
				Description: "Validates the configuration file, checking the API URL, page sizes, policies, theme, and paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationError is one field problem in the JSON report.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Read(cmd.flags.ConfigPath, cmd.flags.DataDir)
	if err != nil {
		return err
	}

	errs, err := fieldErrors(cfg.ValidateDeep(cmd.flags.ConfigPath))
	if err != nil {
		return err
	}
	warnings := cfg.Warnings()

	if cmd.format == "json" {
		out := struct {
			Valid    bool                       `json:"valid"`
			Errors   []validationError          `json:"errors,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    len(errs) == 0,
			Errors:   errs,
			Warnings: warnings,
		}
		if err := iojson.WriteWith(c.Root().Writer, errWriter(c), out); err != nil {
			return err
		}
		if len(errs) > 0 {
			return cli.Exit("", 1)
		}
		return nil
	}

	p := newPrinter(c)
	for _, w := range warnings {
		p.Warnf("%s: %s", w.Category, w.Message)
		if w.Item != "" {
			p.Printf("  Item: %s", w.Item)
		}
	}
	for _, e := range errs {
		p.Errorf("%s: %s", e.Field, e.Message)
	}

	p.Printf("")
	if len(errs) == 0 {
		p.Success("Configuration is valid", cmd.flags.ConfigPath)
		return nil
	}

	p.Errorf("%d error(s) found", len(errs))
	return cli.Exit("", 1)
}

// fieldErrors flattens criterio field errors. Errors of any other kind are
// returned as is.
func fieldErrors(err error) ([]validationError, error) {
	if err == nil {
		return nil, nil
	}

	var fe criterio.FieldErrors
	if !errors.As(err, &fe) {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	out := make([]validationError, 0, len(fe))
	for _, e := range fe {
		out = append(out, validationError{Field: e.Field, Message: e.Err.Error()})
	}
	return out, nil
}
