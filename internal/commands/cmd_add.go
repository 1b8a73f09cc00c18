package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/app"
	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/pkg/iojson"
)

type AddCmd struct {
	flags *Flags
	app   *app.App

	// flags
	values     productInput
	file       iojson.FileReader[productInput]
	jsonOutput bool
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *app.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	flags := productFlags(&cmd.values, true)
	flags = append(flags,
		cmd.file.Flag(),
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "output the created product as JSON",
			Destination: &cmd.jsonOutput,
		},
	)

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Create a product",
		UsageText: "catalog add [--id id --name name ...] [-f product.json]",
		Description: `Creates a product from flags, a JSON document (-f), or an interactive form.

The form is shown when no --id is given and the terminal is interactive.
The review date is always derived as release date + 1 year.`,
		Flags:  flags,
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	values := cmd.values
	switch {
	case cmd.file.Provided():
		doc, err := cmd.file.Read()
		if err != nil {
			return fmt.Errorf("read product: %w", err)
		}
		values = doc
	case values.ID == "" && interactive(c):
		if err := promptProduct(&values, false, cmd.app.Sanitizer); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	wf := cmd.app.NewCreateWorkflow(noNavigation)
	if err := apply(wf, values); err != nil {
		return err
	}

	created, err := wf.Submit(ctx)
	switch {
	case errors.Is(err, catalog.ErrInvalid):
		return reportInvalid(c, wf.State(), cmd.jsonOutput)
	case err != nil:
		if cmd.jsonOutput {
			_ = iojson.WriteErrorTo(errWriter(c), catalog.UserMessage(err), nil)
			return cli.Exit("", 1)
		}
		return fmt.Errorf("create product: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, errWriter(c), created)
	}
	newPrinter(c).Success("Product created", fmt.Sprintf("%s (review %s)", created.ID, created.DateRevision))
	return nil
}
