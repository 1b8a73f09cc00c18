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

type EditCmd struct {
	flags *Flags
	app   *app.App

	// flags
	values     productInput
	jsonOutput bool
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags, app *app.App) *EditCmd {
	return &EditCmd{flags: flags, app: app}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	flags := productFlags(&cmd.values, false)
	flags = append(flags, &cli.BoolFlag{
		Name:        "json",
		Usage:       "output the server response as JSON",
		Destination: &cmd.jsonOutput,
	})

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Update a product",
		UsageText: "catalog edit <id> [--name name] [--description text] [--logo url] [--release date]",
		Description: `Updates the product with the given id. The id itself cannot change.

Only the flags that are set are changed. With no flags on an interactive
terminal a form pre-filled with the current values is shown.`,
		Flags:  flags,
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("product id is required")
	}

	current, err := cmd.app.Products.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	cmd.app.Selection.Set(current)

	wf := cmd.app.NewEditWorkflow(noNavigation)
	if err := wf.Init(); err != nil {
		return fmt.Errorf("load product: %w", err)
	}

	values := cmd.values
	if len(values.fields()) == 0 && interactive(c) {
		values = inputFrom(current)
		if err := promptProduct(&values, true, cmd.app.Sanitizer); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if err := apply(wf, values); err != nil {
		return err
	}

	msg, err := wf.Submit(ctx)
	switch {
	case errors.Is(err, catalog.ErrInvalid):
		return reportInvalid(c, wf.State(), cmd.jsonOutput)
	case err != nil:
		if cmd.jsonOutput {
			_ = iojson.WriteErrorTo(errWriter(c), catalog.UserMessage(err), map[string]any{"id": id})
			return cli.Exit("", 1)
		}
		return fmt.Errorf("update product: %w", err)
	}

	if msg == "" {
		msg = "Product updated successfully"
	}
	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, errWriter(c), map[string]string{"id": id, "message": msg})
	}
	newPrinter(c).Success(msg, id)
	return nil
}
