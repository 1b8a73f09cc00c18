package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/app"
	"github.com/colonyops/catalog/internal/core/styles"
)

type RmCmd struct {
	flags *Flags
	app   *app.App

	// flags
	yes bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *app.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete a product",
		UsageText: "catalog rm <id> [--yes]",
		Description: `Deletes the product with the given id after confirmation.

Non-interactive use requires --yes.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("product id is required")
	}

	p, err := cmd.app.Products.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}

	list := cmd.app.NewListWorkflow(noNavigation)
	list.RequestDelete(p)

	if !cmd.yes {
		if !interactive(c) {
			list.CancelDelete()
			return fmt.Errorf("refusing to delete %q without confirmation; pass --yes", id)
		}

		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q (%s)?", p.Name, p.ID)).
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			WithTheme(styles.FormTheme()).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			list.CancelDelete()
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed {
			list.CancelDelete()
			newPrinter(c).Warnf("Cancelled")
			return nil
		}
	}

	msg, err := list.ConfirmDelete(ctx)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if msg == "" {
		msg = "Product deleted"
	}
	newPrinter(c).Success(msg, id)
	return nil
}
