package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/app"
	"github.com/colonyops/catalog/internal/core/product"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/internal/core/validate"
	"github.com/colonyops/catalog/pkg/iojson"
)

type ShowCmd struct {
	flags *Flags
	app   *app.App

	// flags
	jsonOutput bool
	width      int
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *app.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show one product",
		UsageText: "catalog show <id> [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "wrap the card at this many columns",
				Value:       80,
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("product id is required")
	}

	p, err := cmd.app.Products.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, errWriter(c), p)
	}

	out, err := styles.RenderMarkdown(productCard(p), cmd.width)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(c.Root().Writer, out)
	return nil
}

// productCard renders p as a markdown document.
func productCard(p product.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	fmt.Fprintf(&b, "%s\n\n", p.Description)
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| ID | `%s` |\n", p.ID)
	fmt.Fprintf(&b, "| Release | %s |\n", p.DateRelease)
	fmt.Fprintf(&b, "| Revision | %s |\n", p.DateRevision)

	switch {
	case p.Logo == "":
		b.WriteString("| Logo | _none_ |\n")
	case validate.CheckURL(p.Logo) != nil:
		fmt.Fprintf(&b, "| Logo | %s (not a web URL) |\n", p.Logo)
	default:
		fmt.Fprintf(&b, "| Logo | [%s](%s) |\n", p.Logo, p.Logo)
	}

	if !p.DateRevision.Equal(product.ReviewDate(p.DateRelease)) {
		b.WriteString("\n> The revision date is not one year after the release date.\n")
	}
	return b.String()
}
