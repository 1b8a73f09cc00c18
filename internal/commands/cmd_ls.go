package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/app"
	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/product"
	"github.com/colonyops/catalog/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *app.App

	// flags
	query      string
	page       int
	pageSize   int
	idGlob     string
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *app.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List products",
		UsageText: "catalog ls [--query text] [--id glob] [--page n] [--page-size n] [--json]",
		Description: `Displays one page of the product catalog.

--query filters by name or description (case-insensitive substring).
--id filters ids with a glob pattern such as 'trj*'.
Output is JSON when --json is set or stdout is not a terminal.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "query",
				Aliases:     []string{"q"},
				Usage:       "filter by name or description",
				Destination: &cmd.query,
			},
			&cli.IntFlag{
				Name:        "page",
				Aliases:     []string{"p"},
				Usage:       "page number, starting at 1",
				Value:       1,
				Destination: &cmd.page,
			},
			&cli.IntFlag{
				Name:        "page-size",
				Aliases:     []string{"s"},
				Usage:       "products per page (defaults to catalog.default_page_size)",
				Destination: &cmd.pageSize,
			},
			&cli.StringFlag{
				Name:        "id",
				Usage:       "glob pattern matched against product ids",
				Destination: &cmd.idGlob,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// listOutput is the JSON output format for catalog ls.
type listOutput struct {
	Items        []product.Product `json:"items"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	TotalPages   int               `json:"total_pages"`
	TotalRecords int               `json:"total_records"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.idGlob != "" && !doublestar.ValidatePattern(cmd.idGlob) {
		return fmt.Errorf("invalid --id pattern %q", cmd.idGlob)
	}

	items, err := cmd.app.Products.Products(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	items = catalog.Filter(items, cmd.query)
	if cmd.idGlob != "" {
		matched := items[:0]
		for _, p := range items {
			if ok, _ := doublestar.Match(cmd.idGlob, p.ID); ok {
				matched = append(matched, p)
			}
		}
		items = matched
	}

	size := cmd.pageSize
	if size <= 0 {
		size = cmd.app.Config.Catalog.DefaultPageSize
	}
	page, total := catalog.Paginate(items, cmd.page, size)

	out := c.Root().Writer
	if cmd.jsonOutput || !isTerminalWriter(c) {
		return iojson.WriteWith(out, errWriter(c), listOutput{
			Items:        page,
			Page:         cmd.page,
			PageSize:     size,
			TotalPages:   total,
			TotalRecords: len(items),
		})
	}

	if len(items) == 0 {
		_, _ = fmt.Fprintln(out, "No products found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION\tRELEASE\tREVISION")
	for _, p := range page {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Description, p.DateRelease, p.DateRevision)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\n%d results · page %d of %d\n", len(items), cmd.page, max(total, 1))
	return nil
}

// isTerminalWriter reports whether command output goes to a terminal.
// Writers other than a file, such as test buffers, count as terminals so
// the human format stays the default.
func isTerminalWriter(c *cli.Command) bool {
	f, ok := c.Root().Writer.(*os.File)
	if !ok {
		return true
	}
	return iojson.IsTerminal(f)
}
