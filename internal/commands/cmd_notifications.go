package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/app"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/pkg/iojson"
)

type NotificationsCmd struct {
	flags *Flags
	app   *app.App

	// flags
	clear      bool
	jsonOutput bool
}

// NewNotificationsCmd creates a new notifications command
func NewNotificationsCmd(flags *Flags, app *app.App) *NotificationsCmd {
	return &NotificationsCmd{flags: flags, app: app}
}

// Register adds the notifications command to the application
func (cmd *NotificationsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "notifications",
		Aliases:   []string{"notes"},
		Usage:     "Show notification history",
		UsageText: "catalog notifications [--clear] [--json]",
		Description: `Lists the notifications shown by earlier runs, newest first.

History is kept in the data directory; notifications.history sets how many
entries are retained (0 disables it).`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "delete the stored history",
				Destination: &cmd.clear,
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

func (cmd *NotificationsCmd) run(ctx context.Context, c *cli.Command) error {
	p := newPrinter(c)

	if cmd.clear {
		if err := cmd.app.Notifications.ClearHistory(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		p.Success("Notification history cleared", "")
		return nil
	}

	history, err := cmd.app.Notifications.History(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, errWriter(c), history)
	}

	if len(history) == 0 {
		_, _ = fmt.Fprintln(out, "No notifications")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tLEVEL\tMESSAGE")
	for _, n := range history {
		level := styles.LevelIcon(n.Level) + " " + string(n.Level)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", n.CreatedAt.Local().Format("2006-01-02 15:04:05"), level, n.Message)
	}
	return w.Flush()
}
