package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/app"
	"github.com/colonyops/catalog/internal/core/doctor"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/internal/data/stores"
	"github.com/colonyops/catalog/pkg/iojson"
)

type DoctorCmd struct {
	flags  *Flags
	app    *app.App
	format string
}

func NewDoctorCmd(flags *Flags, app *app.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your catalog setup",
		UsageText:   "catalog doctor [options]",
		Description: "Checks the configuration, reaches the product API, and inspects the notification history database.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) checks() []doctor.Check {
	cfg := cmd.app.Config

	var history doctor.HistoryCounter
	if cmd.app.DB != nil {
		history = stores.NewNotifyStore(cmd.app.DB, cfg.Notifications.History)
	}

	return []doctor.Check{
		doctor.NewConfigCheck(cfg, cmd.flags.ConfigPath),
		doctor.NewAPICheck(cmd.app.API, cfg.API.Timeout),
		doctor.NewHistoryCheck(history, cfg.Notifications.History),
	}
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	results := doctor.RunAll(ctx, cmd.checks())

	if cmd.format == "json" {
		return cmd.outputJSON(c, results)
	}

	return cmd.outputText(c, results)
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	if err := iojson.WriteWith(c.Root().Writer, errWriter(c), out); err != nil {
		return err
	}
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *DoctorCmd) outputText(c *cli.Command, results []doctor.Result) error {
	p := newPrinter(c)

	p.Printf("")
	p.Header("Catalog Doctor")
	p.Printf("%s", styles.DividerStyle.Render(strings.Repeat("─", 40)))
	p.Printf("")

	for _, result := range results {
		p.Printf("%s", styles.TextForegroundBoldStyle.Render(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + styles.TextMutedStyle.Render(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = styles.SuccessTextStyle.Render("✔")
			case doctor.StatusWarn:
				icon = styles.WarningTextStyle.Render("●")
			case doctor.StatusFail:
				icon = styles.ErrorTextStyle.Render("✘")
			}

			p.Printf("  %s %s%s", icon, item.Label, detail)
		}

		p.Printf("")
	}

	passed, warned, failed := doctor.Summary(results)
	p.Printf("%s  %s  %s",
		styles.SuccessTextStyle.Render(fmt.Sprintf("%d passed", passed)),
		styles.WarningTextStyle.Render(fmt.Sprintf("%d warnings", warned)),
		styles.ErrorTextStyle.Render(fmt.Sprintf("%d failed", failed)),
	)

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}
