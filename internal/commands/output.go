package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/pkg/iojson"
)

// printer writes styled status lines for the non-JSON command output.
type printer struct {
	w io.Writer
}

func newPrinter(c *cli.Command) printer {
	return printer{w: c.Root().Writer}
}

func (p printer) Success(title, detail string) {
	line := styles.SuccessTextStyle.Render(styles.IconSuccess + " " + title)
	if detail != "" {
		line += " " + styles.TextMutedStyle.Render(detail)
	}
	_, _ = fmt.Fprintln(p.w, line)
}

func (p printer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, styles.WarningTextStyle.Render(styles.IconWarning+" "+fmt.Sprintf(format, args...)))
}

func (p printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, styles.ErrorTextStyle.Render(styles.IconError+" "+fmt.Sprintf(format, args...)))
}

func (p printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p printer) Header(title string) {
	_, _ = fmt.Fprintln(p.w, styles.CommandHeaderStyle.Render(title))
}

func (p printer) Field(label, value string) {
	_, _ = fmt.Fprintln(p.w, styles.LabelStyle.Render(label)+value)
}

// errWriter is where --json commands write error documents.
func errWriter(c *cli.Command) io.Writer {
	if w := c.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// interactive reports whether prompts can be shown: stdin must be a terminal
// and output must go to the real stdout.
func interactive(c *cli.Command) bool {
	out, ok := c.Root().Writer.(*os.File)
	return ok && out == os.Stdout && iojson.IsTerminal(os.Stdin) && iojson.IsTerminal(out)
}

// reportInvalid prints the per-field messages of a rejected form and
// returns the exit error.
func reportInvalid(c *cli.Command, st catalog.FormState, jsonOutput bool) error {
	if jsonOutput {
		data := make(map[string]any, len(st.Errors))
		for field, msgs := range st.Errors {
			data[field] = msgs
		}
		_ = iojson.WriteErrorTo(errWriter(c), "invalid product", data)
		return cli.Exit("", 1)
	}

	p := newPrinter(c)
	for _, field := range catalog.Fields {
		for _, msg := range st.Errors[field] {
			p.Errorf("%s: %s", field, msg)
		}
	}
	return cli.Exit("", 1)
}

// noNavigation is the navigator for workflows driven from the command line,
// where there is no screen to move to.
var noNavigation = catalog.NavigatorFunc(func(catalog.Route) {})
