package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/product"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/internal/tui/components"
)

const (
	fallbackWidth  = 100
	fallbackHeight = 30
)

type column struct {
	title string
	width int
	value func(product.Product) string
}

var columns = []column{
	{"ID", 10, func(p product.Product) string { return p.ID }},
	{"Name", 22, func(p product.Product) string { return p.Name }},
	{"Description", 34, func(p product.Product) string { return p.Description }},
	{"Release", 10, func(p product.Product) string { return p.DateRelease.String() }},
	{"Revision", 10, func(p product.Product) string { return p.DateRevision.String() }},
}

// size returns the terminal size, falling back to a fixed size before the
// first WindowSizeMsg.
func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = fallbackWidth
	}
	if h <= 0 {
		h = fallbackHeight
	}
	return w, h
}

// View renders the TUI.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	w, h := m.size()

	var content string
	if m.state == stateForm && m.form != nil {
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.form.View(m.spinner.View()),
			styles.HelpStyle.Render(m.help.View(m.formKeys)),
		)
	} else {
		content = m.renderList()
	}
	content = lipgloss.NewStyle().Padding(1, 2).Render(content)

	switch m.state {
	case stateConfirming:
		content = m.confirm.Overlay(content, w, h)
	case stateDetails:
		if m.details != nil {
			content = m.details.Overlay(content, w, h)
		}
	case stateHelp:
		if m.helpView != nil {
			content = m.helpView.Overlay(content, w, h)
		}
	}

	return m.toastView.Overlay(content, w, h)
}

func (m Model) renderList() string {
	view := m.list.View()

	header := styles.TitleStyle.Render(styles.IconCatalog + " Products")
	if label := m.build.Label(); label != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, " ", styles.SubtitleStyle.Render(label))
	}

	var search string
	switch {
	case m.state == stateSearching:
		search = m.search.View()
	case view.Query != "":
		search = styles.TextMutedStyle.Render(fmt.Sprintf("%s %s", styles.IconSearch, view.Query))
	}

	status := styles.StatusStyle.Render(fmt.Sprintf("%d results", view.TotalRecords))
	if m.loading {
		status = m.spinner.View() + styles.StatusStyle.Render(" loading products…")
	} else if m.loadErr != nil {
		status = styles.ErrorTextStyle.Render("Could not load products: " + catalog.UserMessage(m.loadErr))
	}

	parts := []string{header}
	if search != "" {
		parts = append(parts, search)
	}
	parts = append(parts,
		status,
		"",
		m.renderTable(view.Items),
		"",
		renderPager(view),
		styles.HelpStyle.Render(m.help.View(m.listKeys)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderTable(items []product.Product) string {
	headers := make([]string, 0, len(columns))
	for _, c := range columns {
		headers = append(headers, cell(c.title, c.width))
	}
	lines := []string{styles.TableHeaderStyle.Render(strings.Join(headers, " "))}

	if len(items) == 0 {
		text := "No products yet. Press a to add one."
		if m.list.Query() != "" {
			text = "No products match the search."
		}
		if m.loading {
			text = ""
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines[0], styles.TableEmptyStyle.Render(text))
	}

	for i, p := range items {
		cells := make([]string, 0, len(columns))
		for _, c := range columns {
			cells = append(cells, cell(c.value(p), c.width))
		}
		row := strings.Join(cells, " ")
		if i == m.cursor && m.state != stateForm {
			lines = append(lines, styles.TableSelectedRowStyle.Render(row))
		} else {
			lines = append(lines, styles.TableCellStyle.Render(row))
		}
	}
	return strings.Join(lines, "\n")
}

// cell truncates or pads s to exactly width columns.
func cell(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	return s + components.Pad(width-lipgloss.Width(s))
}

func renderPager(view catalog.ListView) string {
	pages := max(view.TotalPages, 1)
	return styles.PagerStyle.Render("page ") +
		styles.PagerActiveStyle.Render(fmt.Sprintf("%d", view.Page)) +
		styles.PagerStyle.Render(fmt.Sprintf(" of %d · %d per page", pages, view.PageSize))
}
