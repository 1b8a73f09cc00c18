// Package components provides reusable TUI components.
package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/catalog/internal/core/styles"
)

// HelpDialogSection groups key bindings under a title.
type HelpDialogSection struct {
	Title    string
	Bindings []key.Binding
}

// HelpDialog displays all available keyboard shortcuts.
type HelpDialog struct {
	title    string
	sections []HelpDialogSection
}

// NewHelpDialog creates a new help dialog with the given sections.
func NewHelpDialog(title string, sections []HelpDialogSection) *HelpDialog {
	return &HelpDialog{
		title:    title,
		sections: sections,
	}
}

// View renders the help dialog.
func (h *HelpDialog) View() string {
	var lines []string
	separator := styles.DividerStyle.Render(strings.Repeat("─", 25))

	for i, section := range h.sections {
		if section.Title != "" {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, styles.SectionStyle.Render(section.Title), separator)
		}

		for _, b := range section.Bindings {
			if !b.Enabled() {
				continue
			}
			hlp := b.Help()
			lines = append(lines, formatKeyDesc(hlp.Key, hlp.Desc))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TextForegroundBoldStyle.Render(h.title),
		"",
		strings.Join(lines, "\n"),
		styles.ModalHelpStyle.Render("esc/? close"),
	)

	return styles.ModalStyle.Render(content)
}

// Overlay renders the help dialog centered over the given background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	return Center(background, h.View(), width, height)
}

// formatKeyDesc formats a key-description pair with consistent alignment.
func formatKeyDesc(k, desc string) string {
	const keyWidth = 12

	// Pad using display width so multi-byte arrows line up.
	paddedKey := k + Pad(keyWidth-lipgloss.Width(k))

	return styles.TextPrimaryBoldStyle.Render(paddedKey) + styles.TextForegroundStyle.Render(desc)
}
