package components

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/catalog/internal/core/styles"
)

// ConfirmResult is the outcome of a key press on a ConfirmModal.
type ConfirmResult int

const (
	ConfirmPending ConfirmResult = iota
	ConfirmAccepted
	ConfirmRejected
)

// ConfirmModal is a yes/no dialog with a confirm and a cancel button. It
// holds no domain state; the caller decides what accepting means.
type ConfirmModal struct {
	title           string
	message         string
	confirmSelected bool // true = confirm button selected, false = cancel button selected
	busy            string
}

// NewConfirmModal creates a modal with the confirm button selected.
func NewConfirmModal(title, message string) ConfirmModal {
	return ConfirmModal{
		title:           title,
		message:         message,
		confirmSelected: true,
	}
}

// Update interprets a key press. y and n answer directly, arrows and tab
// move between the buttons, enter picks the selected one.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, ConfirmResult) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, ConfirmPending
	}

	switch keyMsg.String() {
	case "y", "Y":
		return m, ConfirmAccepted
	case "n", "N", "esc":
		return m, ConfirmRejected
	case "left", "right", "h", "l", "tab", "shift+tab":
		m.confirmSelected = !m.confirmSelected
	case "enter":
		if m.confirmSelected {
			return m, ConfirmAccepted
		}
		return m, ConfirmRejected
	}

	return m, ConfirmPending
}

// ConfirmSelected returns true if the confirm button is selected.
func (m ConfirmModal) ConfirmSelected() bool {
	return m.confirmSelected
}

// WithBusy returns a copy that shows status in place of the buttons.
func (m ConfirmModal) WithBusy(status string) ConfirmModal {
	m.busy = status
	return m
}

// View renders the modal box.
func (m ConfirmModal) View() string {
	var footer string
	if m.busy != "" {
		footer = lipgloss.NewStyle().MarginTop(1).Render(m.busy)
	} else {
		confirmBtn, cancelBtn := styles.ModalButtonSelectedStyle, styles.ModalButtonStyle
		if !m.confirmSelected {
			confirmBtn, cancelBtn = cancelBtn, confirmBtn
		}
		buttons := lipgloss.JoinHorizontal(lipgloss.Center,
			confirmBtn.Render("Confirm"), "  ", cancelBtn.Render("Cancel"))
		footer = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().MarginTop(1).Render(buttons),
			styles.ModalHelpStyle.Render("←/→ select  enter confirm  esc cancel"),
		)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		m.message,
		footer,
	)

	return styles.ModalStyle.Render(content)
}

// Overlay renders the modal centered over background.
func (m ConfirmModal) Overlay(background string, width, height int) string {
	return Center(background, m.View(), width, height)
}

// Center composites box over background at the middle of a width x height
// area.
func Center(background, box string, width, height int) string {
	bgLayer := lipgloss.NewLayer(background)
	boxLayer := lipgloss.NewLayer(box)

	boxW := lipgloss.Width(box)
	boxH := lipgloss.Height(box)
	boxLayer.X(max((width-boxW)/2, 0)).Y(max((height-boxH)/2, 0)).Z(1)

	return lipgloss.NewCompositor(bgLayer, boxLayer).Render()
}
