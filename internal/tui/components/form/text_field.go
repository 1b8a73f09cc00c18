package form

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/catalog/internal/core/styles"
)

// TextField is a single-line text input with inline error messages.
type TextField struct {
	input    textinput.Model
	label    string
	focused  bool
	disabled bool
	errors   []string
}

// NewTextField creates a new single-line text input field.
func NewTextField(label, placeholder, defaultVal string) *TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.SetWidth(48)

	if defaultVal != "" {
		ti.SetValue(defaultVal)
	}

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(inputStyles)

	return &TextField{
		input: ti,
		label: label,
	}
}

func (f *TextField) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.focused || f.disabled {
		return f, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f *TextField) View() string {
	titleStyle := styles.TextMutedStyle
	if f.focused {
		titleStyle = styles.FormTitleStyle
	}
	parts := []string{titleStyle.Render(f.label), f.input.View()}
	for _, e := range f.errors {
		parts = append(parts, styles.FormErrorStyle.Render(e))
	}

	borderStyle := styles.FormFieldStyle
	switch {
	case f.disabled:
		borderStyle = styles.FormFieldDisabledStyle
	case f.focused:
		borderStyle = styles.FormFieldFocusedStyle
	}

	return borderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (f *TextField) Focus() tea.Cmd {
	f.focused = true
	return f.input.Focus()
}

func (f *TextField) Blur() {
	f.focused = false
	f.input.Blur()
}

// SetValue replaces the value without moving focus. The cursor is kept at
// the end of the text.
func (f *TextField) SetValue(v string) {
	if f.input.Value() == v {
		return
	}
	f.input.SetValue(v)
	f.input.CursorEnd()
}

// SetDisabled toggles whether the field accepts input.
func (f *TextField) SetDisabled(v bool) { f.disabled = v }

// SetErrors replaces the messages shown under the input.
func (f *TextField) SetErrors(msgs []string) { f.errors = msgs }

// Errors returns the messages shown under the input.
func (f *TextField) Errors() []string { return f.errors }

func (f *TextField) Focused() bool  { return f.focused }
func (f *TextField) Disabled() bool { return f.disabled }
func (f *TextField) Value() string  { return f.input.Value() }
func (f *TextField) Label() string  { return f.label }
