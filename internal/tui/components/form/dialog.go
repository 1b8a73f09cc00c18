package form

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/catalog/internal/core/styles"
)

// Dialog is a form container that manages focus cycling, submission, and
// cancellation across a set of fields. Disabled fields are skipped when
// moving focus.
type Dialog struct {
	fields       []Field
	names        []string // parallel slice: field name for each field
	focusedField int
	submitted    bool
	cancelled    bool
	Title        string
}

// NewDialog creates a form dialog with the given fields and names. The first
// enabled field is focused automatically.
func NewDialog(title string, fields []Field, names []string) *Dialog {
	d := &Dialog{
		fields: fields,
		names:  names,
		Title:  title,
	}
	for i, f := range fields {
		if !f.Disabled() {
			d.focusedField = i
			f.Focus()
			break
		}
	}
	return d
}

// Update handles key input for the dialog. Tab and enter advance focus,
// enter on the last enabled field and ctrl+s submit, esc cancels.
func (d *Dialog) Update(msg tea.Msg) (*Dialog, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return d.updateFocusedField(msg)
	}

	switch keyMsg.String() {
	case "tab", "down":
		return d.move(1, false)
	case "shift+tab", "up":
		return d.move(-1, false)
	case "enter":
		return d.move(1, true)
	case "ctrl+s":
		d.submitted = true
		return d, nil
	case "esc":
		d.cancelled = true
		return d, nil
	}

	return d.updateFocusedField(msg)
}

// View renders all fields vertically with spacing and help text.
func (d *Dialog) View() string {
	parts := make([]string, 0, len(d.fields)*2+2)
	for i, field := range d.fields {
		if i > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, field.View())
	}

	help := styles.FormHelpStyle.Render("tab: next  shift+tab: prev  ctrl+s: submit  ctrl+r: reset  esc: cancel")
	parts = append(parts, "", help)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Values returns a map of field names to values.
func (d *Dialog) Values() map[string]string {
	result := make(map[string]string, len(d.fields))
	for i, field := range d.fields {
		result[d.names[i]] = field.Value()
	}
	return result
}

// Field returns the field registered under name, or nil.
func (d *Dialog) Field(name string) Field {
	for i, n := range d.names {
		if n == name {
			return d.fields[i]
		}
	}
	return nil
}

// FocusedName returns the name of the focused field.
func (d *Dialog) FocusedName() string {
	if len(d.names) == 0 {
		return ""
	}
	return d.names[d.focusedField]
}

// Submitted returns whether the form was submitted.
func (d *Dialog) Submitted() bool { return d.submitted }

// Cancelled returns whether the form was cancelled.
func (d *Dialog) Cancelled() bool { return d.cancelled }

// Acknowledge clears the submitted and cancelled flags once the caller has
// acted on them.
func (d *Dialog) Acknowledge() {
	d.submitted = false
	d.cancelled = false
}

// move shifts focus by step to the next enabled field. When there is none
// and submit is set, the dialog is marked submitted.
func (d *Dialog) move(step int, submit bool) (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	for next := d.focusedField + step; next >= 0 && next < len(d.fields); next += step {
		if d.fields[next].Disabled() {
			continue
		}
		d.fields[d.focusedField].Blur()
		d.focusedField = next
		return d, d.fields[next].Focus()
	}

	if submit && step > 0 {
		d.submitted = true
	}
	return d, nil
}

func (d *Dialog) updateFocusedField(msg tea.Msg) (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	var cmd tea.Cmd
	d.fields[d.focusedField], cmd = d.fields[d.focusedField].Update(msg)
	return d, cmd
}
