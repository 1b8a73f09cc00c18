// Package form provides the text fields and focus handling used by the
// product form.
package form

import tea "charm.land/bubbletea/v2"

// Field is the interface implemented by form fields.
type Field interface {
	Update(msg tea.Msg) (Field, tea.Cmd)
	View() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	Disabled() bool
	Value() string
	Label() string
}
