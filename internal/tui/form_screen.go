package tui

import (
	"errors"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/internal/tui/components/form"
)

// formWorkflow is the part of the create and edit workflows the form screen
// drives.
type formWorkflow interface {
	Set(field, value string) error
	State() catalog.FormState
	Cancel()
}

var fieldLabels = map[string]string{
	catalog.FieldID:          "ID",
	catalog.FieldName:        "Name",
	catalog.FieldDescription: "Description",
	catalog.FieldLogo:        "Logo URL",
	catalog.FieldReleaseDate: "Release date (YYYY-MM-DD)",
	catalog.FieldReviewDate:  "Review date",
}

var fieldPlaceholders = map[string]string{
	catalog.FieldID:          "3-10 letters or digits",
	catalog.FieldName:        "5-100 characters",
	catalog.FieldDescription: "10-200 characters",
	catalog.FieldLogo:        "https://example.com/logo.png",
	catalog.FieldReleaseDate: "2006-01-02",
}

// FormScreen renders a product workflow as a form dialog. The workflow owns
// every value; the screen pushes edits into it and mirrors back derived
// values, disabled state and errors.
type FormScreen struct {
	wf     formWorkflow
	dialog *form.Dialog
	fields map[string]*form.TextField
}

func newFormScreen(title string, wf formWorkflow) *FormScreen {
	st := wf.State()

	fields := make([]form.Field, 0, len(catalog.Fields))
	byName := make(map[string]*form.TextField, len(catalog.Fields))
	for _, name := range catalog.Fields {
		f := form.NewTextField(fieldLabels[name], fieldPlaceholders[name], st.Value(name))
		f.SetDisabled(st.IsDisabled(name))
		fields = append(fields, f)
		byName[name] = f
	}

	s := &FormScreen{
		wf:     wf,
		dialog: form.NewDialog(title, fields, catalog.Fields),
		fields: byName,
	}
	s.sync()
	return s
}

// Update forwards msg to the dialog and writes changed values back into the
// workflow.
func (s *FormScreen) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.dialog, cmd = s.dialog.Update(msg)

	st := s.wf.State()
	for name, f := range s.fields {
		if f.Disabled() || f.Value() == st.Value(name) {
			continue
		}
		// The workflow may have disabled the form after the key landed.
		if err := s.wf.Set(name, f.Value()); err != nil && !errors.Is(err, catalog.ErrFieldDisabled) {
			return cmd
		}
	}

	s.sync()
	return cmd
}

// sync copies the workflow state into the widgets.
func (s *FormScreen) sync() {
	st := s.wf.State()
	for name, f := range s.fields {
		f.SetValue(st.Value(name))
		f.SetDisabled(st.IsDisabled(name))
		f.SetErrors(st.Errors[name])
	}
}

// takeRequest returns and clears a pending submit or cancel request.
func (s *FormScreen) takeRequest() (submit, cancel bool) {
	submit, cancel = s.dialog.Submitted(), s.dialog.Cancelled()
	s.dialog.Acknowledge()
	return submit, cancel
}

// Loading reports whether the workflow has a request in flight.
func (s *FormScreen) Loading() bool {
	return s.wf.State().Loading
}

// View renders the title and fields.
func (s *FormScreen) View(spinner string) string {
	title := styles.TitleStyle.Render(s.dialog.Title)
	if s.Loading() {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, " ", spinner, styles.StatusStyle.Render(" saving…"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, s.dialog.View())
}
