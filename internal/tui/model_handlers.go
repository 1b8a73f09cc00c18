package tui

import (
	"errors"
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/product"
	"github.com/colonyops/catalog/internal/core/validate"
	"github.com/colonyops/catalog/internal/tui/components"
)

const (
	keyCtrlC = "ctrl+c"
	keyEsc   = "esc"
	keyEnter = "enter"
)

func (m Model) handleProductsLoaded(msg productsLoadedMsg) (Model, tea.Cmd) {
	m.loading = false
	m.loadErr = msg.err
	if msg.err != nil {
		m.app.Notifications.Error(catalog.UserMessage(msg.err))
	}
	m.clampCursor()
	return m, nil
}

func (m Model) handleCreated(msg createdMsg) (Model, tea.Cmd) {
	m.submitting = false
	if m.form != nil {
		m.form.sync()
	}
	// Backend failures were already published by the workflow.
	if msg.err == nil {
		m.app.Notifications.Success("Product created successfully")
	}
	return m, nil
}

func (m Model) handleUpdated(msg updatedMsg) (Model, tea.Cmd) {
	m.submitting = false
	if m.form != nil {
		m.form.sync()
	}

	switch {
	case msg.err == nil:
		text := msg.message
		if text == "" {
			text = "Product updated successfully"
		}
		m.app.Notifications.Success(text)
	case errors.Is(msg.err, catalog.ErrInvalid), errors.Is(msg.err, catalog.ErrSubmitInProgress):
	default:
		m.app.Notifications.Error(catalog.UserMessage(msg.err))
	}
	return m, nil
}

func (m Model) handleDeleted(msg deletedMsg) (Model, tea.Cmd) {
	if errors.Is(msg.err, catalog.ErrSubmitInProgress) {
		return m, nil
	}
	if msg.err != nil {
		m.app.Notifications.Error(catalog.UserMessage(msg.err))
		// The prompt stays open so the delete can be retried or cancelled.
		m.confirm = deletePrompt(msg.name)
		return m, nil
	}

	text := msg.message
	if text == "" {
		text = fmt.Sprintf("Product %q deleted", msg.name)
	}
	m.app.Notifications.Success(text)
	m.state = stateList
	m.clampCursor()
	return m, nil
}

// handleKey routes key presses to the active screen.
func (m Model) handleKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch m.state {
	case stateForm:
		return m.handleFormKey(msg)
	case stateSearching:
		return m.handleSearchKey(msg)
	case stateConfirming:
		return m.handleConfirmKey(msg)
	case stateDetails:
		return m.handleDetailsKey(msg)
	case stateHelp:
		return m.handleHelpKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	view := m.list.View()
	k := m.listKeys

	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()
	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(view.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, k.NextPage):
		m.list.NextPage()
		m.cursor = 0
	case key.Matches(msg, k.PrevPage):
		m.list.PrevPage()
		m.cursor = 0
	case key.Matches(msg, k.PageSize):
		m.list.CyclePageSize()
		m.cursor = 0
	case key.Matches(msg, k.Search):
		m.state = stateSearching
		m.search.SetValue(m.list.Query())
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, k.Create):
		m.list.Create()
	case key.Matches(msg, k.Edit):
		if p, ok := m.current(view); ok {
			m.list.Edit(p)
		}
	case key.Matches(msg, k.Details):
		if p, ok := m.current(view); ok {
			m.details = m.productDetails(p)
			m.state = stateDetails
		}
	case key.Matches(msg, k.Delete):
		if p, ok := m.current(view); ok {
			m.list.RequestDelete(p)
			m.confirm = deletePrompt(p.Name)
			m.state = stateConfirming
		}
	case key.Matches(msg, k.Refresh):
		m.app.Products.Invalidate()
		m.loading = true
		return m, m.loadProducts()
	case key.Matches(msg, k.Dismiss):
		m.toasts.Dismiss()
	case key.Matches(msg, k.Clear):
		m.toasts.DismissAll()
	case key.Matches(msg, k.Help):
		m.helpView = components.NewHelpDialog("Keyboard shortcuts", []components.HelpDialogSection{
			{Title: "Navigation", Bindings: []key.Binding{k.Up, k.Down, k.NextPage, k.PrevPage, k.PageSize}},
			{Title: "Products", Bindings: []key.Binding{k.Search, k.Create, k.Edit, k.Details, k.Delete, k.Refresh}},
			{Title: "General", Bindings: []key.Binding{k.Dismiss, k.Clear, k.Help, k.Quit}},
		})
		m.state = stateHelp
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlC:
		return m.quit()
	case keyEnter:
		m.search.Blur()
		m.state = stateList
		return m, nil
	case keyEsc:
		m.search.Blur()
		m.search.SetValue("")
		m.list.SetQuery("")
		m.cursor = 0
		m.state = stateList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.list.Query() {
		m.list.SetQuery(q)
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		return m.quit()
	}
	view := m.list.View()
	if view.Deleting {
		return m, nil
	}

	var result components.ConfirmResult
	m.confirm, result = m.confirm.Update(msg)
	switch result {
	case components.ConfirmAccepted:
		name := ""
		if view.Selected != nil {
			name = view.Selected.Name
		}
		m.confirm = m.confirm.WithBusy("Deleting…")
		return m, m.confirmDelete(name)
	case components.ConfirmRejected:
		m.list.CancelDelete()
		m.state = stateList
	}
	return m, nil
}

func (m Model) handleDetailsKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlC:
		return m.quit()
	case keyEsc, "q", "i", "space", keyEnter:
		m.details = nil
		m.state = stateList
	case "up", "k":
		m.details.ScrollUp()
	case "down", "j":
		m.details.ScrollDown()
	}
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlC:
		return m.quit()
	case keyEsc, "q", "?", keyEnter:
		m.helpView = nil
		m.state = stateList
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Quit):
		return m.quit()
	case key.Matches(msg, m.formKeys.Reset):
		if m.submitting {
			return m, nil
		}
		if m.create != nil {
			m.create.Reset()
		} else if m.edit != nil {
			_ = m.edit.Init()
		}
		m.form.sync()
		return m, nil
	}

	cmd := m.form.Update(msg)
	submit, cancel := m.form.takeRequest()
	switch {
	case cancel:
		m.formWorkflow().Cancel()
	case submit && !m.submitting:
		m.submitting = true
		if m.create != nil {
			return m, tea.Batch(cmd, m.submitCreate())
		}
		return m, tea.Batch(cmd, m.submitEdit())
	}
	return m, cmd
}

func (m Model) formWorkflow() formWorkflow {
	if m.create != nil {
		return m.create
	}
	return m.edit
}

// current returns the product under the cursor.
func (m Model) current(view catalog.ListView) (product.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(view.Items) {
		return product.Product{}, false
	}
	return view.Items[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.list.View().Items)
	m.cursor = max(min(m.cursor, n-1), 0)
}

func deletePrompt(name string) components.ConfirmModal {
	return components.NewConfirmModal("Delete product", fmt.Sprintf("Delete %q? This cannot be undone.", name))
}

// productDetails builds the details dialog for p, flagging a logo that is
// not a web URL and a revision date that drifted from release + 1 year.
func (m Model) productDetails(p product.Product) *components.InfoDialog {
	logo := components.InfoItem{Label: "Logo", Value: p.Logo, Status: components.InfoStatusPass}
	if err := validate.CheckURL(p.Logo); err != nil || p.Logo == "" {
		logo.Status = components.InfoStatusWarn
	}

	revision := components.InfoItem{Label: "Revision", Value: p.DateRevision.String(), Status: components.InfoStatusPass}
	if !p.DateRevision.Equal(product.ReviewDate(p.DateRelease)) {
		revision.Status = components.InfoStatusWarn
	}

	sections := []components.InfoSection{
		{
			Title: "Product",
			Items: []components.InfoItem{
				{Label: "ID", Value: p.ID},
				{Label: "Name", Value: p.Name},
				{Label: "Description", Value: p.Description},
				logo,
			},
		},
		{
			Title: "Dates",
			Items: []components.InfoItem{
				{Label: "Release", Value: p.DateRelease.String()},
				revision,
			},
		},
	}
	w, h := m.size()
	return components.NewInfoDialog(p.Name, sections, "", "esc close • ↑/↓ scroll", w, h)
}
