package tui

import (
	"context"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/catalog/internal/app"
	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/internal/tui/components"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateList UIState = iota
	stateSearching
	stateConfirming
	stateDetails
	stateHelp
	stateForm
)

// Options configures the TUI.
type Options struct {
	App       *app.App
	BuildInfo BuildInfo
}

// Model is the root Bubble Tea model of the catalog TUI.
type Model struct {
	app   *app.App
	build BuildInfo
	nav   *routeRecorder

	state  UIState
	route  catalog.Route
	width  int
	height int

	// list screen
	list     *catalog.ListWorkflow
	loading  bool
	loadErr  error
	cursor   int
	search   textinput.Model
	confirm  components.ConfirmModal
	details  *components.InfoDialog
	helpView *components.HelpDialog

	// form screens
	create     *catalog.CreateWorkflow
	edit       *catalog.EditWorkflow
	form       *FormScreen
	submitting bool

	toasts    *ToastController
	toastView *ToastView
	spinner   spinner.Model
	help      help.Model
	listKeys  listKeyMap
	formKeys  formKeyMap
}

// New creates the root model with the product list as the first screen.
func New(opts Options) Model {
	nav := &routeRecorder{}

	search := textinput.New()
	search.Prompt = styles.IconSearch + " "
	search.Placeholder = "filter by name or description"
	searchStyles := textinput.DefaultStyles(true)
	searchStyles.Cursor.Color = styles.ColorPrimary
	searchStyles.Focused.Prompt = styles.TextPrimaryBoldStyle
	search.SetStyles(searchStyles)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	h := help.New()
	h.Styles.ShortKey = styles.TextMutedStyle
	h.Styles.ShortDesc = styles.TextMutedStyle
	h.Styles.ShortSeparator = styles.TextMutedStyle
	h.ShortSeparator = " • "

	toasts := NewToastController(opts.App.Notifications, opts.App.Config.Notifications.MaxVisible)

	return Model{
		app:       opts.App,
		build:     opts.BuildInfo,
		nav:       nav,
		state:     stateList,
		route:     catalog.RouteList,
		list:      opts.App.NewListWorkflow(nav),
		loading:   true,
		search:    search,
		toasts:    toasts,
		toastView: NewToastView(toasts),
		spinner:   s,
		help:      h,
		listKeys:  newListKeyMap(),
		formKeys:  newFormKeyMap(),
	}
}

// Init starts the first load, the spinner and the toast listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadProducts(), m.spinner.Tick, m.toasts.Listen())
}

func (m Model) loadProducts() tea.Cmd {
	list := m.list
	return func() tea.Msg {
		return productsLoadedMsg{err: list.Load(context.Background())}
	}
}

func (m Model) submitCreate() tea.Cmd {
	wf := m.create
	return func() tea.Msg {
		p, err := wf.Submit(context.Background())
		return createdMsg{product: p, err: err}
	}
}

func (m Model) submitEdit() tea.Cmd {
	wf := m.edit
	return func() tea.Msg {
		msg, err := wf.Submit(context.Background())
		return updatedMsg{message: msg, err: err}
	}
}

func (m Model) confirmDelete(name string) tea.Cmd {
	list := m.list
	return func() tea.Msg {
		msg, err := list.ConfirmDelete(context.Background())
		return deletedMsg{name: name, message: msg, err: err}
	}
}

// Update handles messages and then applies any navigation the workflows
// requested while handling them.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	return m.followRoute(cmd)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case productsLoadedMsg:
		return m.handleProductsLoaded(msg)
	case createdMsg:
		return m.handleCreated(msg)
	case updatedMsg:
		return m.handleUpdated(msg)
	case deletedMsg:
		return m.handleDeleted(msg)

	case toastEventMsg:
		return m, m.toasts.Listen()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.form != nil {
			m.form.sync()
		}
		return m, cmd

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.state == stateForm && m.form != nil {
		return m, m.form.Update(msg)
	}
	if m.state == stateSearching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// followRoute switches screens when a workflow navigated.
func (m Model) followRoute(cmd tea.Cmd) (Model, tea.Cmd) {
	route, ok := m.nav.last()
	if !ok {
		return m, cmd
	}

	switch route {
	case catalog.RouteCreate:
		m.create = m.app.NewCreateWorkflow(m.nav)
		m.edit = nil
		m.form = newFormScreen(styles.IconProduct+" New product", m.create)
	case catalog.RouteEdit:
		wf := m.app.NewEditWorkflow(m.nav)
		if err := wf.Init(); err != nil {
			// Init queued a route back to the list.
			m.app.Notifications.Warning("Select a product to edit")
			return m.followRoute(cmd)
		}
		m.edit = wf
		m.create = nil
		m.form = newFormScreen(styles.IconProduct+" Edit "+wf.ID(), wf)
	default:
		m.create, m.edit, m.form = nil, nil, nil
		m.state = stateList
		m.route = catalog.RouteList
		m.loading = true
		return m, tea.Batch(cmd, m.loadProducts())
	}

	m.route = route
	m.state = stateForm
	return m, cmd
}

func (m Model) quit() (Model, tea.Cmd) {
	return m, tea.Quit
}
