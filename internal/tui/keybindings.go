package tui

import "charm.land/bubbles/v2/key"

// listKeyMap holds the bindings of the product list screen.
type listKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	PageSize key.Binding
	Search   key.Binding
	Create   key.Binding
	Edit     key.Binding
	Details  key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Dismiss  key.Binding
	Clear    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newListKeyMap() listKeyMap {
	return listKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextPage: key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
		PageSize: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "page size")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Create:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Details:  key.NewBinding(key.WithKeys("i", "space"), key.WithHelp("i", "details")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Dismiss:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss toast")),
		Clear:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear toasts")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Create, k.Edit, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage, k.PageSize},
		{k.Search, k.Create, k.Edit, k.Details, k.Delete, k.Refresh},
		{k.Dismiss, k.Clear, k.Help, k.Quit},
	}
}

// formKeyMap holds the bindings of the create and edit screens.
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Reset  key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Reset, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Submit, k.Reset, k.Cancel, k.Quit}}
}
