package components

import (
	"testing"

	"charm.land/bubbles/v2/key"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/catalog/pkg/tuitest"
)

func TestHelpDialog_View(t *testing.T) {
	hidden := key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "secret"))
	hidden.SetEnabled(false)

	d := NewHelpDialog("Keys", []HelpDialogSection{
		{Title: "List", Bindings: []key.Binding{
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add product")),
			hidden,
		}},
		{Title: "Form", Bindings: []key.Binding{
			key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		}},
	})

	view := tuitest.StripANSI(d.View())
	assert.Contains(t, view, "Keys")
	assert.Contains(t, view, "add product")
	assert.Contains(t, view, "submit")
	assert.NotContains(t, view, "secret")
}

func TestPad(t *testing.T) {
	assert.Empty(t, Pad(-1))
	assert.Len(t, Pad(3), 3)
	assert.Len(t, Pad(200), 200)
}
