package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/catalog/pkg/tuitest"
)

func TestConfirmModal_Update(t *testing.T) {
	tests := []struct {
		name string
		keys []any
		want ConfirmResult
	}{
		{"y accepts", []any{tuitest.KeyPress('y')}, ConfirmAccepted},
		{"n rejects", []any{tuitest.KeyPress('n')}, ConfirmRejected},
		{"esc rejects", []any{tuitest.KeyEsc()}, ConfirmRejected},
		{"enter accepts by default", []any{tuitest.KeyEnter()}, ConfirmAccepted},
		{"toggle then enter rejects", []any{tuitest.KeyTab(), tuitest.KeyEnter()}, ConfirmRejected},
		{"other keys pending", []any{tuitest.KeyPress('q')}, ConfirmPending},
		{"non key pending", []any{tuitest.WindowSize(10, 10)}, ConfirmPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModal("Delete", "Sure?")
			var got ConfirmResult
			for _, k := range tt.keys {
				m, got = m.Update(k)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirmModal_View(t *testing.T) {
	m := NewConfirmModal("Delete product", "Delete Credit card?")
	assert.True(t, m.ConfirmSelected())

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Delete product")
	assert.Contains(t, view, "Delete Credit card?")
	assert.Contains(t, view, "Confirm")
	assert.Contains(t, view, "Cancel")

	busy := tuitest.StripANSI(m.WithBusy("Deleting...").View())
	assert.Contains(t, busy, "Deleting...")
	assert.NotContains(t, busy, "Confirm")
}

func TestCenter(t *testing.T) {
	out := tuitest.StripANSI(Center("background", "box", 20, 3))
	assert.Contains(t, out, "box")
}
