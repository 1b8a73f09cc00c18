package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoDialog_RendersSectionsItemsFooter(t *testing.T) {
	d := NewInfoDialog(
		"Credit card",
		[]InfoSection{
			{
				Title: "Product",
				Items: []InfoItem{
					{Label: "ID", Value: "tc01"},
					{Label: "Logo", Value: "https://valid.url/image.png", Status: InfoStatusPass},
				},
			},
			{
				Title: "Dates",
				Items: []InfoItem{
					{Label: "Release", Value: "2025-01-01"},
					{Label: "Revision", Value: "2025-06-01", Status: InfoStatusWarn},
					{Label: "Logo", Value: "bad", Status: InfoStatusFail},
				},
			},
		},
		"footer summary",
		"[j/k] scroll  [esc] close",
		120,
		40,
	)

	out := d.Overlay("bg", 120, 40)
	assert.Contains(t, out, "Credit card")
	assert.Contains(t, out, "Product")
	assert.Contains(t, out, "tc01")
	assert.Contains(t, out, "2025-01-01")
	assert.Contains(t, out, "footer summary")
	assert.Contains(t, out, "✔")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "✘")
}

func TestInfoDialog_ScrollAndEmptySections(t *testing.T) {
	items := make([]InfoItem, 0, 50)
	for range 50 {
		items = append(items, InfoItem{Label: "item", Value: "value"})
	}

	d := NewInfoDialog(
		"Details",
		[]InfoSection{
			{Title: "Many", Items: items},
			{Title: "Empty", Items: nil},
		},
		"",
		"help",
		70,
		18,
	)

	before := d.Overlay("bg", 70, 18)
	d.ScrollDown()
	after := d.Overlay("bg", 70, 18)

	assert.Contains(t, before, "Details")
	assert.Contains(t, after, "Details")
	assert.NotEqual(t, before, after)
}
