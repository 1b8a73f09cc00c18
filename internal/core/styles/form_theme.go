package styles

import (
	"image/color"

	"github.com/charmbracelet/huh"
	lipglossv1 "github.com/charmbracelet/lipgloss"
)

// huh still renders with lipgloss v1, so palette colors are passed as hex.
func v1Color(c color.Color) lipglossv1.TerminalColor {
	hex := colorHexPtr(c)
	if hex == nil {
		return lipglossv1.NoColor{}
	}
	return lipglossv1.Color(*hex)
}

// FormTheme returns a huh theme matching the active palette.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := v1Color(ColorPrimary)
	muted := v1Color(ColorMuted)
	fg := v1Color(ColorForeground)
	bg := v1Color(ColorBackground)
	errColor := v1Color(ColorError)

	t.Focused.Base = t.Focused.Base.BorderForeground(primary)
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(errColor)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(errColor)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)
	t.Focused.TextInput.Text = t.Focused.TextInput.Text.Foreground(fg)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(bg).Background(primary).Bold(true)
	t.Focused.BlurredButton = t.Focused.BlurredButton.Foreground(muted)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipglossv1.HiddenBorder())
	t.Blurred.Title = t.Blurred.Title.Foreground(muted).Bold(false)

	return t
}
