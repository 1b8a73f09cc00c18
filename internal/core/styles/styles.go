// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/colonyops/catalog/internal/core/notify"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	LabelStyle         lipgloss.Style
	SuccessTextStyle   lipgloss.Style
	ErrorTextStyle     lipgloss.Style
	WarningTextStyle   lipgloss.Style

	// Text styles.
	TextMutedStyle          lipgloss.Style
	TextForegroundStyle     lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextPrimaryBoldStyle    lipgloss.Style
	SectionStyle            lipgloss.Style

	// TUI shared styles.
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	StatusStyle   lipgloss.Style
	HelpStyle     lipgloss.Style
	SpinnerStyle  lipgloss.Style

	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style

	// Product table styles.
	TableHeaderStyle      lipgloss.Style
	TableCellStyle        lipgloss.Style
	TableSelectedRowStyle lipgloss.Style
	TableEmptyStyle       lipgloss.Style
	PagerStyle            lipgloss.Style
	PagerActiveStyle      lipgloss.Style

	FormTitleStyle         lipgloss.Style
	FormLabelStyle         lipgloss.Style
	FormFieldStyle         lipgloss.Style
	FormFieldFocusedStyle  lipgloss.Style
	FormFieldDisabledStyle lipgloss.Style
	FormErrorStyle         lipgloss.Style
	FormHelpStyle          lipgloss.Style

	ToastStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	LabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(14)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorTextStyle = lipgloss.NewStyle().Foreground(ColorError)
	WarningTextStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextForegroundStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	TextForegroundBoldStyle = lipgloss.NewStyle().Foreground(ColorForeground).Bold(true)
	TextPrimaryBoldStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	SectionStyle = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginBottom(1)
	SubtitleStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	StatusStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ColorSurface)
	TableCellStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	TableSelectedRowStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary)
	TableEmptyStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	PagerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	PagerActiveStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	FormTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	FormLabelStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	FormFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	FormFieldFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		PaddingLeft(1)
	FormFieldDisabledStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorSurface).
		Foreground(ColorMuted).
		PaddingLeft(1)
	FormErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	FormHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	ToastStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Foreground(ColorForeground).
		Padding(0, 1)
}

// LevelColor returns the palette color used for a notification level.
func LevelColor(level notify.Level) color.Color {
	switch level {
	case notify.LevelSuccess:
		return ColorSuccess
	case notify.LevelError:
		return ColorError
	case notify.LevelWarning:
		return ColorWarning
	default:
		return ColorPrimary
	}
}

// ToastStyleFor returns the toast box style tinted for level.
func ToastStyleFor(level notify.Level) lipgloss.Style {
	return ToastStyle.BorderForeground(LevelColor(level))
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
