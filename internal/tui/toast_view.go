package tui

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/catalog/internal/core/notify"
	"github.com/colonyops/catalog/internal/core/styles"
)

// ToastView renders toast notifications and composites them as an overlay.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the toast stack as a single string with toasts stacked
// vertically (oldest at top, newest at bottom).
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, n := range toasts {
		rendered = append(rendered, renderToast(n))
	}

	return strings.Join(rendered, "\n")
}

func renderToast(n notify.Notification) string {
	icon := styles.LevelIcon(n.Level)
	// border (2) + padding (2) + icon and space
	room := toastWidth - 4 - lipgloss.Width(icon) - 1
	content := icon + " " + ansi.Truncate(n.Message, room, "…")
	return styles.ToastStyleFor(n.Level).Width(toastWidth).Render(content)
}

// Overlay composites the toast stack over background in the lower-right corner.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.View()
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	toastW := lipgloss.Width(toastContent)
	toastH := lipgloss.Height(toastContent)

	rightX := max(width-toastW-1, 0)
	bottomY := max(height-toastH, 0)

	toastLayer.X(rightX).Y(bottomY).Z(2)

	compositor := lipgloss.NewCompositor(bgLayer, toastLayer)
	return compositor.Render()
}
