package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/catalog/internal/core/notify"
)

const (
	defaultMaxToasts = 3
	toastWidth       = 50
	toastEventBuffer = 64
)

// toastEventMsg is delivered when the notification center changes.
type toastEventMsg notify.Event

// ToastController bridges the notification center to the Bubble Tea loop.
// The center owns lifetimes and auto-dismiss timers; the controller only
// forwards change events and picks which toasts are visible.
type ToastController struct {
	center     *notify.Center
	maxVisible int
	events     chan notify.Event
}

// NewToastController subscribes to center. At most maxVisible toasts are
// shown, newest kept.
func NewToastController(center *notify.Center, maxVisible int) *ToastController {
	if maxVisible <= 0 {
		maxVisible = defaultMaxToasts
	}

	c := &ToastController{
		center:     center,
		maxVisible: maxVisible,
		events:     make(chan notify.Event, toastEventBuffer),
	}
	center.Subscribe(func(e notify.Event) {
		// Timers fire on their own goroutines; never block them. A dropped
		// event is harmless because rendering reads the center directly.
		select {
		case c.events <- e:
		default:
		}
	})
	return c
}

// Listen returns a command that waits for the next center change.
func (c *ToastController) Listen() tea.Cmd {
	return func() tea.Msg {
		return toastEventMsg(<-c.events)
	}
}

// Toasts returns the visible notifications, oldest first.
func (c *ToastController) Toasts() []notify.Notification {
	all := c.center.List()
	if len(all) > c.maxVisible {
		all = all[len(all)-c.maxVisible:]
	}
	return all
}

// Dismiss removes the newest (bottom-most) toast.
func (c *ToastController) Dismiss() {
	all := c.center.List()
	if len(all) > 0 {
		c.center.Remove(all[len(all)-1].ID)
	}
}

// DismissAll removes all active toasts.
func (c *ToastController) DismissAll() {
	c.center.ClearAll()
}

// HasToasts returns true if there are any active toasts.
func (c *ToastController) HasToasts() bool {
	return c.center.Len() > 0
}
