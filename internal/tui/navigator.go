package tui

import (
	"sync"

	"github.com/colonyops/catalog/internal/catalog"
)

// routeRecorder implements catalog.Navigator for the TUI. Workflows may
// navigate from command goroutines, so routes are queued and the model
// drains them after every message.
type routeRecorder struct {
	mu      sync.Mutex
	pending []catalog.Route
}

var _ catalog.Navigator = (*routeRecorder)(nil)

func (r *routeRecorder) Navigate(route catalog.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, route)
}

// last returns the most recent queued route and clears the queue.
func (r *routeRecorder) last() (catalog.Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		return "", false
	}
	route := r.pending[len(r.pending)-1]
	r.pending = r.pending[:0]
	return route, true
}
