// Package notifytest provides a manually driven scheduler for tests that
// exercise notification timers.
package notifytest

import (
	"slices"
	"sync"
	"time"

	"github.com/colonyops/catalog/internal/core/notify"
)

// Scheduler fires timers only when Advance is called.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*timer
}

var _ notify.Scheduler = (*Scheduler)(nil)

type timer struct {
	s       *Scheduler
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// New returns a scheduler at virtual time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// AfterFunc registers f to run once virtual time reaches now+d.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) notify.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &timer{s: s, at: s.now + d, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves virtual time forward and runs every due timer in deadline
// order. Callbacks run on the calling goroutine.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d

	var due []*timer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(due, func(a, b *timer) int { return int(a.at - b.at) })
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
