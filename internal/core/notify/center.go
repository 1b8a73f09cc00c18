package notify

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/catalog/pkg/randid"
)

const idLength = 7

// EventKind describes a change to the active notification list.
type EventKind int

const (
	EventAdded EventKind = iota
	EventRemoved
	EventCleared
)

// Event is delivered to subscribers after the list changes.
type Event struct {
	Kind         EventKind
	Notification Notification // zero for EventCleared
}

// Subscriber is invoked after every change, outside the center's lock.
type Subscriber func(Event)

// Center owns the active notifications. Each notification with a positive
// duration gets one timer keyed by its id; removal by id is idempotent, so a
// timer firing after a manual removal is a no-op.
type Center struct {
	mu          sync.Mutex
	items       []Notification
	timers      map[string]Timer
	subscribers []Subscriber

	durations Durations
	scheduler Scheduler
	store     Store
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures a Center.
type Option func(*Center)

// WithScheduler replaces the wall-clock timer source.
func WithScheduler(s Scheduler) Option { return func(c *Center) { c.scheduler = s } }

// WithStore persists every shown notification to s.
func WithStore(s Store) Option { return func(c *Center) { c.store = s } }

// WithDurations overrides the per-level defaults.
func WithDurations(d Durations) Option { return func(c *Center) { c.durations = d } }

// WithLogger sets the logger used for persistence failures.
func WithLogger(l zerolog.Logger) Option { return func(c *Center) { c.log = l } }

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option { return func(c *Center) { c.now = now } }

// NewCenter creates an empty notification center.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		timers:    make(map[string]Timer),
		durations: DefaultDurations(),
		scheduler: wallScheduler{},
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn for every subsequent change.
func (c *Center) Subscribe(fn Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Success shows a success notification with the default duration.
func (c *Center) Success(message string) Notification {
	return c.Show(LevelSuccess, message, c.durations.Success)
}

// Error shows an error notification with the default duration.
func (c *Center) Error(message string) Notification {
	return c.Show(LevelError, message, c.durations.Error)
}

// Warning shows a warning notification with the default duration.
func (c *Center) Warning(message string) Notification {
	return c.Show(LevelWarning, message, c.durations.Warning)
}

// Info shows an info notification with the default duration.
func (c *Center) Info(message string) Notification {
	return c.Show(LevelInfo, message, c.durations.Info)
}

// Errorf formats and shows an error notification.
func (c *Center) Errorf(format string, args ...any) Notification {
	return c.Error(fmt.Sprintf(format, args...))
}

// Show appends a notification. A positive duration schedules its removal.
func (c *Center) Show(level Level, message string, d time.Duration) Notification {
	c.mu.Lock()
	n := Notification{
		ID:        c.nextIDLocked(),
		Level:     level,
		Message:   message,
		Duration:  max(d, 0),
		CreatedAt: c.now(),
	}
	c.items = append(c.items, n)

	if n.Duration > 0 {
		id := n.ID
		c.timers[id] = c.scheduler.AfterFunc(n.Duration, func() { c.Remove(id) })
	}
	subs := slices.Clone(c.subscribers)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(context.Background(), n); err != nil {
			c.log.Error().Err(err).Str("id", n.ID).Msg("failed to persist notification")
		}
	}

	publish(subs, Event{Kind: EventAdded, Notification: n})
	return n
}

// Remove deletes the notification with id and stops its timer. It reports
// whether anything was removed; unknown ids are ignored.
func (c *Center) Remove(id string) bool {
	c.mu.Lock()
	idx := slices.IndexFunc(c.items, func(n Notification) bool { return n.ID == id })
	if idx < 0 {
		c.mu.Unlock()
		return false
	}

	n := c.items[idx]
	c.items = slices.Delete(c.items, idx, idx+1)
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	subs := slices.Clone(c.subscribers)
	c.mu.Unlock()

	publish(subs, Event{Kind: EventRemoved, Notification: n})
	return true
}

// ClearAll removes every notification and stops all timers.
func (c *Center) ClearAll() {
	c.mu.Lock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.items = nil
	subs := slices.Clone(c.subscribers)
	c.mu.Unlock()

	publish(subs, Event{Kind: EventCleared})
}

// List returns the active notifications, oldest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Len returns the number of active notifications.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// History returns persisted notifications, newest first. It returns nil when
// no store is configured.
func (c *Center) History(ctx context.Context) ([]Notification, error) {
	if c.store == nil {
		return nil, nil
	}
	return c.store.List(ctx)
}

// ClearHistory deletes persisted notifications.
func (c *Center) ClearHistory(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.Clear(ctx)
}

func (c *Center) nextIDLocked() string {
	for {
		id := randid.Generate(idLength)
		if !slices.ContainsFunc(c.items, func(n Notification) bool { return n.ID == id }) {
			return id
		}
	}
}

func publish(subs []Subscriber, ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
