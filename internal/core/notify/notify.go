// Package notify holds toast notifications shown to the user after an
// operation completes.
package notify

import (
	"context"
	"time"
)

// Level is the kind of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Levels lists every level in display order.
var Levels = []Level{LevelSuccess, LevelError, LevelWarning, LevelInfo}

// Notification is a single toast. A zero Duration keeps it until it is
// removed manually.
type Notification struct {
	ID        string        `json:"id"`
	Level     Level         `json:"level"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Durations holds the default display time per level.
type Durations struct {
	Success time.Duration `yaml:"success"`
	Error   time.Duration `yaml:"error"`
	Warning time.Duration `yaml:"warning"`
	Info    time.Duration `yaml:"info"`
}

// DefaultDurations returns the stock display times.
func DefaultDurations() Durations {
	return Durations{
		Success: 5 * time.Second,
		Error:   8 * time.Second,
		Warning: 6 * time.Second,
		Info:    5 * time.Second,
	}
}

// For returns the duration configured for level.
func (d Durations) For(level Level) time.Duration {
	switch level {
	case LevelSuccess:
		return d.Success
	case LevelError:
		return d.Error
	case LevelWarning:
		return d.Warning
	default:
		return d.Info
	}
}

// Store persists notification history.
type Store interface {
	Save(ctx context.Context, n Notification) error
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// Timer is a pending callback that can be stopped.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
