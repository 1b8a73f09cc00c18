package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colonyops/catalog/internal/core/notify"
	"github.com/colonyops/catalog/internal/data/db"
)

// NotifyStore implements notify.Store using SQLite.
type NotifyStore struct {
	db    *db.DB
	limit int
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a SQLite-backed notification store. When limit is
// positive only the newest limit rows are retained.
func NewNotifyStore(db *db.DB, limit int) *NotifyStore {
	return &NotifyStore{db: db, limit: limit}
}

const saveAttempts = 3

// Save persists a notification and trims history beyond the retention limit.
// SQLITE_BUSY is retried a few times since several catalog processes may
// share the history file.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) error {
	var err error
	for attempt := range saveAttempts {
		err = s.save(ctx, n)
		if !IsBusyError(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}

func (s *NotifyStore) save(ctx context.Context, n notify.Notification) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO notifications (id, level, message, duration_ms, created_at) VALUES (?, ?, ?, ?, ?)`,
			n.ID, string(n.Level), n.Message, n.Duration.Milliseconds(), n.CreatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}

		if s.limit <= 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM notifications WHERE rowid NOT IN (
				SELECT rowid FROM notifications ORDER BY created_at DESC, rowid DESC LIMIT ?
			)`, s.limit)
		if err != nil {
			return fmt.Errorf("trim notifications: %w", err)
		}
		return nil
	})
}

// List returns all notifications ordered by newest first.
func (s *NotifyStore) List(ctx context.Context) ([]notify.Notification, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, level, message, duration_ms, created_at FROM notifications ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]notify.Notification, 0)
	for rows.Next() {
		var (
			n          notify.Notification
			level      string
			durationMS int64
			createdAt  int64
		)
		if err := rows.Scan(&n.ID, &level, &n.Message, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Level = notify.Level(level)
		n.Duration = time.Duration(durationMS) * time.Millisecond
		n.CreatedAt = time.Unix(0, createdAt)
		result = append(result, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return result, nil
}

// Clear deletes all notifications.
func (s *NotifyStore) Clear(ctx context.Context) error {
	if _, err := s.db.Conn().ExecContext(ctx, `DELETE FROM notifications`); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// Count returns the total number of notifications.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}
