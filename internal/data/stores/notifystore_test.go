package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/catalog/internal/core/notify"
	"github.com/colonyops/catalog/internal/data/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestNotifyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and list", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		now := time.Now()
		err := store.Save(ctx, notify.Notification{
			ID:        "abc1234",
			Level:     notify.LevelError,
			Message:   "something broke",
			Duration:  8 * time.Second,
			CreatedAt: now,
		})
		require.NoError(t, err)

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "abc1234", items[0].ID)
		assert.Equal(t, notify.LevelError, items[0].Level)
		assert.Equal(t, "something broke", items[0].Message)
		assert.Equal(t, 8*time.Second, items[0].Duration)
		assert.Equal(t, now.UnixNano(), items[0].CreatedAt.UnixNano())
	})

	t.Run("list returns newest first", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		base := time.Now()
		for i, msg := range []string{"first", "second", "third"} {
			err := store.Save(ctx, notify.Notification{
				ID:        msg,
				Level:     notify.LevelInfo,
				Message:   msg,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "third", items[0].Message)
		assert.Equal(t, "second", items[1].Message)
		assert.Equal(t, "first", items[2].Message)
	})

	t.Run("retention limit keeps newest", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 2)

		base := time.Now()
		for i, msg := range []string{"a", "b", "c", "d"} {
			require.NoError(t, store.Save(ctx, notify.Notification{
				ID:        msg,
				Level:     notify.LevelSuccess,
				Message:   msg,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			}))
		}

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "d", items[0].Message)
		assert.Equal(t, "c", items[1].Message)
	})

	t.Run("clear deletes all", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		err := store.Save(ctx, notify.Notification{
			ID:        "w",
			Level:     notify.LevelWarning,
			Message:   "warn",
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		require.NoError(t, store.Clear(ctx))

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("count", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		for i := range 3 {
			err := store.Save(ctx, notify.Notification{
				ID:        "n",
				Level:     notify.LevelInfo,
				Message:   "msg",
				CreatedAt: time.Now().Add(time.Duration(i) * time.Millisecond),
			})
			require.NoError(t, err)
		}

		count, err = store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("empty list returns empty slice", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})

	t.Run("center persists through store", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)
		center := notify.NewCenter(notify.WithStore(store))

		shown := center.Show(notify.LevelInfo, "persisted", 0)

		hist, err := center.History(ctx)
		require.NoError(t, err)
		require.Len(t, hist, 1)
		assert.Equal(t, shown.ID, hist[0].ID)
	})
}
