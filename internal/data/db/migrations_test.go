package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func openRawConn(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), FileName)
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestMigrateUp_FreshDB(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	migrations, err := loadMigrations()
	require.NoError(t, err)

	version, err := schemaVersion(ctx, database.Conn())
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].version, version)

	_, err = database.Conn().ExecContext(ctx, "SELECT 1 FROM notifications LIMIT 0")
	require.NoError(t, err, "notifications table should exist")
}

func TestMigrateUp_Idempotent(t *testing.T) {
	database := openTestDB(t)
	assert.NoError(t, migrateUp(context.Background(), database.Conn()))
}

func TestMigrateDown(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	conn := database.Conn()

	require.NoError(t, MigrateDown(ctx, conn, 1))

	_, err := conn.ExecContext(ctx, "SELECT 1 FROM notifications LIMIT 0")
	require.Error(t, err, "notifications should not exist after down migration")

	version, err := schemaVersion(ctx, conn)
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, migrateUp(ctx, conn))
	_, err = conn.ExecContext(ctx, "SELECT 1 FROM notifications LIMIT 0")
	require.NoError(t, err)
}

func TestMigrateDown_Errors(t *testing.T) {
	ctx := context.Background()

	conn := openRawConn(t)
	assert.Error(t, MigrateDown(ctx, conn, 0))
	assert.Error(t, MigrateDown(ctx, conn, -1))
	assert.Error(t, MigrateDown(ctx, conn, 1), "nothing applied on a raw connection")

	migrations, err := loadMigrations()
	require.NoError(t, err)
	assert.Error(t, MigrateDown(ctx, openTestDB(t).Conn(), len(migrations)+1))
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.IsIncreasing(t, func() []int {
		versions := make([]int, 0, len(migrations))
		for _, m := range migrations {
			versions = append(versions, m.version)
		}
		return versions
	}())

	for _, m := range migrations {
		assert.NotEmpty(t, m.up, "migration %d up", m.version)
		assert.NotEmpty(t, m.down, "migration %d down", m.version)
		assert.NotEmpty(t, m.name, "migration %d name", m.version)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename      string
		wantVersion   int
		wantName      string
		wantDirection string
		wantErr       bool
	}{
		{"0001_notifications.up.sql", 1, "notifications", "up", false},
		{"0001_notifications.down.sql", 1, "notifications", "down", false},
		{"0007_add_history_index.up.sql", 7, "add_history_index", "up", false},
		{"bad.sql", 0, "", "", true},
		{"0001_notifications.sql", 0, "", "", true},
		{"0000_zero.up.sql", 0, "", "", true},
		{"-1_negative.up.sql", 0, "", "", true},
		{"abc_notnumber.up.sql", 0, "", "", true},
		{"0001_.up.sql", 0, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, direction, err := parseFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantDirection, direction)
		})
	}
}

func TestOpen_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	database, err := Open(dir, OpenOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	assert.FileExists(t, filepath.Join(dir, FileName))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	err := database.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO notifications (id, level, message, duration_ms, created_at) VALUES ('abc1234', 'info', 'x', 0, 1)")
		require.NoError(t, err)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, database.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications").Scan(&count))
	assert.Zero(t, count)
}
