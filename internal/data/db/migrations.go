package db

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationFile matches NNNN_name.up.sql and NNNN_name.down.sql.
var migrationFile = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// migration is one schema step. The applied version is tracked in SQLite's
// user_version header field.
type migration struct {
	version int
	name    string
	up      string
	down    string
}

// loadMigrations reads the embedded migrations sorted by version. Every
// version needs both an up and a down file.
func loadMigrations() ([]migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := map[int]*migration{}
	for _, entry := range entries {
		version, name, direction, err := parseFilename(entry.Name())
		if err != nil {
			return nil, err
		}

		body, err := fs.ReadFile(migrationsFS, "migrations/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &migration{version: version, name: name}
			byVersion[version] = m
		}
		if direction == "up" {
			m.up = string(body)
		} else {
			m.down = string(body)
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" || m.down == "" {
			return nil, fmt.Errorf("migration %04d needs both up and down files", m.version)
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b migration) int { return cmp.Compare(a.version, b.version) })
	return out, nil
}

func parseFilename(filename string) (version int, name, direction string, err error) {
	match := migrationFile.FindStringSubmatch(filename)
	if match == nil {
		return 0, "", "", fmt.Errorf("migration %q: want NNNN_name.{up,down}.sql", filename)
	}

	version, err = strconv.Atoi(match[1])
	if err != nil || version <= 0 {
		return 0, "", "", fmt.Errorf("migration %q: version must be a positive number", filename)
	}
	return version, match[2], match[3], nil
}

func schemaVersion(ctx context.Context, conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// step runs body and stamps the schema version in one transaction.
func step(ctx context.Context, conn *sql.DB, body string, version int) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	// PRAGMA does not take bind parameters; version is an int.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return tx.Commit()
}

// migrateUp applies the migrations newer than the current schema version.
func migrateUp(ctx context.Context, conn *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	current, err := schemaVersion(ctx, conn)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		log.Info().Int("version", m.version).Str("name", m.name).Msg("applying migration")
		if err := step(ctx, conn, m.up, m.version); err != nil {
			return fmt.Errorf("migration %04d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// MigrateDown reverts the last n applied migrations, newest first.
func MigrateDown(ctx context.Context, conn *sql.DB, n int) error {
	if n <= 0 {
		return fmt.Errorf("n must be positive, got %d", n)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	current, err := schemaVersion(ctx, conn)
	if err != nil {
		return err
	}

	applied := slices.DeleteFunc(slices.Clone(migrations), func(m migration) bool { return m.version > current })
	if n > len(applied) {
		return fmt.Errorf("cannot revert %d migrations, only %d applied", n, len(applied))
	}

	for i := len(applied) - 1; i >= len(applied)-n; i-- {
		m := applied[i]
		prev := 0
		if i > 0 {
			prev = applied[i-1].version
		}
		log.Info().Int("version", m.version).Str("name", m.name).Msg("reverting migration")
		if err := step(ctx, conn, m.down, prev); err != nil {
			return fmt.Errorf("revert migration %04d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}
