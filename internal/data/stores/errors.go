package stores

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/catalog/internal/data/db"
)

// IsBusyError returns true if the error is a SQLITE_BUSY error.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsCorruptionError returns true if the error indicates database corruption.
func IsCorruptionError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CORRUPT ||
			code == sqlite3.SQLITE_NOTADB ||
			code == sqlite3.SQLITE_CANTOPEN
	}

	// Also check for common corruption error messages
	errStr := err.Error()
	return strings.Contains(errStr, "database disk image is malformed") ||
		strings.Contains(errStr, "file is not a database") ||
		strings.Contains(errStr, "database corruption")
}

// RecoverFromCorruption moves a corrupted history database aside so the next
// Open starts fresh. Notification history is disposable, so nothing is
// salvaged from the old file.
func RecoverFromCorruption(dataDir string) (string, error) {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupPath := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	if err := os.Rename(dbPath, backupPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("backup corrupted database: %w", err)
	}

	// Orphaned WAL/SHM files would be replayed against the new database.
	for _, suffix := range []string{"-wal", "-shm"} {
		side := dbPath + suffix
		if _, err := os.Stat(side); err != nil {
			continue
		}
		if err := os.Rename(side, backupPath+suffix); err != nil {
			if delErr := os.Remove(side); delErr != nil {
				return "", fmt.Errorf("backup or remove %s file: %w", suffix, err)
			}
		}
	}

	return backupPath, nil
}
