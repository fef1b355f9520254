// Package storage persists analysis summary stats in a local SQLite database.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
const CurrentSchemaVersion = 2

const (
	dbFileName = "resume-studio.db"
	reportsDir = "reports"
)

// Init opens (and creates when missing) the database at baseDir/resume-studio.db
// and applies pending migrations. A reports directory is created next to it.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0o700)

	if err := os.MkdirAll(ReportsDir(baseDir), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, dbFileName)
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0o600)

	return db, nil
}

// ReportsDir is where generated analysis reports are written by default.
func ReportsDir(baseDir string) string {
	return filepath.Join(baseDir, reportsDir)
}

func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS analysis_stats (
		  id           TEXT PRIMARY KEY,
		  resume_score REAL NOT NULL,
		  tier         TEXT NOT NULL,
		  job_role     TEXT NOT NULL,
		  model_used   TEXT NOT NULL,
		  created_at   INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_analysis_stats_role
		ON analysis_stats(job_role);

		CREATE INDEX IF NOT EXISTS idx_analysis_stats_created
		ON analysis_stats(created_at DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	if version < 2 {
		schema := `
		CREATE TABLE IF NOT EXISTS feedback (
		  id         TEXT PRIMARY KEY,
		  rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		  comment    TEXT NOT NULL DEFAULT '',
		  page       TEXT NOT NULL DEFAULT '',
		  created_at INTEGER NOT NULL
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 2 failed: %w", err)
		}
		if err := SetUserVersion(db, 2); err != nil {
			return err
		}
	}

	return nil
}

func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version.
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version.
func SetUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
