// Package store provides the embedded SQLite database backing tasks,
// quick links, saved folders, clipboard history and settings.
//
// The schema is managed as an ordered list of versioned migrations so
// existing databases upgrade in place.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/utildesk/utildesk/internal/constants"
)

// ErrNotFound reports a lookup for a row that does not exist.
var ErrNotFound = errors.New("registro não encontrado")

// Store wraps the database connection. Methods are safe for concurrent
// use; SQLite serializes writers internally and the driver pools reads.
type Store struct {
	db *sql.DB
}

// Migration is a single schema upgrade step.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "create todos table",
		SQL: `CREATE TABLE IF NOT EXISTS todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			done INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
	},
	{
		Version:     2,
		Description: "add completed_at column",
		SQL:         `ALTER TABLE todos ADD COLUMN completed_at TEXT;`,
	},
	{
		Version:     3,
		Description: "add sort_order column",
		SQL:         `ALTER TABLE todos ADD COLUMN sort_order INTEGER NOT NULL DEFAULT 0;`,
	},
	{
		Version:     4,
		Description: "initialize sort_order from id",
		SQL:         `UPDATE todos SET sort_order = id;`,
	},
	{
		Version:     5,
		Description: "create quick_links table",
		SQL: `CREATE TABLE IF NOT EXISTS quick_links (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
	},
	{
		Version:     6,
		Description: "create saved_folders table",
		SQL: `CREATE TABLE IF NOT EXISTS saved_folders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			folder_name TEXT NOT NULL,
			folder_path TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
	},
	{
		Version:     7,
		Description: "create clipboard_history table",
		SQL: `CREATE TABLE IF NOT EXISTS clipboard_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT NOT NULL,
			captured_at TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
	},
	{
		Version:     8,
		Description: "create settings table",
		SQL: `CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	},
}

// Open initializes the database connection and applies pending
// migrations. The parent directory is created when missing.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermission); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode allows simultaneous readers and writers.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, err
	}
	// Synchronous NORMAL is safe against app crashes, faster than FULL.
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	);`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			m.Version, m.Description); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	return v, err
}
