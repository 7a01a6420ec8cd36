package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed storage shared by the app surfaces and the
// reminder engine.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and ensures the
// schema exists.
func New(dbPath string) (*Store, error) {
	// foreign_keys is per-connection, so it goes in the DSN where every
	// pooled connection picks it up.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			username    TEXT    UNIQUE NOT NULL,
			email       TEXT    NOT NULL DEFAULT '',
			telegram_id TEXT    NOT NULL DEFAULT '',
			created_at  TEXT    NOT NULL,
			is_active   INTEGER NOT NULL DEFAULT 1
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			title      TEXT    NOT NULL,
			due_date   TEXT,
			due_time   TEXT,
			archived   INTEGER NOT NULL DEFAULT 0,
			created_at TEXT    NOT NULL
		);

		CREATE TABLE IF NOT EXISTS task_reminders (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id        INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			reminder_type  TEXT    NOT NULL,
			reminder_value INTEGER NOT NULL DEFAULT 0,
			reminder_time  TEXT    NOT NULL DEFAULT '',
			is_sent        INTEGER NOT NULL DEFAULT 0,
			sent_date      TEXT
		);

		CREATE TABLE IF NOT EXISTS notifications (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id           INTEGER NOT NULL REFERENCES users(id),
			app_name          TEXT    NOT NULL DEFAULT '',
			notification_type TEXT    NOT NULL DEFAULT 'alert',
			title             TEXT    NOT NULL,
			message           TEXT    NOT NULL DEFAULT '',
			is_read           INTEGER NOT NULL DEFAULT 0,
			created_at        TEXT    NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
