// Package sqlite provides SQLite-backed storage for the engagement engine.
// Uses WAL mode for concurrent reads and crash-safe writes. It is the
// reference implementation of the domain store contracts: versioned profile
// saves, an append-only activity ledger, and the achievement registry.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/engage.db.
// Enables WAL mode, foreign keys, and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "engage.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate creates the schema. All statements are idempotent.
func (d *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id        TEXT PRIMARY KEY,
			display_name   TEXT NOT NULL DEFAULT '',
			total_points   INTEGER NOT NULL DEFAULT 0,
			level          INTEGER NOT NULL DEFAULT 1,
			current_streak INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			activity_count INTEGER NOT NULL DEFAULT 0,
			created_at     INTEGER NOT NULL,
			updated_at     INTEGER NOT NULL,
			version        INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS activities (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			event_id      TEXT NOT NULL,
			activity_type TEXT NOT NULL,
			ts            INTEGER NOT NULL,
			metadata      TEXT NOT NULL DEFAULT '{}',
			points_earned INTEGER NOT NULL,
			breakdown     TEXT NOT NULL DEFAULT '{}',
			UNIQUE(user_id, event_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_user_ts ON activities(user_id, ts)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_ts ON activities(ts)`,

		`CREATE TABLE IF NOT EXISTS achievement_defs (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			criteria    TEXT NOT NULL,
			threshold   REAL NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			points      INTEGER NOT NULL,
			rarity      TEXT NOT NULL,
			active      INTEGER NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS unlocks (
			user_id        TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			earned_at      INTEGER NOT NULL,
			bonus_points   INTEGER NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}
