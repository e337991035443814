// Package store provides SQLite-backed persistence for generated artifacts,
// daily logs and user profiles.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/momwise/momwise/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS artifacts (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	week_number  INTEGER NOT NULL,
	kind         TEXT NOT NULL,
	trimester    TEXT NOT NULL DEFAULT '',
	payload_json TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_artifacts_key ON artifacts(user_id, week_number, kind, created_at);

CREATE TABLE IF NOT EXISTS daily_logs (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	log_date     TEXT NOT NULL,
	weight       REAL,
	systolic_bp  INTEGER,
	diastolic_bp INTEGER,
	mood         TEXT NOT NULL DEFAULT '',
	water_intake REAL,
	notes        TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_daily_logs_user ON daily_logs(user_id, log_date);

CREATE TABLE IF NOT EXISTS daily_log_symptoms (
	log_id  TEXT NOT NULL REFERENCES daily_logs(id) ON DELETE CASCADE,
	symptom TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_daily_log_symptoms_log ON daily_log_symptoms(log_id);

CREATE TABLE IF NOT EXISTS user_profiles (
	user_id          TEXT PRIMARY KEY,
	pregnancy_status TEXT NOT NULL DEFAULT '',
	due_date         TEXT NOT NULL DEFAULT '',
	last_period_date TEXT NOT NULL DEFAULT '',
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps a sql.DB with store-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("store: ping: %w: %w", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
