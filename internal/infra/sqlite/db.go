// Package sqlite is a single-file progress store for local deployments.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the database file at path, creating its directory and
// the schema when missing.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS learners (
		user_id            INTEGER PRIMARY KEY,
		chat_id            INTEGER NOT NULL,
		streak             INTEGER NOT NULL DEFAULT 0,
		last_practice_date TEXT    NOT NULL DEFAULT '',
		total_correct      INTEGER NOT NULL DEFAULT 0,
		total_wrong        INTEGER NOT NULL DEFAULT 0,
		created_at         TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS review_records (
		user_id       INTEGER NOT NULL,
		item_id       TEXT    NOT NULL,
		box           INTEGER NOT NULL,
		last_seen     TEXT    NOT NULL DEFAULT '',
		correct_count INTEGER NOT NULL DEFAULT 0,
		wrong_count   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, item_id),
		FOREIGN KEY (user_id) REFERENCES learners(user_id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_records_user_box ON review_records (user_id, box)`,
}

func initSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
