package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the portal schema. The portal persists only what it
// owns: Session Records and wizard Registration Drafts — all business
// data lives in the remote backend.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS portal_session (
		key TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		token_type TEXT NOT NULL,
		expires_at TEXT NOT NULL,
		role TEXT NOT NULL,
		profile TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS registration_draft (
		id TEXT PRIMARY KEY,
		fields TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
