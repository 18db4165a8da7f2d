package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "dojoportal/internal/domain/session"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves a Session Record by key.
// PRE: key is non-empty
// POST: Returns the record or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, key string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT token, token_type, expires_at, role, profile, created_at FROM portal_session WHERE key = ?", key)
	var rec domain.Record
	var expiresStr, createdStr, profileJSON string
	err := row.Scan(&rec.Token, &rec.TokenType, &expiresStr, &rec.Role, &profileJSON, &createdStr)
	if err == sql.ErrNoRows {
		return domain.Record{}, ErrNotFound
	}
	if err != nil {
		return domain.Record{}, err
	}
	rec.ExpiresAt, err = time.Parse(time.RFC3339, expiresStr)
	if err != nil {
		return domain.Record{}, fmt.Errorf("corrupt expires_at for session %s: %w", key, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	if err := json.Unmarshal([]byte(profileJSON), &rec.Profile); err != nil {
		return domain.Record{}, fmt.Errorf("corrupt profile for session %s: %w", key, err)
	}
	return rec, nil
}

// Save persists a Session Record, replacing any prior record wholesale.
// PRE: rec has been validated
// POST: Record is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, key string, rec domain.Record) error {
	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO portal_session (key, token, token_type, expires_at, role, profile, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   token=excluded.token, token_type=excluded.token_type, expires_at=excluded.expires_at,
		   role=excluded.role, profile=excluded.profile, created_at=excluded.created_at`,
		key, rec.Token, rec.TokenType, rec.ExpiresAt.UTC().Format(time.RFC3339),
		rec.Role, string(profileJSON), rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Delete removes a Session Record. Deleting an absent key is not an error.
// PRE: key is non-empty
// POST: Record with given key is removed
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM portal_session WHERE key = ?", key)
	return err
}

// DeleteExpired removes records whose expiry passed before cutoff.
// Expired records are already treated as absent by readers; this is
// housekeeping so dead bytes don't accumulate.
func (s *SQLiteStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM portal_session WHERE expires_at < ?", cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
