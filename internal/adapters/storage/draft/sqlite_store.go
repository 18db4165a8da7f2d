package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "dojoportal/internal/domain/registration"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new draft store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a draft by its ID.
// PRE: id is non-empty
// POST: Returns the draft or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*domain.Draft, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT fields, updated_at FROM registration_draft WHERE id = ?", id)
	var fieldsJSON, updatedStr string
	err := row.Scan(&fieldsJSON, &updatedStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var fields map[string]string
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return nil, fmt.Errorf("corrupt draft %s: %w", id, err)
	}
	updatedAt, _ := time.Parse(time.RFC3339, updatedStr)
	return domain.Restore(id, fields, updatedAt), nil
}

// Save persists a draft (insert or update).
// PRE: d has a non-empty ID
// POST: Draft fields are persisted
func (s *SQLiteStore) Save(ctx context.Context, d *domain.Draft) error {
	fieldsJSON, err := json.Marshal(d.Fields())
	if err != nil {
		return fmt.Errorf("encode draft fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO registration_draft (id, fields, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET fields=excluded.fields, updated_at=excluded.updated_at`,
		d.ID, string(fieldsJSON), d.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Delete removes a draft. Deleting an absent ID is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM registration_draft WHERE id = ?", id)
	return err
}
