package session

import (
	"context"
	"errors"

	domain "dojoportal/internal/domain/session"
)

// ErrNotFound is returned when no Session Record exists under a key.
var ErrNotFound = errors.New("session record not found")

// Store persists Session Records keyed by opaque portal session key.
type Store interface {
	Get(ctx context.Context, key string) (domain.Record, error)
	Save(ctx context.Context, key string, rec domain.Record) error
	Delete(ctx context.Context, key string) error
}
