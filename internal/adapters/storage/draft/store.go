package draft

import (
	"context"
	"errors"

	domain "dojoportal/internal/domain/registration"
)

// ErrNotFound is returned when no draft exists under an ID.
var ErrNotFound = errors.New("registration draft not found")

// Store persists Registration Drafts for the duration of a wizard run.
type Store interface {
	GetByID(ctx context.Context, id string) (*domain.Draft, error)
	Save(ctx context.Context, d *domain.Draft) error
	Delete(ctx context.Context, id string) error
}
