package draft

import (
	"context"
	"sync"
	"time"

	domain "dojoportal/internal/domain/registration"
)

// MemoryStore is an in-memory Store for tests and dev runs.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]snapshot
}

type snapshot struct {
	fields    map[string]string
	updatedAt time.Time
}

// NewMemoryStore creates an empty in-memory draft store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]snapshot)}
}

// GetByID retrieves a draft by its ID.
func (s *MemoryStore) GetByID(_ context.Context, id string) (*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return domain.Restore(id, snap.fields, snap.updatedAt), nil
}

// Save persists a draft (insert or update).
func (s *MemoryStore) Save(_ context.Context, d *domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = snapshot{fields: d.Fields(), updatedAt: d.UpdatedAt}
	return nil
}

// Delete removes a draft. Deleting an absent ID is not an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}
