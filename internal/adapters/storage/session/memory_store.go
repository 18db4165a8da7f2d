package session

import (
	"context"
	"sync"

	domain "dojoportal/internal/domain/session"
)

// MemoryStore is an in-memory Store. It backs tests and single-process
// deployments that don't need sessions to survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domain.Record)}
}

// Get retrieves a Session Record by key.
func (s *MemoryStore) Get(_ context.Context, key string) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return domain.Record{}, ErrNotFound
	}
	return rec, nil
}

// Save persists a Session Record, replacing any prior record wholesale.
func (s *MemoryStore) Save(_ context.Context, key string, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = rec
	return nil
}

// Delete removes a Session Record. Deleting an absent key is not an error.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
