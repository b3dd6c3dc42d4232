package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/breakside/internal/domain/model"
)

// MemoryStore keeps snapshots in process memory. Useful for tests and for
// running without a configured archive path.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]model.Snapshot
	order     []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]model.Snapshot)}
}

// SaveSnapshot persists a snapshot.
func (s *MemoryStore) SaveSnapshot(_ context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.snapshots[snap.ID]; !exists {
		s.order = append(s.order, snap.ID)
	}
	s.snapshots[snap.ID] = snap
	return nil
}

// Snapshot returns a snapshot by id.
func (s *MemoryStore) Snapshot(_ context.Context, id string) (model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return model.Snapshot{}, fmt.Errorf("repository.snapshot: %s: %w", id, ErrNotFound)
	}
	return snap, nil
}

// Latest returns the most recently saved snapshot.
func (s *MemoryStore) Latest(_ context.Context) (model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return model.Snapshot{}, fmt.Errorf("repository.latest: %w", ErrNotFound)
	}
	return s.snapshots[s.order[len(s.order)-1]], nil
}

// Count returns the number of stored snapshots.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots), nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }
