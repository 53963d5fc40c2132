package persistence

import (
	"context"
	"sync"

	"github.com/glowstock/backend/internal/domain/snapshot"
)

// MemoryStore keeps the snapshot in process memory. For tests and
// throwaway development runs; everything is lost on exit.
type MemoryStore struct {
	mu   sync.RWMutex
	snap *snapshot.Snapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a deep copy of the stored snapshot, or a fresh one when
// nothing has been saved yet.
func (s *MemoryStore) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return snapshot.New(), nil
	}
	return s.snap.Clone(), nil
}

// Save replaces the stored snapshot with a deep copy of snap
func (s *MemoryStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}
