package cache

import (
	"context"
	"sync"
	"time"

	"antifraud/internal/models"
)

// Snapshot is one generation of the article list. It is replaced wholesale, never
// updated in place.
type Snapshot struct {
	CreatedAt time.Time
	Articles  []models.Article
}

// Store holds at most one snapshot.
type Store interface {
	// Get returns the stored snapshot, or false when there is none.
	Get(ctx context.Context) (Snapshot, bool, error)
	// Set replaces the stored snapshot. ttl bounds how long a backend keeps it.
	Set(ctx context.Context, snap Snapshot, ttl time.Duration) error
	// Delete drops the stored snapshot.
	Delete(ctx context.Context) error
	// Name identifies the backend in logs and health output.
	Name() string
}

// MemoryStore keeps the snapshot in process memory.
type MemoryStore struct {
	snap *Snapshot
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the current snapshot.
func (s *MemoryStore) Get(context.Context) (Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return Snapshot{}, false, nil
	}

	return *s.snap, true, nil
}

// Set replaces the snapshot. Expiry is enforced by the cache, so ttl is unused.
func (s *MemoryStore) Set(_ context.Context, snap Snapshot, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = &snap

	return nil
}

// Delete drops the snapshot.
func (s *MemoryStore) Delete(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = nil

	return nil
}

// Name returns "memory".
func (s *MemoryStore) Name() string {
	return "memory"
}
