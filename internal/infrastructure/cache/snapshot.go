package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Default snapshot settings
const (
	DefaultSnapshotMaxAge     = 24 * time.Hour
	DefaultSnapshotMaxEntries = 512
)

// Snapshot is the last successful payload saved for a key
type Snapshot struct {
	Payload json.RawMessage `json:"payload"`
	SavedAt time.Time       `json:"saved_at"`
}

// SnapshotStore keeps the last good response per key so reads can fall back
// to it when the backend cannot be reached. Unlike Store, entries outlive the TTL.
type SnapshotStore interface {
	Save(ctx context.Context, key string, payload []byte) error
	// Load returns false when there is no snapshot younger than the store's max age
	Load(ctx context.Context, key string) (Snapshot, bool, error)
	// Invalidate drops every snapshot whose key starts with prefix
	Invalidate(ctx context.Context, prefix string) (int, error)
	Close() error
}

// InMemorySnapshotStore implements SnapshotStore using a bounded in-memory map.
// When full, the oldest snapshot is evicted.
type InMemorySnapshotStore struct {
	mu         sync.RWMutex
	entries    map[string]Snapshot
	maxAge     time.Duration
	maxEntries int
	clock      func() time.Time
}

// NewInMemorySnapshotStore creates a store. Non-positive limits use the defaults.
func NewInMemorySnapshotStore(maxAge time.Duration, maxEntries int) *InMemorySnapshotStore {
	if maxAge <= 0 {
		maxAge = DefaultSnapshotMaxAge
	}
	if maxEntries <= 0 {
		maxEntries = DefaultSnapshotMaxEntries
	}
	return &InMemorySnapshotStore{
		entries:    make(map[string]Snapshot),
		maxAge:     maxAge,
		maxEntries: maxEntries,
		clock:      time.Now,
	}
}

// Save stores a copy of payload under key
func (s *InMemorySnapshotStore) Save(ctx context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[key] = Snapshot{
		Payload: append(json.RawMessage(nil), payload...),
		SavedAt: s.clock(),
	}
	return nil
}

// Load returns the snapshot for key if it is younger than the max age
func (s *InMemorySnapshotStore) Load(ctx context.Context, key string) (Snapshot, bool, error) {
	s.mu.RLock()
	snap, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.clock().Sub(snap.SavedAt) > s.maxAge {
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Invalidate removes the snapshots under prefix and returns how many were dropped
func (s *InMemorySnapshotStore) Invalidate(ctx context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Close releases resources
func (s *InMemorySnapshotStore) Close() error {
	return nil
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemorySnapshotStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *InMemorySnapshotStore) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, snap := range s.entries {
		if oldestKey == "" || snap.SavedAt.Before(oldest) {
			oldestKey, oldest = key, snap.SavedAt
		}
	}
	delete(s.entries, oldestKey)
}

// Ensure InMemorySnapshotStore implements SnapshotStore
var _ SnapshotStore = (*InMemorySnapshotStore)(nil)
