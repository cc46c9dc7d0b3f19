package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Default store settings
const (
	DefaultTTL           = 5 * time.Minute
	DefaultSweepInterval = 60 * time.Second
)

// Store is an in-process key/value cache with per-entry time-to-live.
// Values are shared with callers and must be treated as read-only.
type Store struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	defaultTTL time.Duration
	clock      func() time.Time
	logger     *zap.Logger

	stopCh    chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once

	// Stats for monitoring
	hits      int64
	misses    int64
	evictions int64
}

// cacheEntry wraps a cached value with the time it was stored
type cacheEntry struct {
	data     any
	storedAt time.Time
	ttl      time.Duration
}

// expired reports whether the entry is older than ttl at now
func (e *cacheEntry) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.storedAt) > ttl
}

// StoreOption is a functional option for configuring the store
type StoreOption func(*Store)

// WithDefaultTTL sets the TTL used when Set is called without one
func WithDefaultTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithClock sets the time source
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithStoreLogger sets the logger for the store
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty store. Call StartSweeper to evict expired entries in the background.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		entries:    make(map[string]*cacheEntry),
		defaultTTL: DefaultTTL,
		clock:      time.Now,
		logger:     zap.NewNop(),
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores data under key. A ttl of zero or less uses the default TTL.
func (s *Store) Set(key string, data any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.mu.Lock()
	s.entries[key] = &cacheEntry{data: data, storedAt: s.clock(), ttl: ttl}
	s.mu.Unlock()

	s.logger.Debug("Cached entry", zap.String("key", key), zap.Duration("ttl", ttl))
}

// Get returns the data under key if it has not expired. A positive ttlOverride
// replaces the TTL the entry was stored with. Expired entries are removed.
func (s *Store) Get(key string, ttlOverride time.Duration) (any, bool) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok {
		ttl := e.ttl
		if ttlOverride > 0 {
			ttl = ttlOverride
		}
		if e.expired(s.clock(), ttl) {
			delete(s.entries, key)
			ok = false
			atomic.AddInt64(&s.evictions, 1)
		}
	}
	s.mu.Unlock()

	if !ok {
		atomic.AddInt64(&s.misses, 1)
		s.logger.Debug("Cache miss", zap.String("key", key))
		return nil, false
	}
	atomic.AddInt64(&s.hits, 1)
	s.logger.Debug("Cache hit", zap.String("key", key))
	return e.data, true
}

// Lookup is Get with a type assertion. A value of another type counts as a miss.
func Lookup[T any](s *Store, key string, ttlOverride time.Duration) (T, bool) {
	var zero T
	v, ok := s.Get(key, ttlOverride)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Delete removes one key
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Invalidate removes every key starting with prefix and returns how many were removed
func (s *Store) Invalidate(prefix string) int {
	s.mu.Lock()
	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Debug("Invalidated cache entries",
			zap.String("prefix", prefix),
			zap.Int("removed", removed))
	}
	return removed
}

// Sweep removes every expired entry and returns how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	now := s.clock()
	removed := 0
	for key, e := range s.entries {
		if e.expired(now, e.ttl) {
			delete(s.entries, key)
			removed++
		}
	}
	remaining := len(s.entries)
	s.mu.Unlock()

	atomic.AddInt64(&s.evictions, int64(removed))
	if removed > 0 {
		s.logger.Debug("Swept expired cache entries",
			zap.Int("removed", removed),
			zap.Int("remaining", remaining))
	}
	return removed
}

// Clear removes every entry
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*cacheEntry)
	s.mu.Unlock()
}

// Len returns the number of entries, expired ones included until swept
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartSweeper runs Sweep every interval until Close. Only the first call has an effect.
func (s *Store) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.sweepLoop(interval)
	})
}

func (s *Store) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						s.logger.Error("Panic in cache sweep", zap.Any("panic", r))
					}
				}()
				s.Sweep()
			}()
		}
	}
}

// Close stops the sweeper. Safe to call multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
	})
	return nil
}

// Stats is a point-in-time view of store activity
type Stats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// Stats returns cache statistics
func (s *Store) Stats() Stats {
	return Stats{
		Entries:   s.Len(),
		Hits:      atomic.LoadInt64(&s.hits),
		Misses:    atomic.LoadInt64(&s.misses),
		Evictions: atomic.LoadInt64(&s.evictions),
	}
}

// ResetStats resets the counters
func (s *Store) ResetStats() {
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.evictions, 0)
}
