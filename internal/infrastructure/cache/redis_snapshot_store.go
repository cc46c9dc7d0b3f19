package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSnapshotKeyPrefix = "inventory:snapshot:"

// RedisSnapshotStore implements SnapshotStore using Redis.
// Snapshots survive restarts of the desk application.
type RedisSnapshotStore struct {
	client    *redis.Client
	keyPrefix string
	maxAge    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
	MaxAge    time.Duration
}

// NewRedisSnapshotStore creates a new Redis-based snapshot store
func NewRedisSnapshotStore(cfg RedisConfig) (*RedisSnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSnapshotStoreWithClient(client, cfg.KeyPrefix, cfg.MaxAge), nil
}

// NewRedisSnapshotStoreWithClient creates a store with an existing Redis client
func NewRedisSnapshotStoreWithClient(client *redis.Client, keyPrefix string, maxAge time.Duration) *RedisSnapshotStore {
	if keyPrefix == "" {
		keyPrefix = defaultSnapshotKeyPrefix
	}
	if maxAge <= 0 {
		maxAge = DefaultSnapshotMaxAge
	}
	return &RedisSnapshotStore{
		client:    client,
		keyPrefix: keyPrefix,
		maxAge:    maxAge,
	}
}

// Save stores payload under key, expiring after the max age
func (s *RedisSnapshotStore) Save(ctx context.Context, key string, payload []byte) error {
	b, err := json.Marshal(Snapshot{Payload: payload, SavedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, b, s.maxAge).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot for key
func (s *RedisSnapshotStore) Load(ctx context.Context, key string) (Snapshot, bool, error) {
	b, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Invalidate deletes the snapshots under prefix. Keys are found with SCAN so
// large keyspaces are not blocked.
func (s *RedisSnapshotStore) Invalidate(ctx context.Context, prefix string) (int, error) {
	match := s.keyPrefix + prefix + "*"
	removed := 0
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan snapshots: %w", err)
		}
		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to delete snapshots: %w", err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// Close closes the Redis client
func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}

// Ensure RedisSnapshotStore implements SnapshotStore
var _ SnapshotStore = (*RedisSnapshotStore)(nil)
