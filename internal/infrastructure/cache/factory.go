package cache

import (
	"fmt"

	"github.com/erp/inventory/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SnapshotStoreFactory creates snapshot stores based on configuration
type SnapshotStoreFactory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SnapshotStoreFactoryOption is a functional option for configuring the factory
type SnapshotStoreFactoryOption func(*SnapshotStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSnapshotStoreFactory creates a new factory
func NewSnapshotStoreFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...SnapshotStoreFactoryOption) *SnapshotStoreFactory {
	f := &SnapshotStoreFactory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based snapshot store
func (f *SnapshotStoreFactory) CreateRedisStore() (SnapshotStore, error) {
	store, err := NewRedisSnapshotStore(RedisConfig{
		Host:      f.redisConfig.Host,
		Port:      f.redisConfig.Port,
		Password:  f.redisConfig.Password,
		DB:        f.redisConfig.DB,
		KeyPrefix: f.redisConfig.KeyPrefix,
		MaxAge:    f.cacheConfig.FallbackMaxAge,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis snapshot store: %w", err)
	}
	return store, nil
}

// CreateInMemoryStore creates an in-memory snapshot store.
// Snapshots are lost when the process exits.
func (f *SnapshotStoreFactory) CreateInMemoryStore() SnapshotStore {
	return NewInMemorySnapshotStore(f.cacheConfig.FallbackMaxAge, f.cacheConfig.FallbackMaxEntries)
}

// CreateStore returns the Redis store when Redis is enabled and reachable,
// otherwise the in-memory store if fallback is allowed
func (f *SnapshotStoreFactory) CreateStore() (SnapshotStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("using in-memory snapshot store")
		return f.CreateInMemoryStore(), nil
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis snapshot store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for snapshots but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory snapshot store. "+
		"Offline snapshots will not survive a restart.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
