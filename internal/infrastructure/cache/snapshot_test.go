package cache

import (
	"context"
	"testing"
	"time"

	"github.com/erp/inventory/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySnapshotStore_SaveLoad(t *testing.T) {
	s := NewInMemorySnapshotStore(time.Hour, 10)
	ctx := context.Background()

	_, ok, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte(`[{"id":"a"}]`)
	require.NoError(t, s.Save(ctx, "k", payload))
	payload[0] = 'x'

	snap, ok, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"a"}]`, string(snap.Payload))
	assert.False(t, snap.SavedAt.IsZero())
}

func TestInMemorySnapshotStore_MaxAge(t *testing.T) {
	clock := newTestClock()
	s := NewInMemorySnapshotStore(time.Minute, 10)
	s.clock = clock.Now
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "k", []byte(`1`)))
	clock.Advance(2 * time.Minute)

	_, ok, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemorySnapshotStore_EvictsOldest(t *testing.T) {
	clock := newTestClock()
	s := NewInMemorySnapshotStore(time.Hour, 2)
	s.clock = clock.Now
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "first", []byte(`1`)))
	clock.Advance(time.Second)
	require.NoError(t, s.Save(ctx, "second", []byte(`2`)))
	clock.Advance(time.Second)
	require.NoError(t, s.Save(ctx, "third", []byte(`3`)))

	assert.Equal(t, 2, s.Size())
	_, ok, _ := s.Load(ctx, "first")
	assert.False(t, ok)
	_, ok, _ = s.Load(ctx, "third")
	assert.True(t, ok)

	// overwriting an existing key does not evict
	require.NoError(t, s.Save(ctx, "second", []byte(`22`)))
	assert.Equal(t, 2, s.Size())
}

func TestInMemorySnapshotStore_InvalidatePrefix(t *testing.T) {
	s := NewInMemorySnapshotStore(time.Hour, 10)
	ctx := context.Background()

	for _, key := range []string{"materials:list_a", "materials:detail_m-2_all", "materials:detail_m-20_all", "categories:list_a"} {
		require.NoError(t, s.Save(ctx, key, []byte(`{}`)))
	}

	removed, err := s.Invalidate(ctx, "materials:detail_m-2_")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok, _ := s.Load(ctx, "materials:detail_m-2_all")
	assert.False(t, ok)
	_, ok, _ = s.Load(ctx, "materials:detail_m-20_all")
	assert.True(t, ok)

	removed, err = s.Invalidate(ctx, "materials:")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, s.Size())
}

func TestRedisSnapshotStore_InvalidateUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	s := NewRedisSnapshotStoreWithClient(client, "", 0)
	defer s.Close()

	removed, err := s.Invalidate(context.Background(), "materials:")
	assert.Error(t, err)
	assert.Zero(t, removed)
}

func TestNewInMemorySnapshotStore_Defaults(t *testing.T) {
	s := NewInMemorySnapshotStore(0, 0)
	assert.Equal(t, DefaultSnapshotMaxAge, s.maxAge)
	assert.Equal(t, DefaultSnapshotMaxEntries, s.maxEntries)
	assert.NoError(t, s.Close())
}

func TestSnapshotStoreFactory_RedisDisabled(t *testing.T) {
	f := NewSnapshotStoreFactory(config.RedisConfig{Enabled: false}, config.CacheConfig{FallbackMaxEntries: 3})

	store, err := f.CreateStore()
	require.NoError(t, err)
	_, ok := store.(*InMemorySnapshotStore)
	assert.True(t, ok)
}

func TestSnapshotStoreFactory_FallbackWhenUnreachable(t *testing.T) {
	redisCfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	store, err := NewSnapshotStoreFactory(redisCfg, config.CacheConfig{}).CreateStore()
	require.NoError(t, err)
	_, ok := store.(*InMemorySnapshotStore)
	assert.True(t, ok)

	_, err = NewSnapshotStoreFactory(redisCfg, config.CacheConfig{}, WithInMemoryFallback(false)).CreateStore()
	assert.Error(t, err)
}
