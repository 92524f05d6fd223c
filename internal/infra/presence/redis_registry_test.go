package presence

import (
	"context"
	"testing"
	"time"

	"beacon/config"
	domainerrors "beacon/internal/domain/errors"
	"beacon/internal/domain/service"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (service.PresenceRegistry, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Presence: &config.PresenceConfig{KeyPrefix: "presence:user:", TTL: time.Hour},
	}

	return NewRedisRegistry(client, cfg), server
}

func TestRedisRegistry_AddAndRemove(t *testing.T) {
	registry, server := newTestRegistry(t)
	ctx := context.Background()

	online, err := registry.HasAny(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, online)

	require.NoError(t, registry.AddConnection(ctx, "user-1", "c1"))
	require.NoError(t, registry.AddConnection(ctx, "user-1", "c2"))

	online, err = registry.HasAny(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, online)
	assert.Equal(t, time.Hour, server.TTL("presence:user:user-1"))

	require.NoError(t, registry.RemoveConnection(ctx, "user-1", "c1"))
	online, err = registry.HasAny(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, online, "one connection remains")

	require.NoError(t, registry.RemoveConnection(ctx, "user-1", "c2"))
	online, err = registry.HasAny(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, online)

	// Removing an unknown connection is a no-op.
	require.NoError(t, registry.RemoveConnection(ctx, "user-1", "missing"))
}

func TestRedisRegistry_EntryExpires(t *testing.T) {
	registry, server := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.AddConnection(ctx, "user-1", "c1"))
	server.FastForward(2 * time.Hour)

	online, err := registry.HasAny(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, online)
}

func TestRedisRegistry_ListAndCount(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.AddConnection(ctx, "user-1", "c1"))
	require.NoError(t, registry.AddConnection(ctx, "user-1", "c2"))
	require.NoError(t, registry.AddConnection(ctx, "user-2", "c3"))

	users, err := registry.ListUsersWithPresence(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, users)

	total, err := registry.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRedisRegistry_StoreUnavailable(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	registry := NewRedisRegistry(client, &config.Config{
		Presence: &config.PresenceConfig{KeyPrefix: "presence:user:", TTL: time.Hour},
	})
	server.Close()

	_, err = registry.HasAny(context.Background(), "user-1")
	require.Error(t, err)

	var presenceErr *domainerrors.PresenceRegistryError
	assert.ErrorAs(t, err, &presenceErr)
}
