package idempotency

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedisStore(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRedisStore_ClaimOnce(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	first, err := store.Claim(ctx, "cb:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.Claim(ctx, "cb:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	assert.True(t, mr.Exists("idempotency:cb:1"))
	assert.Equal(t, time.Minute, mr.TTL("idempotency:cb:1"))
}

func TestRedisStore_ClaimExpires(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	_, err := store.Claim(ctx, "msg:1:2", time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	again, err := store.Claim(ctx, "msg:1:2", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestRedisStore_DefaultTTL(t *testing.T) {
	mr, store := setupStore(t)

	_, err := store.Claim(context.Background(), "cb:ttl", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, mr.TTL("idempotency:cb:ttl"))
}

func TestRedisStore_Release(t *testing.T) {
	_, store := setupStore(t)
	ctx := context.Background()

	_, err := store.Claim(ctx, "cb:2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "cb:2"))

	again, err := store.Claim(ctx, "cb:2", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, store := setupStore(t)
	mr.Close()

	_, err := store.Claim(context.Background(), "cb:3", time.Minute)
	assert.Error(t, err)
}
