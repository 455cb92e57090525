package redis_test

import (
	"context"
	"testing"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	redisadapter "github.com/robertarktes/movie-ticket-booking/internal/adapters/redis"
	"github.com/robertarktes/movie-ticket-booking/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redisclient.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisContainer.Terminate(ctx) })

	addr, err := redisContainer.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redisclient.NewClient(&redisclient.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCache_Ping(t *testing.T) {
	client := startRedis(t)
	cache := redisadapter.NewCache(client)
	assert.NoError(t, cache.Ping(context.Background()))
}

func TestIdempotency_ReserveSetRelease(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	idemp := redisadapter.NewIdempotency(client)
	key := "/book-ui:key-0000000000000001"

	missing, err := idemp.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := idemp.Reserve(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = idemp.Reserve(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	pending, err := idemp.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.True(t, pending.Pending())

	resp := redisadapter.IdempResponse{Status: 200, ContentType: "text/html; charset=utf-8", Result: []byte("<html>")}
	require.NoError(t, idemp.Set(ctx, key, resp, time.Minute))

	got, err := idemp.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, resp, *got)

	ok, err = idemp.Reserve(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "completed key stays claimed")

	require.NoError(t, idemp.Release(ctx, key))
	ok, err = idemp.Reserve(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_Allow(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	rl := ratelimit.NewRateLimiter(redisadapter.NewCache(client))

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(ctx, "ip:10.0.0.1", 3, time.Minute), "request %d", i)
	}
	assert.False(t, rl.Allow(ctx, "ip:10.0.0.1", 3, time.Minute))
	assert.True(t, rl.Allow(ctx, "ip:10.0.0.2", 3, time.Minute))

	ttl, err := client.TTL(ctx, "rl:ip:10.0.0.1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
