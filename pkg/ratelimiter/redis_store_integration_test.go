//go:build integration

package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dmitrymomot/drive/pkg/ratelimiter"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	store := ratelimiter.NewRedisStore(client, ratelimiter.WithRedisKeyPrefix("test:rl:"))
	cfg := ratelimiter.Config{Capacity: 3, RefillRate: 3, RefillInterval: time.Hour}

	remaining, resetAt, err := store.ConsumeTokens(ctx, "otp:a@b.co", 2, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resetAt, time.Minute)

	remaining, _, err = store.ConsumeTokens(ctx, "otp:a@b.co", 2, cfg)
	require.NoError(t, err)
	assert.Equal(t, -1, remaining)

	remaining, _, err = store.ConsumeTokens(ctx, "otp:a@b.co", 1, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	ttl, err := client.PTTL(ctx, "test:rl:otp:a@b.co").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Hour)

	require.NoError(t, store.Reset(ctx, "otp:a@b.co"))
	remaining, _, err = store.ConsumeTokens(ctx, "otp:a@b.co", 1, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}
