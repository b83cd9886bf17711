package ratelimiter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/drive/pkg/ratelimiter"
)

type failingStore struct{}

func (failingStore) ConsumeTokens(context.Context, string, int, ratelimiter.Config) (int, time.Time, error) {
	return 0, time.Time{}, ratelimiter.ErrStoreUnavailable
}

func (failingStore) Reset(context.Context, string) error { return nil }

func TestNewBucket(t *testing.T) {
	t.Parallel()

	valid := ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second}

	tests := []struct {
		name  string
		store ratelimiter.Store
		cfg   ratelimiter.Config
	}{
		{"nil store", nil, valid},
		{"zero capacity", ratelimiter.NewMemoryStore(), ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}},
		{"zero refill rate", ratelimiter.NewMemoryStore(), ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}},
		{"zero interval", ratelimiter.NewMemoryStore(), ratelimiter.Config{Capacity: 1, RefillRate: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimiter.NewBucket(tt.store, tt.cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}

	b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), valid)
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestBucket_Allow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := ratelimiter.Config{Capacity: 2, RefillRate: 2, RefillInterval: time.Hour}

	t.Run("denies once capacity is spent", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
		require.NoError(t, err)

		for want := 1; want >= 0; want-- {
			res, err := b.Allow(ctx, "otp:a@b.co")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
			assert.Equal(t, want, res.Remaining)
			assert.Equal(t, 2, res.Limit)
			assert.Zero(t, res.RetryAfter())
		}

		res, err := b.Allow(ctx, "otp:a@b.co")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Greater(t, res.RetryAfter(), time.Duration(0))

		res, err = b.Allow(ctx, "otp:c@d.co")
		require.NoError(t, err)
		assert.True(t, res.Allowed())

		require.NoError(t, b.Reset(ctx, "otp:a@b.co"))
		res, err = b.Allow(ctx, "otp:a@b.co")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("rejects non-positive token counts", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
		require.NoError(t, err)

		_, err = b.AllowN(ctx, "k", 0)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(failingStore{}, cfg)
		require.NoError(t, err)

		_, err = b.Allow(ctx, "k")
		assert.True(t, errors.Is(err, ratelimiter.ErrStoreUnavailable))
	})
}
