package ratelimiter

import (
	"context"
	"sync"
	"time"
)

const staleAfter = time.Hour

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process memory. Buckets idle for an hour are
// swept during ConsumeTokens at most once per sweep interval.
type MemoryStore struct {
	mu            sync.Mutex
	buckets       map[string]*bucket
	now           func() time.Time
	sweepInterval time.Duration
	lastSweep     time.Time
}

type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often idle buckets are dropped. Zero disables
// sweeping.
func WithSweepInterval(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) { ms.sweepInterval = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) { ms.now = now }
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:       make(map[string]*bucket),
		now:           time.Now,
		sweepInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(ms)
	}
	ms.lastSweep = ms.now()
	return ms
}

func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	ms.sweep(now)

	b, ok := ms.buckets[key]
	if !ok {
		b = &bucket{tokens: cfg.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	// whole intervals only; capped so the multiplication cannot overflow
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := int(min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), maxIntervals))
	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = now
	}

	// a denied call does not dig the bucket deeper
	if b.tokens-tokens >= 0 {
		b.tokens -= tokens
		b.lastAccess = now
		return b.tokens, b.lastRefill.Add(cfg.RefillInterval), nil
	}
	b.lastAccess = now
	return b.tokens - tokens, b.lastRefill.Add(cfg.RefillInterval), nil
}

func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.buckets, key)
	return nil
}

func (ms *MemoryStore) sweep(now time.Time) {
	if ms.sweepInterval <= 0 || now.Sub(ms.lastSweep) < ms.sweepInterval {
		return
	}
	ms.lastSweep = now
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > staleAfter {
			delete(ms.buckets, key)
		}
	}
}
