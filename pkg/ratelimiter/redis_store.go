package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "ratelimit:"

// consumeTokens refills and drains one bucket atomically using the server
// clock. Returns {remaining, reset_at_ms}.
var consumeTokens = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local n = tonumber(ARGV[4])

local t = redis.call("TIME")
local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "last")
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
	tokens = capacity
	last = now
end

local intervals = math.floor((now - last) / interval)
if intervals > 0 then
	tokens = math.min(capacity, tokens + intervals * rate)
	last = now
end

local remaining = tokens - n
if remaining >= 0 then
	tokens = remaining
end

redis.call("HSET", KEYS[1], "tokens", tokens, "last", last)
redis.call("PEXPIRE", KEYS[1], interval * (math.ceil(capacity / rate) + 1))
return {remaining, last + interval}
`)

// RedisStore keeps buckets in Redis so limits hold across replicas.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

type RedisStoreOption func(*RedisStore)

func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	res, err := consumeTokens.Run(ctx, s.client, []string{s.key(key)},
		cfg.Capacity, cfg.RefillRate, cfg.RefillInterval.Milliseconds(), tokens,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script reply %v", ErrStoreUnavailable, res)
	}
	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
