package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "session:"

// RedisStore implements Store on Redis. Expiry is delegated to key TTLs.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

type RedisStoreOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(secretHash string) string {
	return s.prefix + secretHash
}

func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.SecretHash == "" {
		return ErrInvalidSession
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.SecretHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, secretHash string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(secretHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, secretHash string) error {
	if err := s.client.Del(ctx, s.key(secretHash)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts expired keys itself.
func (s *RedisStore) DeleteExpired(context.Context) error {
	return nil
}
