package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/drive/pkg/baas/embedded"
)

const defaultKeyPrefix = "otp:"

// incrAttempts bumps the counter only while the challenge exists.
var incrAttempts = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], "attempts", 1)
`)

// Store implements embedded.ChallengeStore.
type Store struct {
	client redis.UniversalClient
	prefix string
}

type Option func(*Store)

func WithKeyPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) challengeKey(accountID string) string {
	return s.prefix + "challenge:" + accountID
}

func (s *Store) SaveChallenge(ctx context.Context, ch embedded.Challenge) error {
	key := s.challengeKey(ch.AccountID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"account_id", ch.AccountID,
			"email", ch.Email,
			"code_hash", ch.CodeHash,
			"attempts", ch.Attempts,
			"expires_at", ch.ExpiresAt.UnixMilli(),
		)
		pipe.PExpireAt(ctx, key, ch.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: save challenge: %w", err)
	}
	return nil
}

func (s *Store) GetChallenge(ctx context.Context, accountID string) (*embedded.Challenge, error) {
	fields, err := s.client.HGetAll(ctx, s.challengeKey(accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: load challenge: %w", err)
	}
	if len(fields) == 0 {
		return nil, embedded.ErrChallengeNotFound
	}
	return parseChallenge(fields)
}

func (s *Store) IncrementAttempts(ctx context.Context, accountID string) (int, error) {
	n, err := incrAttempts.Run(ctx, s.client, []string{s.challengeKey(accountID)}).Int()
	if err != nil {
		return 0, fmt.Errorf("redisstore: increment attempts: %w", err)
	}
	if n < 0 {
		return 0, embedded.ErrChallengeNotFound
	}
	return n, nil
}

func (s *Store) DeleteChallenge(ctx context.Context, accountID string) error {
	if err := s.client.Del(ctx, s.challengeKey(accountID)).Err(); err != nil {
		return fmt.Errorf("redisstore: delete challenge: %w", err)
	}
	return nil
}

var errMalformed = errors.New("redisstore: malformed challenge")

func parseChallenge(fields map[string]string) (*embedded.Challenge, error) {
	attempts, err := strconv.Atoi(fields["attempts"])
	if err != nil {
		return nil, fmt.Errorf("%w: attempts: %w", errMalformed, err)
	}
	expires, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: expires_at: %w", errMalformed, err)
	}
	return &embedded.Challenge{
		AccountID: fields["account_id"],
		Email:     fields["email"],
		CodeHash:  fields["code_hash"],
		Attempts:  attempts,
		ExpiresAt: time.UnixMilli(expires),
	}, nil
}
