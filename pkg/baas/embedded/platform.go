package embedded

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/email"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/pkg/ratelimiter"
	"github.com/dmitrymomot/drive/pkg/session"
)

const minSecretLength = 32

var (
	ErrSecretTooShort = errors.New("embedded: secret must be at least 32 characters")
	ErrMissingStore   = errors.New("embedded: document, challenge and session stores are required")
	ErrMissingSender  = errors.New("embedded: email sender is required")
)

// Platform implements baas.Factory.
type Platform struct {
	cfg        Config
	key        []byte
	docs       DocumentStore
	challenges ChallengeStore
	sessions   session.Store
	sender     email.EmailSender
	limits     ratelimiter.Store
	limiter    *ratelimiter.Bucket
	log        *slog.Logger
	now        func() time.Time
}

type Option func(*Platform)

func WithLogger(l *slog.Logger) Option {
	return func(p *Platform) {
		if l != nil {
			p.log = l
		}
	}
}

// WithRateLimitStore sets where passcode issuance buckets live. Defaults to
// process memory.
func WithRateLimitStore(store ratelimiter.Store) Option {
	return func(p *Platform) { p.limits = store }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Platform) { p.now = now }
}

func New(cfg Config, docs DocumentStore, challenges ChallengeStore, sessions session.Store, sender email.EmailSender, opts ...Option) (*Platform, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}
	if docs == nil || challenges == nil || sessions == nil {
		return nil, ErrMissingStore
	}
	if sender == nil {
		return nil, ErrMissingSender
	}

	def := DefaultConfig()
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = def.CodeLength
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = def.CodeTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = def.RateWindow
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = def.SessionTTL
	}

	p := &Platform{
		cfg:        cfg,
		key:        []byte(cfg.Secret),
		docs:       docs,
		challenges: challenges,
		sessions:   sessions,
		sender:     sender,
		log:        logger.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(logger.Component("baas.embedded"))

	if cfg.RateLimit > 0 {
		if p.limits == nil {
			p.limits = ratelimiter.NewMemoryStore()
		}
		limiter, err := ratelimiter.NewBucket(p.limits, ratelimiter.Config{
			Capacity:       cfg.RateLimit,
			RefillRate:     cfg.RateLimit,
			RefillInterval: cfg.RateWindow,
		})
		if err != nil {
			return nil, fmt.Errorf("embedded: passcode rate limit: %w", err)
		}
		p.limiter = limiter
	}
	return p, nil
}

func (p *Platform) Admin(context.Context) (*baas.Client, error) {
	return &baas.Client{
		Account:   &account{p: p},
		Databases: &databases{p: p},
	}, nil
}

// Session returns a client for secret. The secret is checked lazily by the
// calls that need it, matching the remote platform.
func (p *Platform) Session(_ context.Context, secret string) (*baas.Client, error) {
	if secret == "" {
		return nil, baas.NewError(http.StatusUnauthorized, baas.TypeUserUnauthorized, "The current user is not authorized to perform the requested action.")
	}
	return &baas.Client{
		Account:   &account{p: p, secretHash: session.HashSecret(secret)},
		Databases: &databases{p: p},
	}, nil
}

func newID(requested string) string {
	if requested == "" || requested == baas.UniqueID {
		return ulid.Make().String()
	}
	return requested
}

func errInvalidToken(msg string) *baas.Error {
	return baas.NewError(http.StatusUnauthorized, baas.TypeUserInvalidToken, msg)
}

func errUnauthorized() *baas.Error {
	return baas.NewError(http.StatusUnauthorized, baas.TypeUserUnauthorized, "The current user is not authorized to perform the requested action.")
}

func errInternal(op string, err error) error {
	return fmt.Errorf("embedded: %s: %w", op, err)
}
