package users

import (
	"log/slog"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/pkg/session"
)

type Service struct {
	backend   baas.Factory
	transport session.Transport
	cfg       Config
	log       *slog.Logger

	verifyPassword bool
	bcryptCost     int
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPasswordVerification stores a bcrypt hash of the password at
// registration and checks it on sign-in before a passcode is issued.
func WithPasswordVerification() Option {
	return func(s *Service) { s.verifyPassword = true }
}

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func New(backend baas.Factory, transport session.Transport, cfg Config, opts ...Option) (*Service, error) {
	if backend == nil || transport == nil {
		return nil, ErrNoBackend
	}
	if cfg.DatabaseID == "" || cfg.CollectionID == "" {
		return nil, ErrInvalidConfig
	}

	s := &Service{
		backend:   backend,
		transport: transport,
		cfg:       cfg,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("users"))
	return s, nil
}
