package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/logger"
)

// GetCurrentUser resolves the user behind the request's session cookie. It
// returns ErrNoSession when there is no cookie or the platform rejects it,
// and (nil, nil) when the account has no user document.
func (s *Service) GetCurrentUser(ctx context.Context, r *http.Request) (_ *User, err error) {
	ctx, span := startSpan(ctx, "users.current")
	defer func() { endSpan(span, err) }()

	client, err := s.sessionClient(ctx, r)
	if errors.Is(err, ErrNoSession) {
		return nil, err
	}
	if err != nil {
		return nil, s.handleError(ctx, ErrGetUser, err)
	}

	acct, err := client.Account.Get(ctx)
	if errors.Is(err, baas.ErrUnauthorized) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, s.handleError(ctx, ErrGetUser, err)
	}

	user, err := s.findOne(ctx, client, baas.Equal("accountId", acct.ID))
	if err != nil {
		return nil, s.handleError(ctx, ErrGetUser, err, logger.AccountID(acct.ID))
	}
	return user, nil
}

// SignOutUser deletes the current session on the platform and then clears
// the cookie. The cookie stays when the delete fails.
func (s *Service) SignOutUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
	ctx, span := startSpan(ctx, "users.sign_out")
	defer func() {
		signOuts.WithLabelValues(result(err)).Inc()
		endSpan(span, err)
	}()

	client, err := s.sessionClient(ctx, r)
	if err != nil {
		return s.handleError(ctx, ErrSignOut, err)
	}
	if err := client.Account.DeleteSession(ctx, baas.CurrentSession); err != nil {
		if errors.Is(err, baas.ErrUnauthorized) {
			err = ErrNoSession
		}
		return s.handleError(ctx, ErrSignOut, err)
	}
	if err := s.transport.ClearToken(w); err != nil {
		return s.handleError(ctx, ErrSignOut, err)
	}
	s.log.InfoContext(ctx, "signed out")
	return nil
}

func (s *Service) sessionClient(ctx context.Context, r *http.Request) (*baas.Client, error) {
	secret, err := s.transport.GetToken(r)
	if err != nil {
		return nil, ErrNoSession
	}
	client, err := s.backend.Session(ctx, secret)
	if errors.Is(err, baas.ErrUnauthorized) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}
