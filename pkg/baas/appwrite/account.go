package appwrite

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/drive/pkg/baas"
)

type accountService struct {
	t *transport
}

func (s *accountService) CreateEmailToken(ctx context.Context, userID, email string) (*baas.Token, error) {
	var token baas.Token
	body := map[string]any{"userId": userID, "email": email}
	if err := s.t.call(ctx, http.MethodPost, "/account/tokens/email", nil, body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *accountService) CreateSession(ctx context.Context, userID, secret string) (*baas.Session, error) {
	var sess baas.Session
	body := map[string]any{"userId": userID, "secret": secret}
	if err := s.t.call(ctx, http.MethodPost, "/account/sessions/token", nil, body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *accountService) Get(ctx context.Context) (*baas.Account, error) {
	var acct baas.Account
	if err := s.t.call(ctx, http.MethodGet, "/account", nil, nil, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (s *accountService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.t.call(ctx, http.MethodDelete, "/account/sessions/"+url.PathEscape(sessionID), nil, nil, nil)
}
