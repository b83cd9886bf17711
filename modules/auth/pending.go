package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/drive/pkg/cookie"
)

const (
	PendingCookieName = "auth-pending"
	pendingTTL        = 15 * time.Minute
)

var errNoPending = errors.New("auth: no pending verification")

// pending is the passcode challenge the browser is answering.
type pending struct {
	AccountID string   `json:"a"`
	Email     string   `json:"e"`
	Form      FormType `json:"f"`
}

func (s *Service) setPending(w http.ResponseWriter, p pending) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.cookies.SetEncrypted(w, PendingCookieName, string(b),
		cookie.WithMaxAge(int(pendingTTL.Seconds())),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
	)
}

func (s *Service) getPending(r *http.Request) (pending, error) {
	raw, err := s.cookies.GetEncrypted(r, PendingCookieName)
	if err != nil {
		return pending{}, errNoPending
	}
	var p pending
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.AccountID == "" || p.Email == "" {
		return pending{}, errNoPending
	}
	return p, nil
}

func (s *Service) clearPending(w http.ResponseWriter) {
	s.cookies.Delete(w, PendingCookieName)
}
