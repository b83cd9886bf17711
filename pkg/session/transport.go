package session

import (
	"net/http"
	"slices"
	"time"

	"github.com/dmitrymomot/drive/pkg/cookie"
)

// DefaultCookieName matches the cookie name browser SDKs of the platform use.
const DefaultCookieName = "appwrite-session"

// Transport carries the session secret between client and server.
type Transport interface {
	GetToken(r *http.Request) (string, error)
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error
	ClearToken(w http.ResponseWriter) error
}

// CookieTransport stores the secret in a plain cookie. The value is already
// an opaque high-entropy secret so it is not encrypted again.
type CookieTransport struct {
	cookies *cookie.Manager
	name    string
	options []cookie.Option
}

// NewCookieTransport creates a transport writing the named cookie. The
// Path=/, HttpOnly, SameSite=Strict and Secure attributes are always set;
// opts may add a domain.
func NewCookieTransport(cookies *cookie.Manager, name string, opts ...cookie.Option) *CookieTransport {
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieTransport{cookies: cookies, name: name, options: opts}
}

func (t *CookieTransport) Name() string {
	return t.name
}

func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	token, err := t.cookies.Get(r, t.name)
	if err != nil || token == "" {
		return "", ErrSessionNotFound
	}
	return token, nil
}

// SetToken writes the cookie. A zero ttl produces a browser-session cookie.
func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	if token == "" {
		return ErrInvalidSession
	}
	t.cookies.Set(w, t.name, token, t.fixed(cookie.WithMaxAge(int(ttl.Seconds())))...)
	return nil
}

func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	t.cookies.Delete(w, t.name, t.fixed()...)
	return nil
}

func (t *CookieTransport) fixed(extra ...cookie.Option) []cookie.Option {
	return slices.Concat(t.options, extra, []cookie.Option{
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
		cookie.WithSecure(true),
	})
}
