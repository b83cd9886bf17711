package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"
)

const minSecretLength = 32

// Manager writes cookies with shared default attributes.
type Manager struct {
	keys     [][]byte // AES-256 keys derived from the configured secrets
	defaults Options
}

// New creates a Manager. At least one secret of 32+ characters is required.
// Defaults are Path=/ and HttpOnly with SameSite=Lax unless overridden.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([][]byte, 0, len(secrets))
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		sum := sha256.Sum256([]byte(s))
		keys = append(keys, sum[:])
	}

	return &Manager{
		keys: keys,
		defaults: apply(Options{
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}, opts),
	}, nil
}

// Defaults returns the attributes applied to every cookie.
func (m *Manager) Defaults() Options {
	return m.defaults
}

func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	o := apply(m.defaults, opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires the cookie. Path and Domain must match the ones it was set
// with, so pass the same options used on Set if they differ from defaults.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	o := apply(m.defaults, opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
}

// SetEncrypted stores value encrypted with the primary secret.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, opts ...Option) error {
	enc, err := m.encrypt([]byte(value))
	if err != nil {
		return err
	}
	m.Set(w, name, enc, opts...)
	return nil
}

// GetEncrypted reads and decrypts a cookie written by SetEncrypted.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	enc, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	plain, err := m.decrypt(enc)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (m *Manager) encrypt(plain []byte) (string, error) {
	gcm, err := newGCM(m.keys[0])
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	// nonce is prepended so the value is self-contained
	return base64.RawURLEncoding.EncodeToString(gcm.Seal(nonce, nonce, plain, nil)), nil
}

func (m *Manager) decrypt(enc string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	for _, key := range m.keys {
		gcm, err := newGCM(key)
		if err != nil {
			continue
		}
		if len(raw) < gcm.NonceSize() {
			return nil, ErrInvalidFormat
		}
		nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
		if plain, err := gcm.Open(nil, nonce, sealed, nil); err == nil {
			return plain, nil
		}
	}
	return nil, ErrDecryptionFailed
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
