package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record of an issued secret.
type Session struct {
	ID         string    `json:"id"`
	SecretHash string    `json:"secret_hash"`
	AccountID  string    `json:"account_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// New creates a session for accountID and returns it together with the
// plaintext secret. Only the hash of the secret is kept on the record.
func New(accountID string, ttl time.Duration) (*Session, string, error) {
	secret, err := GenerateSecret()
	if err != nil {
		return nil, "", err
	}
	now := time.Now()
	return &Session{
		ID:         uuid.NewString(),
		SecretHash: HashSecret(secret),
		AccountID:  accountID,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}, secret, nil
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// GenerateSecret returns 32 random bytes encoded as unpadded base64url.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashSecret is the store key for a secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
