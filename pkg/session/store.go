package session

import "context"

// Store persists sessions keyed by secret hash.
type Store interface {
	Create(ctx context.Context, session *Session) error
	// Get returns ErrSessionNotFound or ErrSessionExpired when the hash has
	// no live session.
	Get(ctx context.Context, secretHash string) (*Session, error)
	Delete(ctx context.Context, secretHash string) error
	DeleteExpired(ctx context.Context) error
}
