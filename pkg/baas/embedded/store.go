package embedded

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/drive/pkg/baas"
)

const (
	// SystemDatabase holds platform-owned collections; it is not reachable
	// through the databases API.
	SystemDatabase     = "_system"
	AccountsCollection = "_accounts"
)

var (
	ErrDuplicate         = errors.New("embedded: duplicate document")
	ErrDocumentNotFound  = errors.New("embedded: document not found")
	ErrChallengeNotFound = errors.New("embedded: challenge not found")
)

// DocumentStore persists documents. Insert returns ErrDuplicate when the id
// or the document's unique key is already taken within its collection.
type DocumentStore interface {
	Find(ctx context.Context, database, collection string, filters []baas.Filter) ([]baas.Document, error)
	Get(ctx context.Context, database, collection, id string) (*baas.Document, error)
	Insert(ctx context.Context, doc baas.Document) error
}

// UniqueIndex declares that Attribute is unique within a collection. One
// index per collection is supported.
type UniqueIndex struct {
	Database   string
	Collection string
	Attribute  string
}

// AccountsIndex keeps one account per email.
var AccountsIndex = UniqueIndex{Database: SystemDatabase, Collection: AccountsCollection, Attribute: "email"}

// UniqueKey returns the key a store must enforce for doc, or "" when no
// index covers its collection or the attribute is absent.
func UniqueKey(doc baas.Document, indexes []UniqueIndex) string {
	for _, idx := range indexes {
		if idx.Database != doc.Database || idx.Collection != doc.Collection {
			continue
		}
		v, ok := doc.Data[idx.Attribute]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprintf("%s:%v", idx.Attribute, v)
	}
	return ""
}

// Challenge is a pending passcode for an account.
type Challenge struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"code_hash"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (c *Challenge) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ChallengeStore persists challenges. A new challenge for an account replaces
// the previous one. IncrementAttempts must be atomic and return
// ErrChallengeNotFound when no challenge exists.
type ChallengeStore interface {
	SaveChallenge(ctx context.Context, ch Challenge) error
	GetChallenge(ctx context.Context, accountID string) (*Challenge, error)
	IncrementAttempts(ctx context.Context, accountID string) (int, error)
	DeleteChallenge(ctx context.Context, accountID string) error
}
