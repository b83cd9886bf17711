package baas

import (
	"context"
	"time"
)

const (
	// UniqueID asks the platform to generate an identifier.
	UniqueID = "unique()"
	// CurrentSession addresses the session the client was built with.
	CurrentSession = "current"
)

// Token is a pending email passcode challenge. Secret is empty for email
// tokens: the passcode is delivered out of band.
type Token struct {
	ID     string    `json:"$id"`
	UserID string    `json:"userId"`
	Secret string    `json:"secret"`
	Expire time.Time `json:"expire"`
}

// Session is an authenticated session. Secret is only returned to admin
// clients at creation time.
type Session struct {
	ID      string    `json:"$id"`
	UserID  string    `json:"userId"`
	Secret  string    `json:"secret"`
	Expire  time.Time `json:"expire"`
	Current bool      `json:"current"`
}

type Account struct {
	ID                string    `json:"$id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	EmailVerification bool      `json:"emailVerification"`
	CreatedAt         time.Time `json:"$createdAt"`
}

// AccountService is the account API.
type AccountService interface {
	CreateEmailToken(ctx context.Context, userID, email string) (*Token, error)
	CreateSession(ctx context.Context, userID, secret string) (*Session, error)
	Get(ctx context.Context) (*Account, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// DatabaseService is the document database API.
type DatabaseService interface {
	ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) (*DocumentList, error)
	CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*Document, error)
}

// Client groups the services available to one principal.
type Client struct {
	Account   AccountService
	Databases DatabaseService
}

// Factory builds clients. Implementations must be safe for concurrent use.
type Factory interface {
	Admin(ctx context.Context) (*Client, error)
	Session(ctx context.Context, secret string) (*Client, error)
}
