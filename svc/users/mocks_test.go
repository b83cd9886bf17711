package users_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/drive/pkg/baas"
)

type mockFactory struct {
	mock.Mock
}

func (m *mockFactory) Admin(ctx context.Context) (*baas.Client, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(*baas.Client)
	return c, args.Error(1)
}

func (m *mockFactory) Session(ctx context.Context, secret string) (*baas.Client, error) {
	args := m.Called(ctx, secret)
	c, _ := args.Get(0).(*baas.Client)
	return c, args.Error(1)
}

type mockAccount struct {
	mock.Mock
}

func (m *mockAccount) CreateEmailToken(ctx context.Context, userID, email string) (*baas.Token, error) {
	args := m.Called(ctx, userID, email)
	t, _ := args.Get(0).(*baas.Token)
	return t, args.Error(1)
}

func (m *mockAccount) CreateSession(ctx context.Context, userID, secret string) (*baas.Session, error) {
	args := m.Called(ctx, userID, secret)
	s, _ := args.Get(0).(*baas.Session)
	return s, args.Error(1)
}

func (m *mockAccount) Get(ctx context.Context) (*baas.Account, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).(*baas.Account)
	return a, args.Error(1)
}

func (m *mockAccount) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockDatabases struct {
	mock.Mock
}

func (m *mockDatabases) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...baas.Query) (*baas.DocumentList, error) {
	args := m.Called(ctx, databaseID, collectionID, queries)
	l, _ := args.Get(0).(*baas.DocumentList)
	return l, args.Error(1)
}

func (m *mockDatabases) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*baas.Document, error) {
	args := m.Called(ctx, databaseID, collectionID, documentID, data)
	d, _ := args.Get(0).(*baas.Document)
	return d, args.Error(1)
}

// backend wires one set of service mocks behind both client kinds.
type backend struct {
	factory   *mockFactory
	account   *mockAccount
	databases *mockDatabases
}

func newBackend() *backend {
	b := &backend{
		factory:   &mockFactory{},
		account:   &mockAccount{},
		databases: &mockDatabases{},
	}
	client := &baas.Client{Account: b.account, Databases: b.databases}
	b.factory.On("Admin", mock.Anything).Return(client, nil).Maybe()
	b.factory.On("Session", mock.Anything, mock.Anything).Return(client, nil).Maybe()
	return b
}

func (b *backend) assertExpectations(t mock.TestingT) {
	b.account.AssertExpectations(t)
	b.databases.AssertExpectations(t)
}

func userDocs(docs ...baas.Document) *baas.DocumentList {
	return &baas.DocumentList{Total: len(docs), Documents: docs}
}

func userDoc(id, email, accountID string) baas.Document {
	return baas.Document{
		ID:         id,
		Database:   "main",
		Collection: "users",
		Data: map[string]any{
			"firstName": "Jane",
			"lastName":  "Doe",
			"email":     email,
			"accountId": accountID,
		},
	}
}
