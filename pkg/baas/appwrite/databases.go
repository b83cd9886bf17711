package appwrite

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/drive/pkg/baas"
)

type databaseService struct {
	t *transport
}

func documentsPath(databaseID, collectionID string) string {
	return "/databases/" + url.PathEscape(databaseID) + "/collections/" + url.PathEscape(collectionID) + "/documents"
}

func (s *databaseService) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...baas.Query) (*baas.DocumentList, error) {
	q := url.Values{}
	for _, query := range queries {
		q.Add("queries[]", string(query))
	}

	var list baas.DocumentList
	if err := s.t.call(ctx, http.MethodGet, documentsPath(databaseID, collectionID), q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *databaseService) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*baas.Document, error) {
	var doc baas.Document
	body := map[string]any{"documentId": documentID, "data": data}
	if err := s.t.call(ctx, http.MethodPost, documentsPath(databaseID, collectionID), nil, body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
