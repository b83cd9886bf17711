package embedded

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/drive/pkg/baas"
)

type databases struct {
	p *Platform
}

func checkDatabase(databaseID string) error {
	if databaseID == "" || strings.HasPrefix(databaseID, "_") {
		return baas.NewError(http.StatusNotFound, "database_not_found", "Database not found")
	}
	return nil
}

func (d *databases) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...baas.Query) (*baas.DocumentList, error) {
	if err := checkDatabase(databaseID); err != nil {
		return nil, err
	}

	filters := make([]baas.Filter, 0, len(queries))
	for _, q := range queries {
		f, err := q.Parse()
		if err != nil {
			return nil, baas.NewError(http.StatusBadRequest, "general_query_invalid", err.Error())
		}
		if f.Method != baas.MethodEqual {
			return nil, baas.NewError(http.StatusBadRequest, "general_query_invalid", "Unsupported query method: "+f.Method)
		}
		filters = append(filters, f)
	}

	docs, err := d.p.docs.Find(ctx, databaseID, collectionID, filters)
	if err != nil {
		return nil, errInternal("list documents", err)
	}
	return &baas.DocumentList{Total: len(docs), Documents: docs}, nil
}

func (d *databases) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*baas.Document, error) {
	if err := checkDatabase(databaseID); err != nil {
		return nil, err
	}

	now := d.p.now().UTC()
	doc := baas.Document{
		ID:         newID(documentID),
		Database:   databaseID,
		Collection: collectionID,
		CreatedAt:  now,
		UpdatedAt:  now,
		Data:       data,
	}
	if err := d.p.docs.Insert(ctx, doc); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, baas.NewError(http.StatusConflict, baas.TypeDocumentAlreadyExists, "Document with the requested ID already exists. Try again with a different ID or use ID.unique() to generate a unique ID.")
		}
		return nil, errInternal("create document", err)
	}
	return &doc, nil
}
