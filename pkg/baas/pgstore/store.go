package pgstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/baas/embedded"
	"github.com/dmitrymomot/drive/pkg/pg"
)

// querier is satisfied by *pgxpool.Pool and pgxmock pools.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements embedded.DocumentStore.
type Store struct {
	db      querier
	indexes []embedded.UniqueIndex
}

func New(db querier, indexes ...embedded.UniqueIndex) *Store {
	return &Store{
		db:      db,
		indexes: append([]embedded.UniqueIndex{embedded.AccountsIndex}, indexes...),
	}
}

const selectColumns = `SELECT id, data, created_at, updated_at FROM documents`

func (s *Store) Find(ctx context.Context, database, collection string, filters []baas.Filter) ([]baas.Document, error) {
	where, args, err := buildWhere(database, collection, filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, selectColumns+" WHERE "+where+" ORDER BY created_at, id", args...)
	if err != nil {
		return nil, fmt.Errorf("pgstore: find documents: %w", err)
	}
	defer rows.Close()

	var out []baas.Document
	for rows.Next() {
		doc, err := scanDocument(rows, database, collection)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: find documents: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, database, collection, id string) (*baas.Document, error) {
	row := s.db.QueryRow(ctx,
		selectColumns+` WHERE database_id = $1 AND collection_id = $2 AND id = $3`,
		database, collection, id)

	doc, err := scanDocument(row, database, collection)
	if pg.IsNotFoundError(err) {
		return nil, embedded.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) Insert(ctx context.Context, doc baas.Document) error {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("pgstore: encode document: %w", err)
	}

	var uniqueKey *string
	if k := embedded.UniqueKey(doc, s.indexes); k != "" {
		uniqueKey = &k
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO documents (database_id, collection_id, id, data, unique_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		doc.Database, doc.Collection, doc.ID, data, uniqueKey, doc.CreatedAt, doc.UpdatedAt)
	if pg.IsDuplicateKeyError(err) {
		return embedded.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("pgstore: insert document: %w", err)
	}
	return nil
}

// buildWhere turns equality filters into jsonb containment checks. Values of
// one filter are OR-ed; filters are AND-ed.
func buildWhere(database, collection string, filters []baas.Filter) (string, []any, error) {
	args := []any{database, collection}
	clauses := []string{"database_id = $1", "collection_id = $2"}

	for _, f := range filters {
		if f.Method != baas.MethodEqual {
			return "", nil, fmt.Errorf("%w: unsupported method %q", baas.ErrInvalidQuery, f.Method)
		}
		if len(f.Values) == 0 {
			clauses = append(clauses, "FALSE")
			continue
		}
		alts := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			b, err := json.Marshal(map[string]any{f.Attribute: v})
			if err != nil {
				return "", nil, fmt.Errorf("%w: %v", baas.ErrInvalidQuery, err)
			}
			args = append(args, b)
			alts = append(alts, "data @> $"+strconv.Itoa(len(args)))
		}
		clauses = append(clauses, "("+strings.Join(alts, " OR ")+")")
	}
	return strings.Join(clauses, " AND "), args, nil
}

func scanDocument(row pgx.Row, database, collection string) (baas.Document, error) {
	var (
		doc     baas.Document
		raw     []byte
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&doc.ID, &raw, &created, &updated); err != nil {
		if pg.IsNotFoundError(err) {
			return doc, err
		}
		return doc, fmt.Errorf("pgstore: scan document: %w", err)
	}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return doc, fmt.Errorf("pgstore: decode document: %w", err)
	}
	doc.Database = database
	doc.Collection = collection
	doc.CreatedAt = created.UTC()
	doc.UpdatedAt = updated.UTC()
	return doc, nil
}
