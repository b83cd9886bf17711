package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/baas/embedded"
	drivemongo "github.com/dmitrymomot/drive/pkg/mongo"
)

// DefaultCollection holds every platform document.
const DefaultCollection = "documents"

type record struct {
	Key        string         `bson:"_id"`
	Database   string         `bson:"database"`
	Collection string         `bson:"collection"`
	ID         string         `bson:"id"`
	Data       map[string]any `bson:"data"`
	UniqueKey  string         `bson:"uniqueKey,omitempty"`
	CreatedAt  time.Time      `bson:"createdAt"`
	UpdatedAt  time.Time      `bson:"updatedAt"`
}

// Store implements embedded.DocumentStore.
type Store struct {
	coll    *mongo.Collection
	indexes []embedded.UniqueIndex
}

func New(db *mongo.Database, indexes ...embedded.UniqueIndex) *Store {
	return &Store{
		coll:    db.Collection(DefaultCollection),
		indexes: append([]embedded.UniqueIndex{embedded.AccountsIndex}, indexes...),
	}
}

// EnsureIndexes creates the uniqueness and lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "database", Value: 1}, {Key: "collection", Value: 1}, {Key: "uniqueKey", Value: 1}},
			Options: options.Index().
				SetName("documents_unique_key").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "uniqueKey", Value: bson.D{{Key: "$type", Value: "string"}}}}),
		},
		{
			Keys:    bson.D{{Key: "database", Value: 1}, {Key: "collection", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("documents_collection"),
		},
	})
	if err != nil {
		return fmt.Errorf("mongostore: create indexes: %w", err)
	}
	return nil
}

func (s *Store) Find(ctx context.Context, database, collection string, filters []baas.Filter) ([]baas.Document, error) {
	filter, err := buildFilter(database, collection, filters)
	if err != nil {
		return nil, err
	}

	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongostore: find documents: %w", err)
	}
	var recs []record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("mongostore: find documents: %w", err)
	}

	out := make([]baas.Document, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.document())
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, database, collection, id string) (*baas.Document, error) {
	var r record
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: recordKey(database, collection, id)}}).Decode(&r)
	if drivemongo.IsNotFoundError(err) {
		return nil, embedded.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongostore: get document: %w", err)
	}
	doc := r.document()
	return &doc, nil
}

func (s *Store) Insert(ctx context.Context, doc baas.Document) error {
	_, err := s.coll.InsertOne(ctx, newRecord(doc, s.indexes))
	if drivemongo.IsDuplicateKeyError(err) {
		return embedded.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("mongostore: insert document: %w", err)
	}
	return nil
}

func recordKey(database, collection, id string) string {
	return database + "/" + collection + "/" + id
}

func newRecord(doc baas.Document, indexes []embedded.UniqueIndex) record {
	data := doc.Data
	if data == nil {
		data = map[string]any{}
	}
	return record{
		Key:        recordKey(doc.Database, doc.Collection, doc.ID),
		Database:   doc.Database,
		Collection: doc.Collection,
		ID:         doc.ID,
		Data:       data,
		UniqueKey:  embedded.UniqueKey(doc, indexes),
		CreatedAt:  doc.CreatedAt.UTC(),
		UpdatedAt:  doc.UpdatedAt.UTC(),
	}
}

func (r record) document() baas.Document {
	return baas.Document{
		ID:         r.ID,
		Database:   r.Database,
		Collection: r.Collection,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
		Data:       r.Data,
	}
}

// buildFilter maps equality filters onto data.<attribute> $in matches.
func buildFilter(database, collection string, filters []baas.Filter) (bson.D, error) {
	filter := bson.D{
		{Key: "database", Value: database},
		{Key: "collection", Value: collection},
	}
	for _, f := range filters {
		if f.Method != baas.MethodEqual {
			return nil, fmt.Errorf("%w: unsupported method %q", baas.ErrInvalidQuery, f.Method)
		}
		values := f.Values
		if values == nil {
			values = []any{}
		}
		filter = append(filter, bson.E{Key: "data." + f.Attribute, Value: bson.D{{Key: "$in", Value: values}}})
	}
	return filter, nil
}
