package embedded

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/dmitrymomot/drive/pkg/baas"
)

// MemoryDocuments is a DocumentStore kept in process memory.
type MemoryDocuments struct {
	mu      sync.RWMutex
	indexes []UniqueIndex
	docs    map[string][]baas.Document // by database/collection, insertion order
	ids     map[string]struct{}
	unique  map[string]struct{}
}

func NewMemoryDocuments(indexes ...UniqueIndex) *MemoryDocuments {
	return &MemoryDocuments{
		indexes: append([]UniqueIndex{AccountsIndex}, indexes...),
		docs:    make(map[string][]baas.Document),
		ids:     make(map[string]struct{}),
		unique:  make(map[string]struct{}),
	}
}

func collectionKey(database, collection string) string {
	return database + "/" + collection
}

func (m *MemoryDocuments) Find(_ context.Context, database, collection string, filters []baas.Filter) ([]baas.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []baas.Document
	for _, doc := range m.docs[collectionKey(database, collection)] {
		if matchAll(doc.Data, filters) {
			out = append(out, cloneDocument(doc))
		}
	}
	return out, nil
}

func (m *MemoryDocuments) Get(_ context.Context, database, collection, id string) (*baas.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.docs[collectionKey(database, collection)] {
		if doc.ID == id {
			d := cloneDocument(doc)
			return &d, nil
		}
	}
	return nil, ErrDocumentNotFound
}

func (m *MemoryDocuments) Insert(_ context.Context, doc baas.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ck := collectionKey(doc.Database, doc.Collection)
	idKey := ck + "#" + doc.ID
	if _, taken := m.ids[idKey]; taken {
		return ErrDuplicate
	}
	var uk string
	if key := UniqueKey(doc, m.indexes); key != "" {
		uk = ck + "#" + key
		if _, taken := m.unique[uk]; taken {
			return ErrDuplicate
		}
	}

	m.ids[idKey] = struct{}{}
	if uk != "" {
		m.unique[uk] = struct{}{}
	}
	m.docs[ck] = append(m.docs[ck], cloneDocument(doc))
	return nil
}

func matchAll(data map[string]any, filters []baas.Filter) bool {
	for _, f := range filters {
		if !f.Match(data) {
			return false
		}
	}
	return true
}

func cloneDocument(doc baas.Document) baas.Document {
	doc.Data = maps.Clone(doc.Data)
	return doc
}

// MemoryChallenges is a ChallengeStore kept in process memory. Expired
// entries are dropped lazily on access.
type MemoryChallenges struct {
	mu         sync.Mutex
	now        func() time.Time
	challenges map[string]Challenge
}

func NewMemoryChallenges() *MemoryChallenges {
	return &MemoryChallenges{
		now:        time.Now,
		challenges: make(map[string]Challenge),
	}
}

func (m *MemoryChallenges) SaveChallenge(_ context.Context, ch Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challenges[ch.AccountID] = ch
	return nil
}

func (m *MemoryChallenges) GetChallenge(_ context.Context, accountID string) (*Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.challenges[accountID]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	if ch.IsExpired(m.now()) {
		delete(m.challenges, accountID)
		return nil, ErrChallengeNotFound
	}
	return &ch, nil
}

func (m *MemoryChallenges) IncrementAttempts(_ context.Context, accountID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.challenges[accountID]
	if !ok {
		return 0, ErrChallengeNotFound
	}
	ch.Attempts++
	m.challenges[accountID] = ch
	return ch.Attempts, nil
}

func (m *MemoryChallenges) DeleteChallenge(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.challenges, accountID)
	return nil
}
