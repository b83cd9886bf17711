package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// NewMemoryStore creates a store. A positive cleanupInterval starts a
// goroutine that drops expired sessions; stop it with Close.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]Session),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

func (m *MemoryStore) Create(_ context.Context, session *Session) error {
	if session == nil || session.SecretHash == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.SecretHash] = *session
	return nil
}

func (m *MemoryStore) Get(_ context.Context, secretHash string) (*Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[secretHash]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		m.mu.Lock()
		delete(m.sessions, secretHash)
		m.mu.Unlock()
		return nil, ErrSessionExpired
	}

	return &session, nil
}

func (m *MemoryStore) Delete(_ context.Context, secretHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, secretHash)
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for hash, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, hash)
		}
	}

	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
			close(m.done)
		}
	})
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
