package storage

import (
	"context"
	"sync"

	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]domain.Session
}

// NewMemoryStore constructs an in-memory Store for tests, development, and
// deployments that accept losing sessions on restart.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[int64]domain.Session),
	}
}

func (m *memoryStore) Get(_ context.Context, userID int64) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := session
	return &copied, nil
}

func (m *memoryStore) Put(_ context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.UserID] = *session
	return nil
}

func (m *memoryStore) Reset(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}
