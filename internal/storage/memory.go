package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/dungeonforge/crawl-engine/pkg/game"
)

// MemoryStorage is an in-process Storage for tests and local development.
// Sessions are stored as serialized JSON so load/save round-trips behave
// like the Redis implementation.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{sessions: make(map[uuid.UUID][]byte)}
}

func (m *MemoryStorage) Ping(ctx context.Context) error { return nil }

func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) SaveSession(ctx context.Context, s *game.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = data
	return nil
}

func (m *MemoryStorage) LoadSession(ctx context.Context, id uuid.UUID) (*game.Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var s game.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
