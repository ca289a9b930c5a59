package resultcache

import (
	"context"
	"sync"
)

// MemoryStore keeps payloads in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (m *MemoryStore) Put(_ context.Context, sessionID string, payload []byte) error {
	cp := append([]byte(nil), payload...)
	m.mu.Lock()
	m.slots[sessionID] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) ([]byte, error) {
	m.mu.RLock()
	payload, ok := m.slots[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrEmpty
	}
	return append([]byte(nil), payload...), nil
}

func (m *MemoryStore) Close() error { return nil }
