package kvstore

import (
	"context"
	"sync"

	"rcvault/pkg/platform/sentinel"
)

// Memory is an in-memory Store. It keeps unit tests and local development
// lightweight and intentionally favors clarity over performance.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if value, ok := m.entries[key]; ok {
		return value, nil
	}
	return "", sentinel.ErrNotFound
}

func (m *Memory) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
