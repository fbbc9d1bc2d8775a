package sessions

import (
	"sync"
)

const (
	TokenKey   = "token"
	ProfileKey = "user"
)

// Storage is a string key/value store holding the auth token and profile.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Clear() error
}

// MemoryStorage backs the CLI and tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage(initial map[string]string) *MemoryStorage {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryStorage{values: values}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}
