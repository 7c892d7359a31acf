package store

import (
	"context"
	"sort"
	"sync"
)

type memoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
	*notifier
}

// NewMemoryStorage returns a [KeyValueStorage] that keeps everything in
// process memory.
func NewMemoryStorage() KeyValueStorage {
	return &memoryStorage{
		values:   make(map[string]string),
		notifier: newNotifier(),
	}
}

func (m *memoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *memoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()

	m.publish(Change{Key: key, Value: value})
	return nil
}

func (m *memoryStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()

	m.publish(Change{Key: key, Removed: true})
	return nil
}

func (m *memoryStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	m.values = make(map[string]string)
	m.mu.Unlock()

	for _, k := range keys {
		m.publish(Change{Key: k, Removed: true})
	}
	return nil
}

func (m *memoryStorage) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryStorage) Subscribe() (<-chan Change, func()) {
	return m.subscribe()
}
