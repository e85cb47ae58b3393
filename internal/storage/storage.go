// Package storage provides the persistent key-value slot store used by the
// viewer. Values are opaque strings; callers own their encoding.
package storage

import "sync"

// KV is a string key-value store. Get reports absence with ok == false and
// a nil error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// Memory is an in-process KV. Nothing survives Close.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get implements KV
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements KV
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Close implements KV
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
	return nil
}

// MemoryPath selects the in-memory store in Open
const MemoryPath = "memory"

// Open returns the store for path: Memory for MemoryPath, SQLite otherwise
func Open(path string) (KV, error) {
	if path == MemoryPath {
		return NewMemory(), nil
	}
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return db, nil
}
