package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryAdapter keeps slice documents in memory.
type MemoryAdapter struct {
	mu     sync.RWMutex
	data   map[string]json.RawMessage
	closed bool
}

var _ Adapter = (*MemoryAdapter)(nil)

// NewMemoryAdapter creates a new in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		data: make(map[string]json.RawMessage),
	}
}

// Get retrieves one slice document.
func (m *MemoryAdapter) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrAdapterClosed
	}
	v, ok := m.data[key]
	return cloneRaw(v), ok, nil
}

// Put stores one slice document.
func (m *MemoryAdapter) Put(_ context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrAdapterClosed
	}
	m.data[key] = cloneRaw(value)
	return nil
}

// Delete removes a slice document.
func (m *MemoryAdapter) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrAdapterClosed
	}
	delete(m.data, key)
	return nil
}

// Load retrieves every stored document.
func (m *MemoryAdapter) Load(_ context.Context) (map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrAdapterClosed
	}
	result := make(map[string]json.RawMessage, len(m.data))
	for k, v := range m.data {
		result[k] = cloneRaw(v)
	}
	return result, nil
}

// Save replaces all documents.
func (m *MemoryAdapter) Save(_ context.Context, data map[string]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrAdapterClosed
	}
	m.data = make(map[string]json.RawMessage, len(data))
	for k, v := range data {
		m.data[k] = cloneRaw(v)
	}
	return nil
}

// Close marks the adapter closed.
func (m *MemoryAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func cloneRaw(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	return append(json.RawMessage(nil), v...)
}
