package cache

import (
	"encoding/json"
	"sync"

	"marcenaria_pro/internal/usecase/interfaces"
)

// Memory is the process-local key-value mirror of selected store records,
// used for offline resilience and optimistic reads. Values are JSON payloads;
// writes are last-write-wins with no versioning.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

var _ interfaces.ILocalCache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: map[string]json.RawMessage{}}
}

func (m *Memory) Get(key string) (json.RawMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out, true
}

func (m *Memory) Set(key string, value json.RawMessage) {
	stored := make(json.RawMessage, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = stored
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Len reports the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
