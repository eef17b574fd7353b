package store

import (
	"context"
	"sync"

	"github.com/atikulmunna/gastroguard/internal/model"
)

// Memory keeps entries in a slice for the lifetime of the process.
type Memory struct {
	mu      sync.RWMutex
	entries []model.LogEntry
}

// NewMemory returns an empty in-memory store, optionally seeded with a copy
// of seed.
func NewMemory(seed ...model.LogEntry) *Memory {
	return &Memory{entries: append([]model.LogEntry(nil), seed...)}
}

func (m *Memory) Append(_ context.Context, e model.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *Memory) All(_ context.Context) ([]model.LogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.LogEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *Memory) Close() error { return nil }
