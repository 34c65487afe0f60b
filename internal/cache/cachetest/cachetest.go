// Package cachetest provides an in-process cache.Cache for service tests.
package cachetest

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory stores values JSON-encoded, like the redis cache, without expiry.
type Memory struct {
	mu    sync.Mutex
	items map[string][]byte
	hits  int
}

func New() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return false, nil
	}
	m.hits++
	return true, json.Unmarshal(raw, dst)
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Hits reports how many Get calls found a value.
func (m *Memory) Hits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}

// Has reports whether key is stored.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}
