package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     map[string]any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Memory is an in-process Cache. Expired entries are dropped lazily.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	nowFunc func() time.Time
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: map[string]entry{}, nowFunc: time.Now}
}

func (m *Memory) lookup(key string) (entry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return entry{}, false
	}
	if e.expired(m.nowFunc()) {
		delete(m.entries, key)
		return entry{}, false
	}
	return e, true
}

func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lookup(key)
	return ok, nil
}

func (m *Memory) Get(_ context.Context, key string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.lookup(key)
	if !ok {
		return nil, ErrNotFound
	}
	return e.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value map[string]any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, expiresAt: expiry(m.nowFunc(), ttl)}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string]entry{}
	return nil
}

func (m *Memory) GetMultiple(_ context.Context, keys []string) (map[string]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]map[string]any, len(keys))
	for _, k := range keys {
		if e, ok := m.lookup(k); ok {
			out[k] = e.value
		}
	}
	return out, nil
}

func (m *Memory) SetMultiple(_ context.Context, values map[string]map[string]any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp := expiry(m.nowFunc(), ttl)
	for k, v := range values {
		m.entries[k] = entry{value: v, expiresAt: exp}
	}
	return nil
}

func (m *Memory) DeleteMultiple(_ context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}
