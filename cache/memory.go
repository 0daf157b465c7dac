package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-memory cache for single-instance deployments. Expired
// entries are dropped lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	config  Config
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(config Config) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*Entry),
		config:  applyDefaults(config),
	}
}

// Get retrieves an entry, or (nil, nil) on miss or expiry.
func (m *MemoryCache) Get(_ context.Context, key string) (*Entry, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if entry.IsExpired() {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, nil
	}
	return entry, nil
}

// Set stores an entry, stamping it with the configured TTL when unset.
func (m *MemoryCache) Set(_ context.Context, entry *Entry) error {
	if entry.TTL == 0 {
		entry.TTL = m.config.TTL
	}
	if entry.StoredAt.IsZero() {
		entry.StoredAt = time.Now()
	}

	m.mu.Lock()
	m.entries[entry.Key] = entry
	m.mu.Unlock()
	return nil
}

// Delete removes an entry.
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Close is a no-op for the in-memory cache.
func (m *MemoryCache) Close() error {
	return nil
}
