package cache

import (
	"context"
	"time"
)

// Entry is one cached outline result, keyed by arXiv ID.
type Entry struct {
	Key      string        `json:"key"`
	Data     []byte        `json:"data"`
	StoredAt time.Time     `json:"stored_at"`
	TTL      time.Duration `json:"ttl"`
}

// IsExpired returns true once the entry is past its TTL.
func (e *Entry) IsExpired() bool {
	return time.Since(e.StoredAt) >= e.TTL
}

// Cache stores extracted outline results. Implementations must treat a miss
// as (nil, nil), not an error.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config holds cache configuration shared by implementations.
type Config struct {
	Prefix string
	TTL    time.Duration
}

// DefaultConfig returns a cache config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Prefix: "paperoutline:",
		TTL:    24 * time.Hour,
	}
}

// applyDefaults fills zero-valued fields from DefaultConfig.
func applyDefaults(config Config) Config {
	defaults := DefaultConfig()
	if config.Prefix == "" {
		config.Prefix = defaults.Prefix
	}
	if config.TTL == 0 {
		config.TTL = defaults.TTL
	}
	return config
}
