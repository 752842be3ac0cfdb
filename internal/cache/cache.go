// Package cache holds decoded FNE API results keyed by a digest of the
// certified document, so an identical document is not certified twice
// within the TTL.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for a missing or expired key.
var ErrNotFound = errors.New("cache: key not found")

// Forever stores an entry without expiry. A zero ttl means the same.
const Forever time.Duration = 0

// Cache stores decoded API results. Implementations are safe for concurrent
// use.
type Cache interface {
	Has(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (map[string]any, error)
	Set(ctx context.Context, key string, value map[string]any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error

	// GetMultiple returns the entries found; missing keys are absent from
	// the result.
	GetMultiple(ctx context.Context, keys []string) (map[string]map[string]any, error)
	SetMultiple(ctx context.Context, values map[string]map[string]any, ttl time.Duration) error
	DeleteMultiple(ctx context.Context, keys []string) error
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
