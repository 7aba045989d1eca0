// Package cache provides a small JSON cache abstraction. The Redis
// implementation backs production; an in-memory implementation serves tests.
// Entries expire by TTL only, the cache is never invalidated explicitly.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by GetJSON when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores JSON-encoded values under string keys with a TTL.
type Cache interface {
	// GetJSON retrieves the value stored under key and unmarshals it into
	// target. Returns ErrCacheMiss if the key is absent or expired.
	GetJSON(ctx context.Context, key string, target any) error

	// SetJSON marshals value as JSON and stores it under key for ttl.
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}
