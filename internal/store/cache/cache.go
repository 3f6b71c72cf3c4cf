package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// CacheService defines the interface for the aggregate result cache.
type CacheService interface {
	// Get retrieves a value from the cache and unmarshals it into dest.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set marshals value and stores it with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error
}
