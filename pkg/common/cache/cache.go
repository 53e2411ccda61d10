// Package cache provides the shared cache contract used by kernel
// components, with redis, in-memory, and no-op implementations.
//
// Authorization decisions never go through a cache: permission resolution
// is recomputed on every check. The cache backs best-effort concerns such
// as login throttling state.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is not present in the cache.
var ErrNotFound = errors.New("key not found in cache")

// Cache defines caching operations. Values are JSON-serialized, so Get
// takes a pointer to unmarshal into.
type Cache interface {
	Get(ctx context.Context, key string, value any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Flush(ctx context.Context) error
	Close() error
}
