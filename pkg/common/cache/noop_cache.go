package cache

import (
	"context"
	"time"
)

// NoOpCache is a Cache that stores nothing. Used for graceful degradation
// when no cache backend is configured.
type NoOpCache struct{}

// NewNoOpCache creates a no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always reports a miss.
func (*NoOpCache) Get(context.Context, string, any) error {
	return ErrNotFound
}

// Set discards the value.
func (*NoOpCache) Set(context.Context, string, any, time.Duration) error {
	return nil
}

// Delete does nothing.
func (*NoOpCache) Delete(context.Context, string) error {
	return nil
}

// Exists always reports false.
func (*NoOpCache) Exists(context.Context, string) (bool, error) {
	return false, nil
}

// Flush does nothing.
func (*NoOpCache) Flush(context.Context) error {
	return nil
}

// Close does nothing.
func (*NoOpCache) Close() error {
	return nil
}
