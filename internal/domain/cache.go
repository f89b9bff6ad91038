package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the port implemented by the Redis adapter.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites any existing item. An expiration of 0 keeps the item indefinitely.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete does not fail when the key is absent.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// HIncrByWithExpire adds incr to a hash field and refreshes the key's TTL in one
	// transaction, returning the new value. An expiration of 0 leaves the TTL untouched.
	HIncrByWithExpire(ctx context.Context, key, field string, incr int64, expiration time.Duration) (int64, error)

	// HSetWithExpire sets a hash field and refreshes the key's TTL in one transaction.
	HSetWithExpire(ctx context.Context, key, field, value string, expiration time.Duration) error
}
