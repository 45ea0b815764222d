// Package cache provides byte-level storage for persisted node graphs.
//
// A [Cache] stores opaque documents under string keys with an optional TTL.
// The resolver package writes canonical node documents through it and reads
// them back on lookup. Keys are built by a [Keyer] so different deployments
// can namespace them (see [ScopedKeyer]).
//
// Backends:
//   - [NullCache]: never stores anything
//   - [FileCache]: JSON entries under a local directory, for CLI use
//   - [RedisCache]: a Redis server via go-redis
//   - [MongoCache]: a MongoDB collection via the official driver
//
// All implementations are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for encoded documents.
//
// Get reports a miss with (nil, false, nil); an error means the backend
// could not answer. Backends wrap transient failures with [Retryable] so
// callers can use [RetryWithBackoff]. A zero TTL means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
