package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. With backend "none" every canonical node lookup
// misses, so documents can be encoded but deferred records never resolve.
type NullCache struct{}

// NewNullCache returns a cache that drops every write.
func NewNullCache() *NullCache { return &NullCache{} }

// Get reports a miss for every key.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
