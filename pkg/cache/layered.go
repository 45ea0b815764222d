package cache

import (
	"context"
	"time"

	"go.uber.org/multierr"
)

// Layered reads through a list of caches, nearest first. A hit in a later
// layer is copied into the earlier ones with the layer's TTL. Writes and
// deletes go to every layer.
type Layered struct {
	layers []Cache
	ttl    time.Duration
}

// NewLayered creates a layered cache. backfillTTL is used when copying a hit
// into nearer layers.
func NewLayered(backfillTTL time.Duration, layers ...Cache) *Layered {
	return &Layered{layers: layers, ttl: backfillTTL}
}

// Get returns the first hit. Errors from a layer are returned immediately.
func (c *Layered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	for i, l := range c.layers {
		data, hit, err := l.Get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if !hit {
			continue
		}
		for _, near := range c.layers[:i] {
			_ = near.Set(ctx, key, data, c.ttl)
		}
		return data, true, nil
	}
	return nil, false, nil
}

// Set writes to every layer and reports every failure.
func (c *Layered) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var err error
	for _, l := range c.layers {
		err = multierr.Append(err, l.Set(ctx, key, data, ttl))
	}
	return err
}

// Delete removes key from every layer.
func (c *Layered) Delete(ctx context.Context, key string) error {
	var err error
	for _, l := range c.layers {
		err = multierr.Append(err, l.Delete(ctx, key))
	}
	return err
}

// Close closes every layer.
func (c *Layered) Close() error {
	var err error
	for _, l := range c.layers {
		err = multierr.Append(err, l.Close())
	}
	return err
}

var _ Cache = (*Layered)(nil)
