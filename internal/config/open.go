package config

import (
	"context"
	"fmt"

	"github.com/matzehuels/nodegraph/pkg/cache"
)

// OpenCache opens the configured cache backend. With Layered set, a file
// cache sits in front of the redis or mongo backend and is backfilled on
// remote hits.
func (c *CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendFile:
		return cache.NewFileCache(c.Dir)
	}

	remote, err := c.openRemote(ctx)
	if err != nil {
		return nil, err
	}
	if !c.Layered {
		return remote, nil
	}
	local, err := cache.NewFileCache(c.Dir)
	if err != nil {
		_ = remote.Close()
		return nil, err
	}
	return cache.NewLayered(c.TTL.Duration, local, remote), nil
}

func (c *CacheConfig) openRemote(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
	case BackendMongo:
		return cache.NewMongoCache(ctx, cache.MongoOptions{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}

// Keyer returns the cache keyer, scoped by Prefix when one is set.
func (c *CacheConfig) Keyer() cache.Keyer {
	k := cache.NewDefaultKeyer()
	if c.Prefix != "" {
		return cache.NewScopedKeyer(k, c.Prefix)
	}
	return k
}
