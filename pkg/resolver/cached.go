package resolver

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/observability"
	"github.com/matzehuels/nodegraph/pkg/tree"
)

const keyType = "node"

// Cached is a resolver whose canonical nodes live in a [cache.Cache].
//
// [Cached.Store] writes a canonical node as a full document. [Cached.Find]
// serves nodes already loaded by this process from memory, and otherwise
// reads and decodes the stored document. Concurrent lookups of the same
// value share one backend read.
type Cached[V cmp.Ordered] struct {
	name   string
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
	others tree.Resolvers[V]

	mu    sync.RWMutex
	memo  map[V]*tree.Node[V]
	group singleflight.Group
}

// NewCached creates a resolver persisted under name and backed by c.
func NewCached[V cmp.Ordered](name string, c cache.Cache, opts ...Option) (*Cached[V], error) {
	o := newOptions(opts)
	r := &Cached[V]{
		name:   name,
		cache:  c,
		keyer:  o.keyer,
		ttl:    o.ttl,
		logger: o.logger,
		others: make(tree.Resolvers[V], len(o.others)+1),
		memo:   make(map[V]*tree.Node[V]),
	}
	for n, other := range o.others {
		res, ok := other.(tree.Resolver[V])
		if !ok {
			return nil, fmt.Errorf("resolver %q: value type does not match", n)
		}
		r.others[n] = res
	}
	r.others[name] = r
	return r, nil
}

// Name returns the name the resolver is persisted under.
func (r *Cached[V]) Name() string { return r.name }

// Store freezes n, attaches the resolver to it and writes it under its
// value. Only n and its descendants are written; nested nodes that have
// their own resolver are written by value.
func (r *Cached[V]) Store(ctx context.Context, n *tree.Node[V]) error {
	n.Freeze()
	n.SetResolver(r.name, r)

	var buf bytes.Buffer
	if err := tree.Encode(&buf, n, tree.WithFullRoot(), tree.WithDescendantsOnly(), tree.WithLogger(r.logger)); err != nil {
		observability.Resolver().OnStore(ctx, r.name, 0, err)
		return fmt.Errorf("store %v: %w", n, err)
	}

	key := r.key(n.Value())
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.cache.Set(ctx, key, buf.Bytes(), r.ttl)
	})
	observability.Resolver().OnStore(ctx, r.name, buf.Len(), err)
	if err != nil {
		return fmt.Errorf("store %v: %w", n, err)
	}
	observability.Cache().OnCacheSet(ctx, keyType, buf.Len())

	r.mu.Lock()
	r.memo[n.Value()] = n
	r.mu.Unlock()

	r.logger.Debug("stored canonical node", "resolver", r.name, "value", n.Value(), "bytes", buf.Len())
	return nil
}

// Find returns the canonical node for value, loading it from the cache on
// first use.
func (r *Cached[V]) Find(ctx context.Context, value V) (*tree.Node[V], error) {
	start := time.Now()
	if n := r.memoized(value); n != nil {
		observability.Resolver().OnResolve(ctx, r.name, observability.OutcomeHit, time.Since(start))
		return n, nil
	}

	key := r.key(value)
	v, err, shared := r.group.Do(key, func() (any, error) {
		if n := r.memoized(value); n != nil {
			return n, nil
		}
		return r.load(ctx, key, value)
	})
	if err != nil {
		outcome := observability.OutcomeError
		if isNotFound(err) {
			outcome = observability.OutcomeMiss
		}
		observability.Resolver().OnResolve(ctx, r.name, outcome, time.Since(start))
		return nil, err
	}

	n, ok := v.(*tree.Node[V])
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight group: got %T", v)
	}
	observability.Resolver().OnResolve(ctx, r.name, observability.OutcomeLoad, time.Since(start))
	r.logger.Debug("resolved canonical node", "resolver", r.name, "value", value, "shared", shared)
	return n, nil
}

func (r *Cached[V]) load(ctx context.Context, key string, value V) (*tree.Node[V], error) {
	var (
		data []byte
		hit  bool
	)
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = r.cache.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load '%v': %w", value, err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, fmt.Errorf("%w: '%v'", ErrNotFound, value)
	}
	observability.Cache().OnCacheHit(ctx, keyType)

	n, err := tree.Decode(ctx, bytes.NewReader(data), r.others, tree.WithLogger(r.logger))
	if err != nil {
		return nil, fmt.Errorf("load '%v': %w", value, err)
	}
	if n.Value() != value {
		return nil, fmt.Errorf("load '%v': %w: stored document holds '%v'", value, tree.ErrMalformed, n.Value())
	}
	n.Freeze()
	n.SetResolver(r.name, r)

	r.mu.Lock()
	if cur, ok := r.memo[value]; ok {
		n = cur
	} else {
		r.memo[value] = n
	}
	r.mu.Unlock()
	return n, nil
}

// Forget deletes the stored node for value and drops it from memory.
func (r *Cached[V]) Forget(ctx context.Context, value V) error {
	r.mu.Lock()
	delete(r.memo, value)
	r.mu.Unlock()
	return r.cache.Delete(ctx, r.key(value))
}

// Loaded returns the number of canonical nodes held in memory.
func (r *Cached[V]) Loaded() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.memo)
}

func (r *Cached[V]) memoized(value V) *tree.Node[V] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.memo[value]
}

func (r *Cached[V]) key(value V) string {
	return r.keyer.NodeKey(r.name, fmt.Sprint(value))
}

var _ Named[string] = (*Cached[string])(nil)
