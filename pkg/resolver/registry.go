package resolver

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/nodegraph/pkg/tree"
)

// Registry is an in-memory set of canonical nodes, one per value.
type Registry[V cmp.Ordered] struct {
	name  string
	mu    sync.RWMutex
	nodes map[V]*tree.Node[V]
}

// NewRegistry creates an empty registry persisted under name.
func NewRegistry[V cmp.Ordered](name string) *Registry[V] {
	return &Registry[V]{name: name, nodes: make(map[V]*tree.Node[V])}
}

// Name returns the name the registry is persisted under.
func (r *Registry[V]) Name() string { return r.name }

// Register adds a frozen node as the canonical node for its value and
// attaches the registry as its resolver. Registering the same node again is
// a no-op; a different node with the same value fails with ErrConflict.
func (r *Registry[V]) Register(n *tree.Node[V]) error {
	if !n.IsFrozen() {
		return fmt.Errorf("register %v: %w", n, ErrNotFrozen)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.nodes[n.Value()]; ok {
		if cur.Same(n) {
			return nil
		}
		return fmt.Errorf("register %v: %w", n, ErrConflict)
	}
	r.nodes[n.Value()] = n
	n.SetResolver(r.name, r)
	return nil
}

// Find returns the canonical node for value.
func (r *Registry[V]) Find(_ context.Context, value V) (*tree.Node[V], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n, ok := r.nodes[value]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: '%v'", ErrNotFound, value)
}

// Values returns the registered values in order.
func (r *Registry[V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]V, 0, len(r.nodes))
	for v := range r.nodes {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of registered nodes.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

var _ tree.Resolver[string] = (*Registry[string])(nil)
