package tree

import (
	"cmp"
	"context"

	"github.com/charmbracelet/log"
)

// Resolver maps a value back to the canonical node for it. [Decode] calls
// Find for every record that was encoded by value only.
//
// Find returns an error, or a nil node, when there is no canonical node for
// the value. Implementations used for concurrent decodes must be safe for
// concurrent use.
type Resolver[V cmp.Ordered] interface {
	Find(ctx context.Context, value V) (*Node[V], error)
}

// ResolverFunc adapts a function to the [Resolver] interface.
type ResolverFunc[V cmp.Ordered] func(ctx context.Context, value V) (*Node[V], error)

// Find calls f(ctx, value).
func (f ResolverFunc[V]) Find(ctx context.Context, value V) (*Node[V], error) { return f(ctx, value) }

// Resolvers maps the names written by [Encode] to the resolvers available
// to [Decode]. Decoded nodes get the resolver registered under their name.
type Resolvers[V cmp.Ordered] map[string]Resolver[V]

// Option configures [Encode] and [Decode].
type Option func(*options)

type options struct {
	logger          *log.Logger
	fullRoot        bool
	descendantsOnly bool
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	return o
}

// WithLogger sets the logger used for debug traces. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFullRoot makes [Encode] write the root with its full structure even
// when it is frozen and has a resolver. The root record then carries no
// resolver name, so a decoder rebuilds it instead of resolving it. Stores
// use this to persist the canonical form that a resolver later returns.
func WithFullRoot() Option {
	return func(o *options) { o.fullRoot = true }
}

// WithDescendantsOnly makes [Encode] follow child edges only. The root is
// written without parents, and other parent lists keep only the parents
// that are part of the written subgraph. Use it to persist a node apart
// from the graphs that contain it.
func WithDescendantsOnly() Option {
	return func(o *options) { o.descendantsOnly = true }
}
