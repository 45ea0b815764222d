package resolver

import (
	"cmp"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/tree"
)

// Option configures a [Cached] resolver.
type Option func(*options)

type options struct {
	logger *log.Logger
	keyer  cache.Keyer
	ttl    time.Duration
	others map[string]any // name -> tree.Resolver[V], checked at construction
}

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithKeyer sets the cache key layout. Defaults to cache.NewDefaultKeyer().
func WithKeyer(k cache.Keyer) Option {
	return func(o *options) { o.keyer = k }
}

// WithTTL sets the expiry of stored documents. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithResolver makes another resolver available when decoding stored
// documents, for canonical nodes that contain nodes held elsewhere.
func WithResolver[V cmp.Ordered](name string, r tree.Resolver[V]) Option {
	return func(o *options) {
		if o.others == nil {
			o.others = make(map[string]any)
		}
		o.others[name] = r
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if o.keyer == nil {
		o.keyer = cache.NewDefaultKeyer()
	}
	return o
}
