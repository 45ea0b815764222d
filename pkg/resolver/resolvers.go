package resolver

import (
	"cmp"

	"github.com/matzehuels/nodegraph/pkg/tree"
)

// Named is a resolver that knows the name it is persisted under.
type Named[V cmp.Ordered] interface {
	tree.Resolver[V]
	Name() string
}

// Resolvers builds the name map for [tree.Decode]. A later resolver with
// the same name replaces an earlier one.
func Resolvers[V cmp.Ordered](rs ...Named[V]) tree.Resolvers[V] {
	m := make(tree.Resolvers[V], len(rs))
	for _, r := range rs {
		m[r.Name()] = r
	}
	return m
}
