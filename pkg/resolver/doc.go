// Package resolver provides [tree.Resolver] implementations that hold the
// canonical copies of frozen shared subgraphs.
//
// A [Registry] keeps canonical nodes in memory. A [Cached] resolver writes
// them to a [cache.Cache] and decodes them back on demand, so canonical
// nodes survive the process and can be shared between processes through
// Redis or MongoDB.
//
// Both attach themselves to the nodes they hold. Encoding a graph that
// contains such a node writes only its value and the resolver name; the
// [Resolvers] helpers build the name map that [tree.Decode] expects.
//
// All types in this package are safe for concurrent use.
package resolver
