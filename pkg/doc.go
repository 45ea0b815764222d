// Package pkg provides the libraries behind nodegraph.
//
// # Overview
//
// nodegraph models directed acyclic graphs of values. Nodes are created
// mutable, linked with cycle-checked edges and eventually frozen. A frozen
// node with a resolver attached is shared: when a graph is persisted it is
// written by value only and looked up again through the resolver on load.
// The pkg directory is organized into these areas:
//
//  1. [tree] - Nodes, freezing, duplication, visitors and the persistence format
//  2. [resolver] - Resolvers that hold canonical nodes, in memory or in a cache
//  3. [cache] - Byte caches (file, Redis, MongoDB) with keying and retries
//  4. [io] - JSON import and export of string-valued forests
//  5. [render] - DOT/SVG and terminal tree output
//  6. [server] - Read-only HTTP API over a frozen forest
//
// # Architecture
//
// The typical data flow through nodegraph:
//
//	JSON graph file
//	       ↓
//	  [io] package (import, nodes keyed by id)
//	       ↓
//	  [tree] package (freeze, duplicate, visit)
//	       ↓
//	  [resolver] package (store canonical nodes)
//	       ↓
//	  [tree] Encode/Decode (shared nodes by value)
//
// # Quick Start
//
// Store a shared subgraph once and reference it from another document:
//
//	import (
//	    "github.com/matzehuels/nodegraph/pkg/cache"
//	    "github.com/matzehuels/nodegraph/pkg/resolver"
//	    "github.com/matzehuels/nodegraph/pkg/tree"
//	)
//
//	store, _ := cache.NewFileCache(dir)
//	r, _ := resolver.NewCached[string]("store", store)
//
//	app, core := tree.MustNew("app"), tree.MustNew("core")
//	_ = app.AddChild(core)
//	_ = r.Store(ctx, core) // freezes core; app now refers to it by value
//	_ = tree.Encode(w, app)
//
//	got, _ := tree.Decode(ctx, rd, resolver.Resolvers[string](r))
//
// # Errors
//
// Every package returns wrapped sentinel errors that work with errors.Is.
// The [errors] package maps them to stable codes and HTTP statuses for the
// CLI and the server.
//
// # Observability
//
// The [observability] package holds process-wide hooks for resolver, cache
// and HTTP events, with a Prometheus implementation.
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/nodegraph/pkg/tree
// [resolver]: https://pkg.go.dev/github.com/matzehuels/nodegraph/pkg/resolver
// [cache]: https://pkg.go.dev/github.com/matzehuels/nodegraph/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/nodegraph/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/nodegraph/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/nodegraph/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/nodegraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/nodegraph/pkg/observability
package pkg
