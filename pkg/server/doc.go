// Package server exposes a frozen [io.Forest] over HTTP.
//
// The server is read-only. It refuses unfrozen forests because frozen graphs
// are the only ones that may be read from several goroutines at once.
//
// # Routes
//
//	GET /healthz          liveness probe
//	GET /version          build information
//	GET /nodes            root nodes of the forest
//	GET /nodes/{id}       one node with its parent and child ids
//	GET /nodes/{id}/dot   Graphviz DOT of the subgraph below the node
//	GET /nodes/{id}/svg   the same subgraph rendered to SVG
//	GET /metrics          Prometheus metrics
//
// Errors are written as JSON objects with a code and a message, using the
// codes and statuses of [github.com/matzehuels/nodegraph/pkg/errors].
//
// [io.Forest]: github.com/matzehuels/nodegraph/pkg/io.Forest
package server
