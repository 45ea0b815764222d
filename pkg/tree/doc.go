// Package tree provides a mutable, acyclic, multi-parent node graph with
// deep freezing, structural duplication, visitor traversal and a persistence
// format that can defer shared frozen subgraphs to an external resolver.
//
// # Overview
//
// Despite the name the structure is a DAG: a [Node] may have several parents
// and several children, but no node can ever reach itself. Every node wraps
// an immutable value whose type satisfies [cmp.Ordered], so values can be
// compared, ordered and used as map keys. The zero value of the value type
// means "absent" and is never a valid payload: [New] rejects it with
// [ErrValueRequired], so a Node[int] cannot hold 0.
//
//	app := tree.MustNew("app")
//	lib := tree.MustNew("lib")
//	if err := app.AddChild(lib); err != nil {
//	    return err
//	}
//
// # Cycle Guard
//
// [Node.AddChild] walks upward through every parent branch of the receiver
// before inserting an edge. If the new child is the receiver or one of its
// ancestors the call fails with a [*CycleError] wrapping [ErrCycle] and no
// edge changes. The error carries a best-effort ancestor chain for
// diagnostics.
//
// # Identity
//
// Nodes have two identities. [Node.Equal] and [Node.Compare] use the value,
// so nodes at different positions with equal values are interchangeable
// where values are used as keys (notably [Duplicate]). [Node.Same] compares
// handles. Edges, the cycle guard and persistence references use handles.
//
// # Freezing
//
// [Node.Freeze] makes a node and all of its descendants read-only. It
// cascades through children only. Mutations on frozen nodes fail with
// [ErrFrozen]. A frozen subgraph never changes again, which makes it safe
// for unsynchronized concurrent reads: traversal, duplication and encoding.
//
// # Duplication
//
// [Duplicate] creates one copy per distinct value and preserves sharing:
// a diamond stays a diamond. [DuplicateFlat] creates one copy per path and
// expands sharing into repeated subtrees. Both copy children only and return
// unfrozen graphs. [DuplicateWith] and [DuplicateFlatWith] accept a custom
// [Factory].
//
// # Traversal
//
// [Node.Accept] runs a depth-first pre-order traversal driven by a
// [Visitor]. Returning false from Visit skips that node's descendants.
// Shared nodes are visited once per path that reaches them.
//
// # Persistence
//
// [Encode] writes a JSON document of records. A record leads with the
// node's frozen flag and resolver name; those two fields alone decide how
// the rest is read:
//
//	{"ref": 0, "frozen": false, "value": "app", "children": [1]}
//	{"ref": 1, "frozen": true, "resolver": "shared", "value": "lib"}
//
// Unfrozen nodes, and nodes without a resolver, are written in full with
// their parent and child lists. Frozen nodes with a resolver are written as
// their value only. [Decode] rebuilds the full records first, then calls
// [Resolver.Find] for each deferred value and splices the canonical node in
// place of the placeholder. A failed lookup fails the whole decode with
// [ErrResolutionFailed].
//
// # Concurrency
//
// Mutation requires exclusive access. Frozen graphs may be read from any
// number of goroutines.
package tree
