package io

import "github.com/matzehuels/nodegraph/pkg/tree"

// Forest is an imported graph: every node by id, in input order.
type Forest struct {
	ids   []string
	nodes map[string]*tree.Node[string]
	idOf  map[*tree.Node[string]]string
}

func newForest() *Forest {
	return &Forest{
		nodes: make(map[string]*tree.Node[string]),
		idOf:  make(map[*tree.Node[string]]string),
	}
}

func (f *Forest) add(id string, n *tree.Node[string]) {
	f.ids = append(f.ids, id)
	f.nodes[id] = n
	f.idOf[n] = id
}

// Node returns the node with the given id.
func (f *Forest) Node(id string) (*tree.Node[string], bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// ID returns the id a node was imported under.
func (f *Forest) ID(n *tree.Node[string]) (string, bool) {
	id, ok := f.idOf[n]
	return id, ok
}

// IDs returns every node id in input order.
func (f *Forest) IDs() []string {
	return append([]string(nil), f.ids...)
}

// Nodes returns every node in input order.
func (f *Forest) Nodes() []*tree.Node[string] {
	out := make([]*tree.Node[string], len(f.ids))
	for i, id := range f.ids {
		out[i] = f.nodes[id]
	}
	return out
}

// Roots returns the nodes without parents, in input order.
func (f *Forest) Roots() []*tree.Node[string] {
	var out []*tree.Node[string]
	for _, id := range f.ids {
		if n := f.nodes[id]; n.ParentCount() == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of nodes.
func (f *Forest) Len() int { return len(f.ids) }

// Frozen reports whether every node is frozen.
func (f *Forest) Frozen() bool {
	for _, n := range f.nodes {
		if !n.IsFrozen() {
			return false
		}
	}
	return true
}
