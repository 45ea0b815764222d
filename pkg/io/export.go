package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/nodegraph/pkg/tree"
)

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID     string `json:"id"`
	Value  string `json:"value,omitempty"`
	Frozen bool   `json:"frozen,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes every node reachable from roots and writes it to w.
// Nodes are listed in first-visit pre-order, once per handle; edges follow
// each node's child order. The output can be re-imported with [ReadJSON].
func WriteJSON(w io.Writer, roots ...*tree.Node[string]) error {
	order := collect(roots)
	ids := assignIDs(order)

	out := graph{Nodes: make([]node, len(order)), Edges: []edge{}}
	for i, n := range order {
		nd := node{ID: ids[n], Frozen: n.IsFrozen()}
		if nd.ID != n.Value() {
			nd.Value = n.Value()
		}
		out.Nodes[i] = nd
		for _, c := range n.Children() {
			out.Edges = append(out.Edges, edge{From: ids[n], To: ids[c]})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(path string, roots ...*tree.Node[string]) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, roots...)
}

// collect lists the distinct handles reachable from roots in pre-order.
func collect(roots []*tree.Node[string]) []*tree.Node[string] {
	var order []*tree.Node[string]
	seen := make(map[*tree.Node[string]]bool)
	for _, r := range roots {
		r.Accept(tree.VisitorFunc[string](func(n *tree.Node[string]) bool {
			if seen[n] {
				return false
			}
			seen[n] = true
			order = append(order, n)
			return true
		}))
	}
	return order
}

// assignIDs names each handle after its value. The second and later
// handles with a value get "#2", "#3" and so on, skipping suffixes that
// collide with another value.
func assignIDs(order []*tree.Node[string]) map[*tree.Node[string]]string {
	values := make(map[string]bool, len(order))
	for _, n := range order {
		values[n.Value()] = true
	}

	ids := make(map[*tree.Node[string]]string, len(order))
	used := make(map[string]bool, len(order))
	next := make(map[string]int)
	for _, n := range order {
		v := n.Value()
		id := v
		for used[id] {
			next[v]++
			id = fmt.Sprintf("%s#%d", v, next[v]+1)
			if values[id] {
				id = v
			}
		}
		used[id] = true
		ids[n] = id
	}
	return ids
}
