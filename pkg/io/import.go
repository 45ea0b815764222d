package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/nodegraph/pkg/tree"
)

var (
	// ErrDuplicateID is returned when two nodes share an id.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrUnknownNode is returned when an edge names a missing node.
	ErrUnknownNode = errors.New("unknown node")
)

// ReadJSON decodes a JSON graph from r.
//
// Each node must have an "id". Nodes are created with their "value"
// (defaulting to the id) and edges are attached in input order, so child
// order follows the edge list. Nodes marked "frozen" are frozen after every
// edge is in place; freezing cascades to their descendants.
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - A node has a duplicate or empty id
//   - An edge references an unknown node ID
//   - An edge would create a cycle
//
// Errors are wrapped with context describing which node or edge caused
// the problem. Use errors.Is or errors.As to check for [tree.ErrCycle] and
// the other tree errors. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Forest, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	f := newForest()
	for _, n := range data.Nodes {
		if _, dup := f.nodes[n.ID]; dup {
			return nil, fmt.Errorf("node %s: %w", n.ID, ErrDuplicateID)
		}
		if n.ID == "" {
			return nil, fmt.Errorf("node: %w", tree.ErrValueRequired)
		}
		value := n.Value
		if value == "" {
			value = n.ID
		}
		nd, err := tree.New(value)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		f.add(n.ID, nd)
	}

	for _, e := range data.Edges {
		from, ok := f.nodes[e.From]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: %w %q", e.From, e.To, ErrUnknownNode, e.From)
		}
		to, ok := f.nodes[e.To]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: %w %q", e.From, e.To, ErrUnknownNode, e.To)
		}
		if err := from.AddChild(to); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}

	for _, n := range data.Nodes {
		if n.Frozen {
			f.nodes[n.ID].Freeze()
		}
	}
	return f, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
// It returns the same validation errors as [ReadJSON], wrapped with the
// file path when the file cannot be opened.
func ImportJSON(path string) (*Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
