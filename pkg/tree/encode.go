package tree

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// document is the persisted layout. Records reference each other by Ref, so
// a node shared by several lists is written once.
type document struct {
	ID      string   `json:"id"`
	Root    int      `json:"root"`
	Records []record `json:"records"`
}

// record keeps frozen and resolver ahead of the payload: a decoder picks the
// full or deferred branch from those two fields alone.
type record struct {
	Ref      int             `json:"ref"`
	Frozen   bool            `json:"frozen"`
	Resolver string          `json:"resolver,omitempty"`
	Value    json.RawMessage `json:"value"`
	Parents  []int           `json:"parents,omitempty"`
	Children []int           `json:"children,omitempty"`
}

// deferred reports whether the record carries only a value.
func (r record) deferred() bool { return r.Frozen && r.Resolver != "" }

// Encode writes the graph around root as a JSON document.
//
// A node that is unfrozen, or has no resolver, is written in full: its value
// and its parent and child lists, with every referenced node written
// recursively. A frozen node with a resolver is written as its value and
// resolver name only, and its edges are not followed. [Decode] later asks
// that resolver for the canonical node.
func Encode[V cmp.Ordered](w io.Writer, root *Node[V], opts ...Option) error {
	o := newOptions(opts)
	e := &encoder[V]{refs: make(map[*Node[V]]int), opts: o}
	if _, err := e.ref(root); err != nil {
		return err
	}
	if o.descendantsOnly {
		e.linkParents()
	}

	doc := document{ID: uuid.NewString(), Root: 0, Records: e.records}
	o.logger.Debug("encode document", "id", doc.ID, "root", root.value, "records", len(doc.Records), "deferred", e.deferred)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

type encoder[V cmp.Ordered] struct {
	refs     map[*Node[V]]int
	nodes    []*Node[V] // by ref
	records  []record
	deferred int
	opts     options
}

func (e *encoder[V]) ref(n *Node[V]) (int, error) {
	if r, ok := e.refs[n]; ok {
		return r, nil
	}
	r := len(e.records)
	e.refs[n] = r
	e.nodes = append(e.nodes, n)
	e.records = append(e.records, record{})

	value, err := json.Marshal(n.value)
	if err != nil {
		return 0, fmt.Errorf("encode value '%v': %w", n.value, err)
	}
	rec := record{Ref: r, Frozen: n.frozen, Value: value}
	if n.resolver != nil && !(r == 0 && e.opts.fullRoot) {
		rec.Resolver = n.resolver.name
	}

	if rec.deferred() {
		e.opts.logger.Debug("encode deferred", "value", n.value, "resolver", rec.Resolver)
		e.deferred++
		e.records[r] = rec
		return r, nil
	}

	if !e.opts.descendantsOnly {
		for _, p := range n.parents {
			pr, err := e.ref(p)
			if err != nil {
				return 0, err
			}
			rec.Parents = append(rec.Parents, pr)
		}
	}
	for _, c := range n.children {
		cr, err := e.ref(c)
		if err != nil {
			return 0, err
		}
		rec.Children = append(rec.Children, cr)
	}
	e.records[r] = rec
	return r, nil
}

// linkParents fills the parent lists of full records when only descendants
// were followed. Parents outside the written subgraph are dropped.
func (e *encoder[V]) linkParents() {
	for r, n := range e.nodes {
		if e.records[r].deferred() || r == 0 {
			continue
		}
		for _, p := range n.parents {
			if pr, ok := e.refs[p]; ok {
				e.records[r].Parents = append(e.records[r].Parents, pr)
			}
		}
	}
}
