package tree

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// Decode reads a document written by [Encode] and returns its root.
//
// Decoding runs in two phases. The first parses every record and rebuilds
// the nodes written in full, their edges and frozen flags. The second asks
// the named resolver for the canonical node of each record written by value
// only, and splices that node into every edge list that referenced the
// record. If the root itself was written by value, the resolver's node is
// returned. The spliced canonical nodes are not modified, so their parent
// lists do not gain the decoded parents.
//
// Every failed or empty lookup is reported; the returned error wraps
// [ErrResolutionFailed] (several [*ResolutionError] values combined with
// multierr) and no partial graph is returned. A canonical node that is not
// frozen fails its lookup with [ErrCanonicalNotFrozen]. Every record that
// names a resolver missing from resolvers fails with [ErrUnknownResolver],
// including records written in full, which would otherwise decode without
// one.
//
// Structural problems wrap [ErrMalformed]: unknown refs, undecodable or zero
// values, parent and child lists that do not mirror each other, and child
// edges that form a cycle.
func Decode[V cmp.Ordered](ctx context.Context, r io.Reader, resolvers Resolvers[V], opts ...Option) (*Node[V], error) {
	o := newOptions(opts)

	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	d := &decoder[V]{doc: doc, resolvers: resolvers, opts: o}
	if err := d.parse(); err != nil {
		return nil, err
	}
	if err := d.resolve(ctx); err != nil {
		return nil, err
	}
	root := d.splice()

	o.logger.Debug("decode document", "id", doc.ID, "root", root.value, "records", len(doc.Records), "resolved", len(d.canonical))
	return root, nil
}

type decoder[V cmp.Ordered] struct {
	doc       document
	resolvers Resolvers[V]
	opts      options

	index     map[int]int // record ref -> position in doc.Records
	nodes     []*Node[V]  // built nodes, by position
	canonical map[int]*Node[V]
}

// parse is the first phase: it validates the document and builds nodes.
func (d *decoder[V]) parse() error {
	recs := d.doc.Records
	d.index = make(map[int]int, len(recs))
	for i, rec := range recs {
		if _, dup := d.index[rec.Ref]; dup {
			return fmt.Errorf("%w: duplicate ref %d", ErrMalformed, rec.Ref)
		}
		d.index[rec.Ref] = i
	}
	if _, ok := d.index[d.doc.Root]; !ok {
		return fmt.Errorf("%w: unknown root ref %d", ErrMalformed, d.doc.Root)
	}

	d.nodes = make([]*Node[V], len(recs))
	for i, rec := range recs {
		var v V
		if err := json.Unmarshal(rec.Value, &v); err != nil {
			return fmt.Errorf("%w: record %d value: %v", ErrMalformed, rec.Ref, err)
		}
		n, err := New(v)
		if err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrMalformed, rec.Ref, err)
		}
		d.nodes[i] = n
	}

	for i, rec := range recs {
		if rec.deferred() {
			continue
		}
		n := d.nodes[i]
		for _, ref := range rec.Parents {
			p, err := d.lookup(rec.Ref, ref)
			if err != nil {
				return err
			}
			n.parents = append(n.parents, p)
		}
		for _, ref := range rec.Children {
			c, err := d.lookup(rec.Ref, ref)
			if err != nil {
				return err
			}
			n.children = append(n.children, c)
		}
	}
	if err := d.checkMirrored(); err != nil {
		return err
	}
	return d.checkAcyclic()
}

// checkMirrored verifies that, between records written in full, every child
// edge is listed in the child's parents as often as in the parent's children.
// Deferred records carry no edges and are skipped.
func (d *decoder[V]) checkMirrored() error {
	recs := d.doc.Records
	full := func(ref int) bool { return !recs[d.index[ref]].deferred() }

	balance := make(map[[2]int]int)
	for _, rec := range recs {
		if rec.deferred() {
			continue
		}
		for _, c := range rec.Children {
			if full(c) {
				balance[[2]int{rec.Ref, c}]++
			}
		}
		for _, p := range rec.Parents {
			if full(p) {
				balance[[2]int{p, rec.Ref}]--
			}
		}
	}
	for edge, n := range balance {
		if n != 0 {
			return fmt.Errorf("%w: edge %d->%d is not mirrored in parent and child lists", ErrMalformed, edge[0], edge[1])
		}
	}
	return nil
}

// checkAcyclic rejects documents whose child edges form a cycle.
func (d *decoder[V]) checkAcyclic() error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[*Node[V]]int, len(d.nodes))
	var visit func(n *Node[V]) bool
	visit = func(n *Node[V]) bool {
		switch state[n] {
		case active:
			return false
		case done:
			return true
		}
		state[n] = active
		for _, c := range n.children {
			if !visit(c) {
				return false
			}
		}
		state[n] = done
		return true
	}
	for i, n := range d.nodes {
		if !visit(n) {
			return fmt.Errorf("%w: child edges reachable from record %d form a cycle", ErrMalformed, d.doc.Records[i].Ref)
		}
	}
	return nil
}

func (d *decoder[V]) lookup(from, ref int) (*Node[V], error) {
	i, ok := d.index[ref]
	if !ok {
		return nil, fmt.Errorf("%w: record %d references unknown ref %d", ErrMalformed, from, ref)
	}
	return d.nodes[i], nil
}

// resolve is the second phase: it looks up every deferred record and checks
// that every named resolver exists. All failures are collected.
func (d *decoder[V]) resolve(ctx context.Context) error {
	d.canonical = make(map[int]*Node[V])
	var errs error
	for i, rec := range d.doc.Records {
		if rec.Resolver == "" {
			continue
		}
		v := d.nodes[i].value
		res, ok := d.resolvers[rec.Resolver]
		if !ok || res == nil {
			errs = multierr.Append(errs, &ResolutionError[V]{Resolver: rec.Resolver, Value: v, Err: ErrUnknownResolver})
			continue
		}
		if !rec.deferred() {
			d.nodes[i].SetResolver(rec.Resolver, res)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		found, err := res.Find(ctx, v)
		if err == nil && found == nil {
			err = &ResolutionError[V]{Resolver: rec.Resolver, Value: v}
		} else if err != nil {
			err = &ResolutionError[V]{Resolver: rec.Resolver, Value: v, Err: err}
		}
		if err == nil && !found.frozen {
			err = &ResolutionError[V]{Resolver: rec.Resolver, Value: v, Err: ErrCanonicalNotFrozen}
		}
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		d.opts.logger.Debug("resolved deferred", "value", v, "resolver", rec.Resolver)
		d.canonical[i] = found
	}
	return errs
}

// splice restores frozen flags and then swaps placeholders for canonical
// nodes. Freezing first keeps the cascade inside the decoded nodes.
func (d *decoder[V]) splice() *Node[V] {
	for i, rec := range d.doc.Records {
		if rec.Frozen && !rec.deferred() {
			d.nodes[i].Freeze()
		}
	}

	replace := make(map[*Node[V]]*Node[V], len(d.canonical))
	for i, c := range d.canonical {
		replace[d.nodes[i]] = c
	}
	swap := func(list []*Node[V]) {
		for j, n := range list {
			if c, ok := replace[n]; ok {
				list[j] = c
			}
		}
	}

	for i, rec := range d.doc.Records {
		if rec.deferred() {
			continue
		}
		swap(d.nodes[i].parents)
		swap(d.nodes[i].children)
	}

	root := d.index[d.doc.Root]
	if c, ok := d.canonical[root]; ok {
		return c
	}
	return d.nodes[root]
}
