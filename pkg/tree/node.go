package tree

import (
	"cmp"
	"fmt"
	"slices"
)

// Node is a vertex in an acyclic, multi-parent graph. It wraps an immutable
// value and keeps ordered parent and child lists that are updated
// symmetrically by [Node.AddChild] and [Node.RemoveChild].
//
// Two notions of identity exist side by side. [Node.Equal] and
// [Node.Compare] look only at the value, so distinct nodes with equal values
// compare equal. [Node.Same] compares handles. Edges, cycle checks and
// persistence references always use handles.
//
// The zero value is not usable - use [New] or [MustNew].
// A Node is not safe for concurrent mutation. Once frozen it is safe for
// concurrent reads.
type Node[V cmp.Ordered] struct {
	value    V
	parents  []*Node[V]
	children []*Node[V]
	frozen   bool
	resolver *resolverRef[V]
}

// resolverRef pairs a resolver with the name it is persisted under.
type resolverRef[V cmp.Ordered] struct {
	name string
	r    Resolver[V]
}

// New creates a bare, unfrozen node with no edges.
//
// The zero value of V stands for "no value" and is rejected as a payload
// with ErrValueRequired: a Node[int] cannot hold 0 and a Node[string] cannot
// hold "". Wrap such values in a type whose zero value is never used.
func New[V cmp.Ordered](value V) (*Node[V], error) {
	var zero V
	if value == zero {
		return nil, ErrValueRequired
	}
	return &Node[V]{value: value}, nil
}

// MustNew is like [New] but panics if value is the zero value.
// It is intended for literals in tests and examples.
func MustNew[V cmp.Ordered](value V) *Node[V] {
	n, err := New(value)
	if err != nil {
		panic(err)
	}
	return n
}

// Value returns the node's value. It never changes after construction.
func (n *Node[V]) Value() V { return n.value }

// Parents returns the node's parents in insertion order.
// The returned slice is a copy; modifying it does not affect the graph.
func (n *Node[V]) Parents() []*Node[V] { return slices.Clone(n.parents) }

// Children returns the node's children in insertion order.
// The returned slice is a copy; modifying it does not affect the graph.
func (n *Node[V]) Children() []*Node[V] { return slices.Clone(n.children) }

// Child returns the i-th child. It panics if i is out of range.
func (n *Node[V]) Child(i int) *Node[V] { return n.children[i] }

// ChildCount returns the number of children.
func (n *Node[V]) ChildCount() int { return len(n.children) }

// ParentCount returns the number of parents.
func (n *Node[V]) ParentCount() int { return len(n.parents) }

// HasChildren reports whether the node has at least one child.
func (n *Node[V]) HasChildren() bool { return len(n.children) != 0 }

// IsFrozen reports whether the node has been frozen.
func (n *Node[V]) IsFrozen() bool { return n.frozen }

// Equal reports whether n and o wrap equal values. It says nothing about
// graph position; use [Node.Same] for that.
func (n *Node[V]) Equal(o *Node[V]) bool { return n.value == o.value }

// Same reports whether n and o are the same node handle.
func (n *Node[V]) Same(o *Node[V]) bool { return n == o }

// Compare orders nodes by value, following [cmp.Compare].
func (n *Node[V]) Compare(o *Node[V]) int { return cmp.Compare(n.value, o.value) }

// String returns a short description such as Node(value='app').
func (n *Node[V]) String() string { return fmt.Sprintf("Node(value='%v')", n.value) }

// SetResolver attaches a resolver under the given name. The name is what
// [Encode] writes, and what [Decode] looks up in its [Resolvers].
// Passing a nil resolver detaches any existing one.
//
// Resolvers do not take part in edges or equality, so they may be set on
// frozen nodes.
func (n *Node[V]) SetResolver(name string, r Resolver[V]) {
	if r == nil {
		n.resolver = nil
		return
	}
	n.resolver = &resolverRef[V]{name: name, r: r}
}

// Resolver returns the attached resolver and its name, or nil and "".
func (n *Node[V]) Resolver() (Resolver[V], string) {
	if n.resolver == nil {
		return nil, ""
	}
	return n.resolver.r, n.resolver.name
}

// AddChild appends child to n's children and n to child's parents.
//
// Returns ErrFrozen if n or child is frozen, or a [*CycleError] if child is
// n itself or one of n's ancestors. On error no edge is changed.
func (n *Node[V]) AddChild(child *Node[V]) error {
	if n.frozen {
		return fmt.Errorf("add child '%v' to '%v': %w", child.value, n.value, ErrFrozen)
	}
	if child.frozen {
		return fmt.Errorf("add frozen child '%v' to '%v': %w", child.value, n.value, ErrFrozen)
	}
	if err := n.checkCycle(child); err != nil {
		return err
	}
	n.children = append(n.children, child)
	child.parents = append(child.parents, n)
	return nil
}

// RemoveChild removes the first edge from n to child in both directions.
// It is a no-op if no such edge exists. Returns ErrFrozen if n or child is
// frozen.
func (n *Node[V]) RemoveChild(child *Node[V]) error {
	if n.frozen {
		return fmt.Errorf("remove child '%v' from '%v': %w", child.value, n.value, ErrFrozen)
	}
	ci := slices.Index(n.children, child)
	if ci < 0 {
		return nil
	}
	if child.frozen {
		return fmt.Errorf("remove frozen child '%v' from '%v': %w", child.value, n.value, ErrFrozen)
	}
	n.children = slices.Delete(n.children, ci, ci+1)
	if pi := slices.Index(child.parents, n); pi >= 0 {
		child.parents = slices.Delete(child.parents, pi, pi+1)
	}
	return nil
}

// RemoveChildren removes every child edge of n, one at a time in the
// original child order. Returns ErrFrozen, and removes nothing, if n or any
// of its children is frozen.
func (n *Node[V]) RemoveChildren() error {
	if n.frozen {
		return fmt.Errorf("remove children from '%v': %w", n.value, ErrFrozen)
	}
	for _, child := range n.children {
		if child.frozen {
			return fmt.Errorf("remove frozen child '%v' from '%v': %w", child.value, n.value, ErrFrozen)
		}
	}
	for _, child := range slices.Clone(n.children) {
		if err := n.RemoveChild(child); err != nil {
			return err
		}
	}
	return nil
}
