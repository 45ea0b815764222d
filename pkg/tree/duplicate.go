package tree

import (
	"cmp"
	"fmt"
)

// Factory builds a new, unfrozen, edge-free node for a value.
// [New] is the default factory.
type Factory[V cmp.Ordered] func(value V) (*Node[V], error)

// Duplicate copies the subgraph reachable through root's children, creating
// one node per distinct value. A value reached through several paths maps to
// a single copy, so sharing in the source is preserved in the result.
//
// Parents of root are not copied and the result is never frozen. Because
// copies are keyed by value, two distinct source nodes with equal values
// collapse into one; if that would close a cycle the [*CycleError] from
// [Node.AddChild] is returned.
func Duplicate[V cmp.Ordered](root *Node[V]) (*Node[V], error) {
	return DuplicateWith(root, New[V])
}

// DuplicateWith is like [Duplicate] but builds nodes with f.
func DuplicateWith[V cmp.Ordered](root *Node[V], f Factory[V]) (*Node[V], error) {
	return duplicate(root, f, make(map[V]*Node[V]))
}

func duplicate[V cmp.Ordered](origin *Node[V], f Factory[V], store map[V]*Node[V]) (*Node[V], error) {
	if dest, ok := store[origin.value]; ok {
		return dest, nil
	}
	dest, err := build(f, origin.value)
	if err != nil {
		return nil, err
	}
	store[origin.value] = dest
	for _, child := range origin.children {
		c, err := duplicate(child, f, store)
		if err != nil {
			return nil, err
		}
		if err := dest.AddChild(c); err != nil {
			return nil, fmt.Errorf("duplicate '%v': %w", origin.value, err)
		}
	}
	return dest, nil
}

// DuplicateFlat copies the subgraph reachable through root's children,
// creating a fresh node for every traversal path. A value shared by several
// paths in the source appears as independent nodes in the result, so the
// copy is a tree. Its size can grow exponentially with the amount of sharing.
//
// Parents of root are not copied and the result is never frozen.
func DuplicateFlat[V cmp.Ordered](root *Node[V]) (*Node[V], error) {
	return DuplicateFlatWith(root, New[V])
}

// DuplicateFlatWith is like [DuplicateFlat] but builds nodes with f.
func DuplicateFlatWith[V cmp.Ordered](root *Node[V], f Factory[V]) (*Node[V], error) {
	dest, err := build(f, root.value)
	if err != nil {
		return nil, err
	}
	for _, child := range root.children {
		c, err := DuplicateFlatWith(child, f)
		if err != nil {
			return nil, err
		}
		if err := dest.AddChild(c); err != nil {
			return nil, fmt.Errorf("duplicate '%v': %w", root.value, err)
		}
	}
	return dest, nil
}

func build[V cmp.Ordered](f Factory[V], value V) (*Node[V], error) {
	n, err := f(value)
	if err != nil {
		return nil, fmt.Errorf("create '%v': %w", value, err)
	}
	if n == nil {
		return nil, fmt.Errorf("create '%v': factory returned nil", value)
	}
	if n.frozen {
		return nil, fmt.Errorf("create '%v': factory returned frozen node: %w", value, ErrFrozen)
	}
	return n, nil
}
