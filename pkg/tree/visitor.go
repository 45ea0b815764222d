package tree

import "cmp"

// Visitor receives nodes during [Node.Accept]. Returning false from Visit
// skips the node's descendants; siblings are still visited.
type Visitor[V cmp.Ordered] interface {
	Visit(n *Node[V]) bool
}

// VisitorFunc adapts a function to the [Visitor] interface.
type VisitorFunc[V cmp.Ordered] func(n *Node[V]) bool

// Visit calls f(n).
func (f VisitorFunc[V]) Visit(n *Node[V]) bool { return f(n) }

// Accept runs a depth-first, pre-order traversal from n. The visitor sees n
// first; if it returns true, each child is accepted in child order.
//
// There is no visited set: a node reachable through several paths is
// visited once per path. Callers that need each node once must track that
// themselves. The graph must not be mutated during the traversal.
func (n *Node[V]) Accept(v Visitor[V]) {
	if !v.Visit(n) {
		return
	}
	for _, child := range n.children {
		child.Accept(v)
	}
}

// Walk calls fn for every node on every path from n, in pre-order.
func (n *Node[V]) Walk(fn func(*Node[V])) {
	n.Accept(VisitorFunc[V](func(c *Node[V]) bool {
		fn(c)
		return true
	}))
}

// Values returns the distinct values reachable from n (n included), in
// first-visit pre-order. Subgraphs below an already visited handle are not
// re-traversed.
func (n *Node[V]) Values() []V {
	var values []V
	seenNode := make(map[*Node[V]]bool)
	seenValue := make(map[V]bool)
	n.Accept(VisitorFunc[V](func(c *Node[V]) bool {
		if seenNode[c] {
			return false
		}
		seenNode[c] = true
		if !seenValue[c.value] {
			seenValue[c.value] = true
			values = append(values, c.value)
		}
		return true
	}))
	return values
}

// Count returns the number of distinct values reachable from n.
func (n *Node[V]) Count() int { return len(n.Values()) }
