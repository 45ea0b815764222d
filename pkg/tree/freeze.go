package tree

// Freeze makes n and every node reachable through its children read-only.
// Parents of n are not affected. Freezing is irreversible and idempotent:
// an already frozen node is left as is, which also stops the cascade at
// subgraphs that were frozen earlier.
//
// After Freeze, [Node.AddChild], [Node.RemoveChild] and
// [Node.RemoveChildren] on any frozen node fail with ErrFrozen, and
// [Node.Parents] and [Node.Children] keep returning the same contents.
func (n *Node[V]) Freeze() {
	if n.frozen {
		return
	}
	n.frozen = true
	for _, child := range n.children {
		child.Freeze()
	}
}
