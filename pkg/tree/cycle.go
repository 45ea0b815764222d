package tree

import "slices"

// checkCycle walks upward from n through every parent branch and fails if
// child is n or any ancestor of n. Each ancestor is expanded once, so
// diamonds above n do not cause repeated work.
func (n *Node[V]) checkCycle(child *Node[V]) error {
	if n == child {
		return n.cycleError(child, nil)
	}

	expanded := make(map[*Node[V]]bool)
	var path []*Node[V] // n first, then the ancestors on the current branch

	var walk func(cur *Node[V]) bool
	walk = func(cur *Node[V]) bool {
		path = append(path, cur)
		for _, p := range cur.parents {
			if p == child {
				return true
			}
			if expanded[p] {
				continue
			}
			expanded[p] = true
			if walk(p) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if walk(n) {
		return n.cycleError(child, path)
	}
	return nil
}

// cycleError builds the diagnostic chain: child's first-parent ancestry,
// then child, then the discovered branch back down to n.
func (n *Node[V]) cycleError(child *Node[V], path []*Node[V]) *CycleError[V] {
	var chain []V
	seen := map[*Node[V]]bool{child: true}
	for p := child; len(p.parents) > 0 && !seen[p.parents[0]]; {
		p = p.parents[0]
		seen[p] = true
		chain = append(chain, p.value)
	}
	slices.Reverse(chain)
	chain = append(chain, child.value)

	if len(path) == 0 {
		path = []*Node[V]{n}
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] != child {
			chain = append(chain, path[i].value)
		}
	}
	return &CycleError[V]{Child: child.value, Parent: n.value, Path: chain}
}
