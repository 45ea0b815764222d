// Package text prints node graphs as terminal trees.
package text

import (
	"cmp"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/nodegraph/pkg/tree"
)

// Markers appended to labels.
const (
	markFrozen = " *"
	markShared = " (shared)"
	markMore   = "..."
)

// Options configures text rendering.
type Options struct {
	// MaxDepth limits how many levels below the root are printed.
	// Zero means unlimited. Cut branches end in "...".
	MaxDepth int

	// ExpandShared prints a node's subtree on every path that reaches it.
	// By default only the first path expands it and later ones show
	// "(shared)".
	ExpandShared bool

	// Styles colors the output. Nil keeps the lipgloss/tree defaults.
	Styles *Styles
}

// Styles are applied to every level of the tree.
type Styles struct {
	Root       lipgloss.Style
	Item       lipgloss.Style
	Enumerator lipgloss.Style
}

// Render returns the tree below root. Frozen nodes are marked with "*".
func Render[V cmp.Ordered](root *tree.Node[V], opts Options) string {
	expanded := make(map[*tree.Node[V]]bool)
	t := newTree(label(root), opts)
	expanded[root] = true
	addChildren(t, root, 1, opts, expanded)
	return t.String()
}

func addChildren[V cmp.Ordered](t *ltree.Tree, n *tree.Node[V], depth int, opts Options, expanded map[*tree.Node[V]]bool) {
	if !n.HasChildren() {
		return
	}
	if opts.MaxDepth > 0 && depth > opts.MaxDepth {
		t.Child(markMore)
		return
	}
	for _, c := range n.Children() {
		if expanded[c] && !opts.ExpandShared {
			t.Child(label(c) + markShared)
			continue
		}
		expanded[c] = true
		if !c.HasChildren() {
			t.Child(label(c))
			continue
		}
		sub := newTree(label(c), opts)
		addChildren(sub, c, depth+1, opts, expanded)
		t.Child(sub)
	}
}

func newTree(root string, opts Options) *ltree.Tree {
	t := ltree.Root(root)
	if st := opts.Styles; st != nil {
		t = t.RootStyle(st.Root).ItemStyle(st.Item).EnumeratorStyle(st.Enumerator)
	}
	return t
}

func label[V cmp.Ordered](n *tree.Node[V]) string {
	s := fmt.Sprint(n.Value())
	if n.IsFrozen() {
		s += markFrozen
	}
	return s
}
