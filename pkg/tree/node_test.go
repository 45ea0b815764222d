package tree

import (
	"cmp"
	"errors"
	"slices"
	"testing"
)

func values[V cmp.Ordered](nodes []*Node[V]) []V {
	out := make([]V, len(nodes))
	for i, n := range nodes {
		out[i] = n.Value()
	}
	return out
}

func TestNew(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrValueRequired) {
		t.Errorf("New(\"\") error = %v, want ErrValueRequired", err)
	}
	if _, err := New(0); !errors.Is(err, ErrValueRequired) {
		t.Errorf("New(0) error = %v, want ErrValueRequired", err)
	}

	n, err := New("app")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n.Value() != "app" {
		t.Errorf("Value() = %q, want app", n.Value())
	}
	if n.IsFrozen() || n.HasChildren() || n.ParentCount() != 0 {
		t.Error("new node should be bare and unfrozen")
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew(\"\") should panic")
		}
	}()
	MustNew("")
}

func TestAddChildIsSymmetric(t *testing.T) {
	a, b, c := MustNew("a"), MustNew("b"), MustNew("c")
	if err := a.AddChild(b); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := a.AddChild(c); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	if got := values(a.Children()); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("children = %v, want [b c]", got)
	}
	if got := values(b.Parents()); !slices.Equal(got, []string{"a"}) {
		t.Errorf("parents of b = %v, want [a]", got)
	}
	if !a.Child(1).Same(c) {
		t.Error("Child(1) should be c")
	}
}

func TestMultipleParents(t *testing.T) {
	a, b, shared := MustNew("a"), MustNew("b"), MustNew("shared")
	for _, p := range []*Node[string]{a, b} {
		if err := p.AddChild(shared); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}
	if got := values(shared.Parents()); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("parents = %v, want [a b]", got)
	}
}

func TestRemoveChild(t *testing.T) {
	a, b, c := MustNew("a"), MustNew("b"), MustNew("c")
	_ = a.AddChild(b)
	_ = a.AddChild(c)

	if err := a.RemoveChild(b); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if got := values(a.Children()); !slices.Equal(got, []string{"c"}) {
		t.Errorf("children = %v, want [c]", got)
	}
	if b.ParentCount() != 0 {
		t.Errorf("b still has %d parents", b.ParentCount())
	}

	// Removing a missing edge is a no-op.
	if err := a.RemoveChild(b); err != nil {
		t.Errorf("RemoveChild(missing) error = %v", err)
	}
	if a.ChildCount() != 1 {
		t.Errorf("ChildCount = %d, want 1", a.ChildCount())
	}
}

func TestRemoveChildMatchesHandle(t *testing.T) {
	a := MustNew("a")
	b1, b2 := MustNew("b"), MustNew("b")
	_ = a.AddChild(b1)

	// b2 has the same value but there is no edge to it.
	if err := a.RemoveChild(b2); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if a.ChildCount() != 1 || !a.Child(0).Same(b1) {
		t.Error("edge to b1 should survive removing an equal-valued node")
	}
}

func TestRemoveChildren(t *testing.T) {
	a := MustNew("a")
	kids := []*Node[string]{MustNew("x"), MustNew("y"), MustNew("z")}
	for _, k := range kids {
		_ = a.AddChild(k)
	}

	if err := a.RemoveChildren(); err != nil {
		t.Fatalf("RemoveChildren: %v", err)
	}
	if a.HasChildren() {
		t.Errorf("children = %v, want none", values(a.Children()))
	}
	for _, k := range kids {
		if k.ParentCount() != 0 {
			t.Errorf("%s still has parents", k.Value())
		}
	}
}

func TestRemoveChildrenFrozenChild(t *testing.T) {
	p, a, b := MustNew("p"), MustNew("a"), MustNew("b")
	_ = p.AddChild(a)
	_ = p.AddChild(b)
	b.Freeze()

	if err := p.RemoveChildren(); !errors.Is(err, ErrFrozen) {
		t.Fatalf("RemoveChildren error = %v, want ErrFrozen", err)
	}
	if got := values(p.Children()); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("children = %v, want [a b] unchanged", got)
	}
	if a.ParentCount() != 1 || b.ParentCount() != 1 {
		t.Errorf("parents = %d, %d, want 1, 1", a.ParentCount(), b.ParentCount())
	}
}

func TestChildrenReturnsCopy(t *testing.T) {
	a, b := MustNew("a"), MustNew("b")
	_ = a.AddChild(b)

	kids := a.Children()
	kids[0] = MustNew("intruder")
	if a.Child(0).Value() != "b" {
		t.Error("modifying Children() result changed the graph")
	}
}

func TestIdentity(t *testing.T) {
	a1, a2, b := MustNew(1), MustNew(1), MustNew(2)

	if !a1.Equal(a2) {
		t.Error("equal values should be Equal")
	}
	if a1.Same(a2) {
		t.Error("distinct handles should not be Same")
	}
	if !a1.Same(a1) {
		t.Error("a node should be Same as itself")
	}
	if a1.Compare(b) >= 0 || b.Compare(a1) <= 0 || a1.Compare(a2) != 0 {
		t.Error("Compare should order by value")
	}
}

func TestString(t *testing.T) {
	if got := MustNew("app").String(); got != "Node(value='app')" {
		t.Errorf("String() = %q", got)
	}
}

func TestSetResolver(t *testing.T) {
	n := MustNew("a")
	if r, name := n.Resolver(); r != nil || name != "" {
		t.Error("new node should have no resolver")
	}

	res := ResolverFunc[string](nil)
	n.Freeze()
	n.SetResolver("shared", res)
	if _, name := n.Resolver(); name != "shared" {
		t.Errorf("resolver name = %q, want shared", name)
	}

	n.SetResolver("", nil)
	if r, _ := n.Resolver(); r != nil {
		t.Error("SetResolver(nil) should detach")
	}
}
