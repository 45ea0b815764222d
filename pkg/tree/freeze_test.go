package tree

import (
	"errors"
	"sync"
	"testing"
)

// buildFreezeGraph returns p -> r, r -> a -> b, r -> c.
func buildFreezeGraph(t *testing.T) (p, r, a, b, c *Node[string]) {
	t.Helper()
	p, r, a, b, c = MustNew("p"), MustNew("r"), MustNew("a"), MustNew("b"), MustNew("c")
	for _, e := range [][2]*Node[string]{{p, r}, {r, a}, {a, b}, {r, c}} {
		if err := e[0].AddChild(e[1]); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}
	return p, r, a, b, c
}

func TestFreezeCascadesToDescendantsOnly(t *testing.T) {
	p, r, a, b, c := buildFreezeGraph(t)
	r.Freeze()

	for _, n := range []*Node[string]{r, a, b, c} {
		if !n.IsFrozen() {
			t.Errorf("%s should be frozen", n.Value())
		}
	}
	if p.IsFrozen() {
		t.Error("parent of the frozen root should stay unfrozen")
	}
}

func TestFreezeIsIdempotent(t *testing.T) {
	_, r, a, _, _ := buildFreezeGraph(t)
	r.Freeze()
	r.Freeze()
	a.Freeze()
	if !r.IsFrozen() || !a.IsFrozen() {
		t.Error("refreezing should keep nodes frozen")
	}
}

func TestFrozenRejectsMutation(t *testing.T) {
	p, r, a, b, _ := buildFreezeGraph(t)
	r.Freeze()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"AddChildToFrozen", func() error { return r.AddChild(MustNew("x")) }},
		{"AddChildToFrozenDescendant", func() error { return b.AddChild(MustNew("x")) }},
		{"RemoveChildFromFrozen", func() error { return a.RemoveChild(b) }},
		{"RemoveChildren", func() error { return r.RemoveChildren() }},
		{"AttachFrozenChild", func() error { return MustNew("x").AddChild(a) }},
		{"DetachFrozenChild", func() error { return p.RemoveChild(r) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrFrozen) {
				t.Errorf("error = %v, want ErrFrozen", err)
			}
		})
	}

	if r.ChildCount() != 2 || a.ChildCount() != 1 || r.ParentCount() != 1 || p.ChildCount() != 1 {
		t.Error("failed mutations must not change any edge")
	}
}

func TestFrozenStaysFrozen(t *testing.T) {
	_, r, _, _, _ := buildFreezeGraph(t)
	r.Freeze()

	_ = r.AddChild(MustNew("x"))
	_ = r.RemoveChildren()
	r.SetResolver("any", ResolverFunc[string](nil))
	if !r.IsFrozen() {
		t.Error("a frozen node must never become unfrozen")
	}
}

func TestFrozenConcurrentReads(t *testing.T) {
	_, r, _, _, _ := buildFreezeGraph(t)
	r.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := r.Count(); got != 4 {
				t.Errorf("Count() = %d, want 4", got)
			}
			if _, err := Duplicate(r); err != nil {
				t.Errorf("Duplicate: %v", err)
			}
		}()
	}
	wg.Wait()
}
