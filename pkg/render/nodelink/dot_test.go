package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/nodegraph/pkg/tree"
)

func TestToDOT_Basic(t *testing.T) {
	a, b := tree.MustNew("a"), tree.MustNew("b")
	_ = a.AddChild(b)

	dot := ToDOT(Options{}, a)

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `n0 [label="a"]`) {
		t.Errorf("ToDOT() output missing node a:\n%s", dot)
	}
	if !strings.Contains(dot, `n1 [label="b"]`) {
		t.Errorf("ToDOT() output missing node b:\n%s", dot)
	}
	if !strings.Contains(dot, "n0 -> n1;") {
		t.Error("ToDOT() output missing edge")
	}
	if !strings.Contains(dot, "rankdir=TB;") {
		t.Error("ToDOT() should default to top-to-bottom")
	}
}

func TestToDOT_Handles(t *testing.T) {
	// r -> x, r -> y, x -> s, y -> s, plus a second node valued "s".
	r, x, y, s, s2 := tree.MustNew("r"), tree.MustNew("x"), tree.MustNew("y"), tree.MustNew("s"), tree.MustNew("s")
	_ = r.AddChild(x)
	_ = r.AddChild(y)
	_ = x.AddChild(s)
	_ = y.AddChild(s)
	_ = r.AddChild(s2)

	dot := ToDOT(Options{}, r)

	if got := strings.Count(dot, `label="s"`); got != 2 {
		t.Errorf("equal values on distinct handles should be drawn twice, got %d", got)
	}
	if got := strings.Count(dot, "-> n2;"); got != 2 {
		t.Errorf("shared node should have two incoming edges, got %d:\n%s", got, dot)
	}
}

func TestToDOT_MultipleRoots(t *testing.T) {
	a, b, shared := tree.MustNew(1), tree.MustNew(2), tree.MustNew(3)
	_ = a.AddChild(shared)
	_ = b.AddChild(shared)

	dot := ToDOT(Options{RankDir: "LR"}, a, b)
	if strings.Count(dot, "[label=") != 3 {
		t.Errorf("want 3 vertices:\n%s", dot)
	}
	if !strings.Contains(dot, "rankdir=LR;") {
		t.Error("RankDir not applied")
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	if label := fmtLabel(tree.MustNew("test-node"), false); label != "test-node" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", label, "test-node")
	}
}

func TestFmtLabel_Detailed(t *testing.T) {
	n := tree.MustNew("test-node")
	n.Freeze()
	n.SetResolver("registry", tree.ResolverFunc[string](nil))
	label := fmtLabel(n, true)

	for _, want := range []string{"test-node\n", "frozen: true", "resolver: registry", "parents: 0"} {
		if !strings.Contains(label, want) {
			t.Errorf("fmtLabel() detailed missing %q: %q", want, label)
		}
	}
}

func TestFmtAttrs(t *testing.T) {
	plain := tree.MustNew("a")
	frozen := tree.MustNew("b")
	frozen.Freeze()
	deferred := tree.MustNew("c")
	deferred.Freeze()
	deferred.SetResolver("r", tree.ResolverFunc[string](nil))

	tests := []struct {
		name      string
		n         *tree.Node[string]
		wantAttrs int
		dashed    bool
	}{
		{"Regular", plain, 1, false},
		{"Frozen", frozen, 2, false},
		{"Deferred", deferred, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := fmtAttrs(tt.n, "label")
			if len(attrs) != tt.wantAttrs {
				t.Errorf("attrs = %v, want %d", attrs, tt.wantAttrs)
			}
			if got := strings.Contains(strings.Join(attrs, " "), "dashed"); got != tt.dashed {
				t.Errorf("dashed = %v, want %v", got, tt.dashed)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	a, b := tree.MustNew("a"), tree.MustNew("b")
	_ = a.AddChild(b)

	svg, err := RenderSVG(context.Background(), ToDOT(Options{}, a))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
