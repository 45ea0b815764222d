package io

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/nodegraph/pkg/tree"
)

const diamondJSON = `{
  "nodes": [{"id": "app"}, {"id": "a"}, {"id": "b"}, {"id": "core", "frozen": true}],
  "edges": [
    {"from": "app", "to": "a"},
    {"from": "app", "to": "b"},
    {"from": "a", "to": "core"},
    {"from": "b", "to": "core"}
  ]
}`

func values(ns []*tree.Node[string]) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Value()
	}
	return out
}

func TestReadJSON(t *testing.T) {
	f, err := ReadJSON(strings.NewReader(diamondJSON))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if f.Len() != 4 || !slices.Equal(f.IDs(), []string{"app", "a", "b", "core"}) {
		t.Errorf("ids = %v", f.IDs())
	}
	if got := values(f.Roots()); !slices.Equal(got, []string{"app"}) {
		t.Errorf("roots = %v, want [app]", got)
	}

	app, _ := f.Node("app")
	if got := values(app.Children()); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("app children = %v", got)
	}
	core, _ := f.Node("core")
	if !core.IsFrozen() || app.IsFrozen() {
		t.Error("only core should be frozen")
	}
	if got := values(core.Parents()); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("core parents = %v", got)
	}
	if f.Frozen() {
		t.Error("forest is not fully frozen")
	}
	if id, ok := f.ID(core); !ok || id != "core" {
		t.Errorf("ID(core) = %q, %v", id, ok)
	}
}

func TestReadJSONValues(t *testing.T) {
	in := `{"nodes":[{"id":"r"},{"id":"x1","value":"x"},{"id":"x2","value":"x"}],
	        "edges":[{"from":"r","to":"x1"},{"from":"r","to":"x2"}]}`
	f, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	x1, _ := f.Node("x1")
	x2, _ := f.Node("x2")
	if !x1.Equal(x2) || x1.Same(x2) {
		t.Error("x1 and x2 should be distinct nodes with equal values")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"DuplicateID", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, ErrDuplicateID},
		{"EmptyID", `{"nodes":[{"id":""}],"edges":[]}`, tree.ErrValueRequired},
		{"UnknownFrom", `{"nodes":[{"id":"a"}],"edges":[{"from":"x","to":"a"}]}`, ErrUnknownNode},
		{"UnknownTo", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"x"}]}`, ErrUnknownNode},
		{"Cycle", `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"from":"a","to":"b"},{"from":"b","to":"a"}]}`, tree.ErrCycle},
		{"SelfLoop", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"a"}]}`, tree.ErrCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("want error for malformed JSON")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	f, err := ReadJSON(strings.NewReader(diamondJSON))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, f.Roots()...); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out graph
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Nodes) != 4 || len(out.Edges) != 4 {
		t.Errorf("wrote %d nodes and %d edges, want 4 and 4", len(out.Nodes), len(out.Edges))
	}

	again, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	core, _ := again.Node("core")
	if !core.IsFrozen() || core.ParentCount() != 2 {
		t.Error("re-imported core should be frozen with two parents")
	}
}

func TestWriteJSONFlatCopy(t *testing.T) {
	f, _ := ReadJSON(strings.NewReader(diamondJSON))
	app, _ := f.Node("app")
	flat, err := tree.DuplicateFlat(app)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, flat); err != nil {
		t.Fatal(err)
	}
	var out graph
	_ = json.Unmarshal(buf.Bytes(), &out)

	var ids []string
	for _, n := range out.Nodes {
		ids = append(ids, n.ID)
	}
	if want := []string{"app", "a", "core", "b", "core#2"}; !slices.Equal(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if out.Nodes[4].Value != "core" {
		t.Errorf("core#2 value = %q, want core", out.Nodes[4].Value)
	}

	again, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if again.Len() != 5 {
		t.Errorf("re-imported %d nodes, want 5", again.Len())
	}
}

func TestAssignIDsSkipsTakenSuffix(t *testing.T) {
	a1, a2, taken := tree.MustNew("a"), tree.MustNew("a"), tree.MustNew("a#2")
	ids := assignIDs([]*tree.Node[string]{a1, a2, taken})
	if ids[a1] != "a" || ids[a2] != "a#3" || ids[taken] != "a#2" {
		t.Errorf("ids = %q %q %q", ids[a1], ids[a2], ids[taken])
	}
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	f, _ := ReadJSON(strings.NewReader(diamondJSON))

	graphPath := filepath.Join(dir, "graph.json")
	if err := ExportJSON(graphPath, f.Roots()...); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if g, err := ImportJSON(graphPath); err != nil || g.Len() != 4 {
		t.Fatalf("ImportJSON: %v", err)
	}
	if _, err := ImportJSON(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("want error for missing file")
	}

	docPath := filepath.Join(dir, "doc.json")
	app, _ := f.Node("app")
	if err := EncodeFile(docPath, app); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	got, err := DecodeFile[string](context.Background(), docPath, nil)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if got.Count() != 4 {
		t.Errorf("decoded %d values, want 4", got.Count())
	}
}
