package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/nodegraph/pkg/buildinfo"
	nerrors "github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/observability"
	"github.com/matzehuels/nodegraph/pkg/resolver"
)

const frozenGraph = `{
  "nodes": [
    {"id": "app", "frozen": true},
    {"id": "lib", "frozen": true},
    {"id": "github.com/x/core", "value": "core", "frozen": true}
  ],
  "edges": [
    {"from": "app", "to": "lib"},
    {"from": "app", "to": "github.com/x/core"},
    {"from": "lib", "to": "github.com/x/core"}
  ]
}`

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	f, err := io.ReadJSON(strings.NewReader(frozenGraph))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	s, err := New(f, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewRejectsUnfrozen(t *testing.T) {
	f, err := io.ReadJSON(strings.NewReader(`{"nodes":[{"id":"a"}],"edges":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(f); !errors.Is(err, resolver.ErrNotFrozen) {
		t.Errorf("New error = %v, want ErrNotFrozen", err)
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/healthz")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "OK" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestVersion(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/version")
	var got buildinfo.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got != buildinfo.Current() {
		t.Errorf("version = %+v, want %+v", got, buildinfo.Current())
	}
}

func TestRoots(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/nodes")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var got []nodeView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "app" {
		t.Fatalf("roots = %+v, want [app]", got)
	}
	if want := []string{"lib", "github.com/x/core"}; !slices.Equal(got[0].Children, want) {
		t.Errorf("children = %v, want %v", got[0].Children, want)
	}
}

func TestNode(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name     string
		path     string
		value    string
		parents  []string
		children []string
	}{
		{"Leaf", "/nodes/lib", "lib", []string{"app"}, []string{"github.com/x/core"}},
		{"Escaped", "/nodes/github.com%2Fx%2Fcore", "core", []string{"app", "lib"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			var got nodeView
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if got.Value != tt.value || !got.Frozen {
				t.Errorf("node = %+v", got)
			}
			if !slices.Equal(got.Parents, tt.parents) || !slices.Equal(got.Children, tt.children) {
				t.Errorf("edges = %v / %v, want %v / %v", got.Parents, got.Children, tt.parents, tt.children)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name   string
		path   string
		status int
		code   nerrors.Code
	}{
		{"UnknownNode", "/nodes/nope", http.StatusNotFound, nerrors.ErrCodeNodeNotFound},
		{"UnknownDOT", "/nodes/nope/dot", http.StatusNotFound, nerrors.ErrCodeNodeNotFound},
		{"BadID", "/nodes/%20lib", http.StatusBadRequest, nerrors.ErrCodeInvalidNodeID},
		{"UnknownRoute", "/elsewhere", http.StatusNotFound, nerrors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var got errorView
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("error body: %v", err)
			}
			if got.Code != tt.code || got.Message == "" {
				t.Errorf("error = %+v, want code %s", got, tt.code)
			}
		})
	}
}

func TestDOT(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/nodes/lib/dot?rankdir=LR")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"digraph", "rankdir=LR", `label="lib"`, `label="core"`} {
		if !strings.Contains(body, want) {
			t.Errorf("DOT missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, `label="app"`) {
		t.Error("DOT should only contain the subgraph below the node")
	}
}

func TestSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in -short")
	}
	rec := get(t, newTestServer(t).Handler(), "/nodes/app/svg")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body is not SVG")
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.SetHTTPHooks(observability.NewPrometheus(reg))
	t.Cleanup(observability.Reset)

	h := newTestServer(t, WithGatherer(reg)).Handler()
	get(t, h, "/healthz")
	get(t, h, "/healthz")

	rec := get(t, h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/healthz"`) {
		t.Errorf("metrics should label requests by route:\n%s", rec.Body)
	}
	if n, err := testutil.GatherAndCount(reg, "nodegraph_http_requests_total"); err != nil || n == 0 {
		t.Errorf("request series = %d, %v", n, err)
	}
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
