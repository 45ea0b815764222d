package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/nodegraph/pkg/buildinfo"
	nerrors "github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/render/nodelink"
	"github.com/matzehuels/nodegraph/pkg/tree"
)

// nodeView is the JSON form of a node.
type nodeView struct {
	ID       string   `json:"id"`
	Value    string   `json:"value"`
	Frozen   bool     `json:"frozen"`
	Resolver string   `json:"resolver,omitempty"`
	Parents  []string `json:"parents"`
	Children []string `json:"children"`
}

type errorView struct {
	Code    nerrors.Code `json:"code"`
	Message string       `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

func (s *Server) handleRoots(w http.ResponseWriter, _ *http.Request) {
	roots := s.forest.Roots()
	out := make([]nodeView, len(roots))
	for i, n := range roots {
		out[i] = s.view(n)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	n, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(n))
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	n, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	dot := nodelink.ToDOT(dotOptions(r), n)
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	n, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), nodelink.ToDOT(dotOptions(r), n))
	if err != nil {
		s.logger.Error("svg render failed", "error", err)
		writeError(w, nerrors.Wrap(nerrors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func dotOptions(r *http.Request) nodelink.Options {
	q := r.URL.Query()
	return nodelink.Options{
		Detailed: q.Get("detailed") == "true",
		RankDir:  q.Get("rankdir"),
	}
}

// lookup resolves the {id} path parameter to a forest node.
func (s *Server) lookup(r *http.Request) (*tree.Node[string], error) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		return nil, nerrors.Wrap(nerrors.ErrCodeInvalidNodeID, err, "bad node id escape")
	}
	if err := nerrors.ValidateNodeID(id); err != nil {
		return nil, err
	}
	n, ok := s.forest.Node(id)
	if !ok {
		return nil, nerrors.New(nerrors.ErrCodeNodeNotFound, "no node with id %q", id)
	}
	return n, nil
}

func (s *Server) view(n *tree.Node[string]) nodeView {
	v := nodeView{
		ID:       s.idOf(n),
		Value:    n.Value(),
		Frozen:   n.IsFrozen(),
		Parents:  []string{},
		Children: []string{},
	}
	if _, name := n.Resolver(); name != "" {
		v.Resolver = name
	}
	for _, p := range n.Parents() {
		v.Parents = append(v.Parents, s.idOf(p))
	}
	for _, c := range n.Children() {
		v.Children = append(v.Children, s.idOf(c))
	}
	return v
}

// idOf returns the forest id of n, falling back to its value for nodes that
// were not read from the forest file.
func (s *Server) idOf(n *tree.Node[string]) string {
	if id, ok := s.forest.ID(n); ok {
		return id
	}
	return n.Value()
}

func errNotFound(path string) error {
	return nerrors.New(nerrors.ErrCodeNotFound, "no route for %s", path)
}

func writeError(w http.ResponseWriter, err error) {
	e := nerrors.From(err)
	writeJSON(w, e.HTTPStatus(), errorView{Code: e.Code, Message: e.Message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
