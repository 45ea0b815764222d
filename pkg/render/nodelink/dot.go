package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodegraph/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the frozen state, resolver name and parent count to
	// node labels. When false, only the value is shown.
	Detailed bool

	// RankDir is the Graphviz rankdir. Defaults to "TB".
	RankDir string
}

// ToDOT converts the graph reachable from roots to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT[V cmp.Ordered](opts Options, roots ...*tree.Node[V]) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	order, ids := number(roots)
	for _, n := range order {
		fmt.Fprintf(&buf, "  %s [%s];\n", ids[n], strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
	}

	buf.WriteString("\n")
	for _, n := range order {
		for _, c := range n.Children() {
			fmt.Fprintf(&buf, "  %s -> %s;\n", ids[n], ids[c])
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// number assigns n0, n1, ... to each handle in first-visit pre-order.
func number[V cmp.Ordered](roots []*tree.Node[V]) ([]*tree.Node[V], map[*tree.Node[V]]string) {
	var order []*tree.Node[V]
	ids := make(map[*tree.Node[V]]string)
	for _, r := range roots {
		r.Accept(tree.VisitorFunc[V](func(n *tree.Node[V]) bool {
			if _, ok := ids[n]; ok {
				return false
			}
			ids[n] = "n" + strconv.Itoa(len(order))
			order = append(order, n)
			return true
		}))
	}
	return order, ids
}

func fmtLabel[V cmp.Ordered](n *tree.Node[V], detailed bool) string {
	label := fmt.Sprint(n.Value())
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("frozen: %t", n.IsFrozen())}
	if _, name := n.Resolver(); name != "" {
		parts = append(parts, "resolver: "+name)
	}
	parts = append(parts, fmt.Sprintf("parents: %d", n.ParentCount()))
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs[V cmp.Ordered](n *tree.Node[V], label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	_, resolver := n.Resolver()
	switch {
	case n.IsFrozen() && resolver != "":
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case n.IsFrozen():
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag with one that has a zero
// origin viewBox and matching pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
