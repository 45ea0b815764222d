// Package render turns node graphs into pictures.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage writes Graphviz DOT with one vertex per node
// handle and renders it to SVG through go-graphviz. Frozen nodes are filled
// grey; frozen nodes with a resolver, which persist by value only, get a
// dashed outline.
//
//	dot := nodelink.ToDOT(opts, root)
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Terminal Trees
//
// The [text] subpackage prints a graph as an indented tree with
// lipgloss/tree. A node reachable through several paths is expanded once
// and marked as shared on later paths.
//
//	fmt.Println(text.Render(root, text.Options{MaxDepth: 3}))
//
// [nodelink]: github.com/matzehuels/nodegraph/pkg/render/nodelink
// [text]: github.com/matzehuels/nodegraph/pkg/render/text
package render
