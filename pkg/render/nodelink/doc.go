// Package nodelink renders node graphs as node-link diagrams using Graphviz.
//
// [ToDOT] walks every node reachable from the given roots and emits a DOT
// digraph. Vertices are keyed by node handle, so two distinct nodes with
// equal values are drawn separately and a shared node is drawn once with
// several incoming edges. [RenderSVG] lays the DOT out with the Graphviz
// WebAssembly build bundled by go-graphviz; no system Graphviz is needed.
package nodelink
