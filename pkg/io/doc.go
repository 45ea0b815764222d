// Package io provides JSON import and export for string-valued node graphs.
//
// # Overview
//
// The graph format is a flat node list and an edge list, easy to write by
// hand or to produce from other tools. It is separate from the persistence
// protocol in [tree.Encode]; [EncodeFile] and [DecodeFile] wrap that
// protocol for files.
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": "app"},
//	    {"id": "lib", "frozen": true},
//	    {"id": "util#2", "value": "util"}
//	  ],
//	  "edges": [
//	    {"from": "app", "to": "lib"},
//	    {"from": "lib", "to": "util#2"}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: unique identifier used by edges
//
// Optional:
//   - value: node value, defaults to id. Several nodes may share a value.
//   - frozen: freeze the node (and so its descendants) after all edges are added
//
// # Import
//
// [ReadJSON] and [ImportJSON] build nodes with [tree.New] and edges with
// [tree.Node.AddChild], so every edge goes through the cycle guard. Errors
// name the node or edge that caused them.
//
//	f, err := io.ImportJSON("graph.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, root := range f.Roots() {
//	    fmt.Println(root)
//	}
//
// # Export
//
// [WriteJSON] and [ExportJSON] write every node reachable from the given
// roots through child edges, one entry per node handle. A value held by
// several handles gets suffixed ids ("util", "util#2").
//
// # Concurrency
//
// A [Forest] is not safe for concurrent mutation. Export only reads, so it
// may run concurrently on frozen graphs.
package io
