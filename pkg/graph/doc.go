// Package graph provides the typed node graph that nodetree builds and
// displays.
//
// # Overview
//
// A [Graph] holds [Node] records and the [Connection] records between them.
// Every node carries a label, a canvas position, a fixed size used for
// hit-testing, and ordered input and output [Port] lists. Ports are typed by
// a [Socket]; nodetree uses the single universal socket [DefaultSocket] and
// one port pair keyed [PortKey] per node.
//
// # Invariants
//
// The graph enforces the structural rules the rebuild engine relies on:
//
//   - node identifiers are unique ([ErrDuplicateNodeID]);
//   - a connection can only be added when both endpoint nodes and ports
//     exist ([ErrUnknownSourceNode], [ErrUnknownTargetNode], [ErrUnknownPort]);
//   - a node cannot be removed while a connection references it
//     ([ErrNodeConnected]), so a connection never outlives an endpoint.
//
// [Graph.Validate] re-checks endpoint existence for the whole graph.
//
// # Basic Usage
//
//	g := graph.New()
//	root := graph.NewNode("n1", "root")
//	leaf := graph.NewNode("n2", "leaf")
//	_ = g.AddNode(root)
//	_ = g.AddNode(leaf)
//	_ = g.AddConnection(graph.Connect("c1", root, leaf))
//
// # Identifiers
//
// Identifiers come from an [IDGenerator]. [UUIDGenerator] draws random UUIDs
// for live editor sessions; [SequentialIDs] yields predictable identifiers
// for tests and examples.
//
// # Serialization
//
// [Snapshot] is the JSON form used by the CLI and the HTTP API. It is an
// export format only; the graph is never loaded back from it.
//
// # Concurrency
//
// Graph is not safe for concurrent use without external synchronization.
// The rendering surface in package area wraps it with a mutex.
package graph
