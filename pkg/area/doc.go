// Package area is the rendering surface a nodetree editor draws on.
//
// [Surface] is the contract the rebuild engine and the selection gestures
// program against: context-taking graph mutations (AddNode, RemoveNode,
// AddConnection, RemoveConnection, Translate), synchronous snapshots
// (Nodes, Connections), per-node views, an overlay [Container] for
// transient gesture shapes, and a viewport fit (ZoomAt).
//
// [Area] is the in-memory implementation. It keeps node views in canvas
// space and maps them to screen space through a [Camera]. The camera fits
// the viewport to a node set with an ease-in-out tween (github.com/tanema/gween)
// advanced by [Area.Animate].
//
// [PositionIndex] is the read side used by hit-testing: [Area.Index]
// returns on-screen positions and sizes, and reports nodes that are gone
// as not found.
//
// Area is safe for concurrent use.
package area
