// Package nodelink renders editor graphs as node-link diagrams.
//
// # Overview
//
// [ToDOT] converts a [graph.Snapshot] to Graphviz DOT source. Every node is
// a rounded box of the node's size, pinned at its editor position, with an
// arrow to each child. Selected nodes are filled. [RenderSVG] lays the
// source out with neato, which keeps pinned positions, and renders it
// in-process.
//
// # Usage
//
//	dot := nodelink.ToDOT(area.Snapshot(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Coordinates
//
// Editor positions are the top-left corner of a node in canvas units with y
// pointing down. DOT positions are node centers in points with y pointing
// up, so ToDOT shifts by half the node size and flips y. One canvas unit is
// one point.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
//
// [graph.Snapshot]: github.com/matzehuels/nodetree/pkg/graph.Snapshot
package nodelink
