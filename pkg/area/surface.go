package area

import (
	"context"

	"github.com/matzehuels/nodetree/pkg/geom"
	"github.com/matzehuels/nodetree/pkg/graph"
)

// NodeView is the rendered state of a node.
type NodeView struct {
	Position geom.Point
	Width    float32
	Height   float32
	Selected bool
}

// Box returns the rectangle covered by the view.
func (v NodeView) Box() geom.Rect {
	return geom.R(v.Position.X, v.Position.Y, v.Position.X+v.Width, v.Position.Y+v.Height)
}

// Surface is the rendering surface contract. Mutations block until the
// surface has applied them and honor ctx cancellation.
type Surface interface {
	AddNode(ctx context.Context, n *graph.Node) error
	RemoveNode(ctx context.Context, id string) error
	AddConnection(ctx context.Context, c *graph.Connection) error
	RemoveConnection(ctx context.Context, id string) error
	// Translate moves a node to the given canvas position.
	Translate(ctx context.Context, id string, to geom.Point) error

	// Nodes returns a snapshot of the current nodes in insertion order.
	Nodes() []*graph.Node
	// Connections returns a snapshot of the current connections.
	Connections() []*graph.Connection
	// NodeView returns the canvas-space view of a rendered node.
	NodeView(id string) (NodeView, bool)

	// Container holds the overlay layer for transient gesture shapes.
	Container() Container

	// ZoomAt fits the viewport to the given nodes.
	ZoomAt(ctx context.Context, nodes []*graph.Node) error
}

// PositionIndex maps node identifiers to their current on-screen view.
// Lookup reports false for nodes that were removed or never rendered.
type PositionIndex interface {
	NodeIDs() []string
	Lookup(id string) (NodeView, bool)
}

// Container holds the drawable overlay layer of a surface. A surface may
// start without one; callers create it on demand.
type Container interface {
	Layer() (Layer, bool)
	CreateLayer() Layer
}

// Layer is a drawable overlay on which shapes are painted by key.
type Layer interface {
	Draw(key string, s Shape)
	Erase(key string)
}

// Style describes how an overlay shape is painted.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float32
	Dashed      bool
}

// Shape is a transient overlay drawing, such as a lasso outline.
type Shape struct {
	Kind   string
	Region geom.Region
	Style  Style
}

// Path returns the SVG path data of the shape outline.
func (s Shape) Path() string {
	if s.Region == nil {
		return ""
	}
	return s.Region.PathData()
}
