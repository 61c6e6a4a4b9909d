package area

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodetree/pkg/geom"
	"github.com/matzehuels/nodetree/pkg/graph"
)

// DefaultViewport is the screen rectangle used when Options.Viewport is empty.
var DefaultViewport = geom.R(0, 0, 1280, 720)

// Options configures an Area.
type Options struct {
	Viewport    geom.Rect
	FitDuration time.Duration // zero means DefaultFitDuration; negative snaps
	FitPadding  float32
	Logger      *log.Logger
}

// Area is the in-memory Surface. Node views are kept in canvas space.
type Area struct {
	mu     sync.RWMutex
	graph  *graph.Graph
	views  map[string]*NodeView
	camera *Camera
	logger *log.Logger

	overlay overlayContainer

	removeMu  sync.Mutex
	onRemove  map[int]func(id string)
	removeSeq int
}

// New returns an empty Area.
func New(opts Options) *Area {
	vp := opts.Viewport
	if vp.Width() <= 0 || vp.Height() <= 0 {
		vp = DefaultViewport
	}
	cam := NewCamera(vp)
	switch {
	case opts.FitDuration < 0:
		cam.Duration = 0
	case opts.FitDuration > 0:
		cam.Duration = opts.FitDuration
	}
	if opts.FitPadding > 0 {
		cam.Padding = opts.FitPadding
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Area{
		graph:    graph.New(),
		views:    make(map[string]*NodeView),
		camera:   cam,
		logger:   logger,
		onRemove: make(map[int]func(string)),
	}
}

// AddNode adds a copy of n and renders it at n.Position.
func (a *Area) AddNode(ctx context.Context, n *graph.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := n.Clone()
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.graph.AddNode(c); err != nil {
		return err
	}
	a.views[c.ID] = &NodeView{Position: c.Position, Width: c.Width, Height: c.Height}
	return nil
}

// RemoveNode removes a node. Its connections must be removed first.
func (a *Area) RemoveNode(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	err := a.graph.RemoveNode(id)
	if err == nil {
		delete(a.views, id)
	}
	a.mu.Unlock()
	if err != nil {
		return err
	}
	a.notifyRemoved(id)
	return nil
}

// AddConnection adds a copy of c.
func (a *Area) AddConnection(ctx context.Context, c *graph.Connection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.graph.AddConnection(c.Clone())
}

// RemoveConnection removes a connection.
func (a *Area) RemoveConnection(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.graph.RemoveConnection(id)
}

// Translate moves a node to the canvas position to.
func (a *Area) Translate(ctx context.Context, id string, to geom.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	n, ok := a.graph.Node(id)
	if !ok {
		return fmt.Errorf("translate %q: %w", id, graph.ErrUnknownNode)
	}
	n.Position = to
	a.views[id].Position = to
	return nil
}

// Nodes returns copies of the current nodes in insertion order.
func (a *Area) Nodes() []*graph.Node {
	a.mu.RLock()
	defer a.mu.RUnlock()
	nodes := a.graph.Nodes()
	out := make([]*graph.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Connections returns copies of the current connections.
func (a *Area) Connections() []*graph.Connection {
	a.mu.RLock()
	defer a.mu.RUnlock()
	conns := a.graph.Connections()
	out := make([]*graph.Connection, len(conns))
	for i, c := range conns {
		out[i] = c.Clone()
	}
	return out
}

// NodeView returns the canvas-space view of a node.
func (a *Area) NodeView(id string) (NodeView, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.views[id]
	if !ok {
		return NodeView{}, false
	}
	return *v, true
}

// Snapshot returns the current graph with selection marks.
func (a *Area) Snapshot() graph.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.graph.Snapshot()
	for i := range s.Nodes {
		if v, ok := a.views[s.Nodes[i].ID]; ok {
			s.Nodes[i].Selected = v.Selected
		}
	}
	return s
}

// Validate checks that no connection references a missing node.
func (a *Area) Validate() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.graph.Validate()
}

// Container returns the overlay container.
func (a *Area) Container() Container { return &a.overlay }

// Overlay returns the shapes currently drawn on the overlay layer.
func (a *Area) Overlay() []Shape { return a.overlay.shapes() }

// ZoomAt fits the viewport to the boxes of nodes. Nodes not rendered on
// the area are ignored; if none remain the viewport is left alone.
func (a *Area) ZoomAt(ctx context.Context, nodes []*graph.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	var pts []geom.Point
	for _, n := range nodes {
		v, ok := a.views[n.ID]
		if !ok {
			continue
		}
		b := v.Box()
		pts = append(pts, b.Min, b.Max)
	}
	if len(pts) == 0 {
		return nil
	}
	box := geom.Bounds(pts)
	a.camera.Fit(box)
	a.logger.Debug("zoom at", "nodes", len(nodes), "box", box.PathData(), "animated", a.camera.Animating())
	return nil
}

// Animate advances the camera by dt and reports whether it is still moving.
func (a *Area) Animate(dt time.Duration) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera.Update(dt)
	return a.camera.Animating()
}

// Camera returns a copy of the camera state.
func (a *Area) Camera() Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return *a.camera
}

// SetViewport resizes the screen rectangle the camera renders into.
func (a *Area) SetViewport(vp geom.Rect) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera.Viewport = vp
}

// ScreenToWorld converts a screen point to canvas coordinates.
func (a *Area) ScreenToWorld(p geom.Point) geom.Point {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera.ScreenToWorld(p)
}

// Index returns the on-screen position index of the area.
func (a *Area) Index() PositionIndex { return index{a} }

// OnNodeRemoved registers fn to run after a node is removed.
func (a *Area) OnNodeRemoved(fn func(id string)) (remove func()) {
	a.removeMu.Lock()
	defer a.removeMu.Unlock()
	a.removeSeq++
	key := a.removeSeq
	a.onRemove[key] = fn
	return func() {
		a.removeMu.Lock()
		defer a.removeMu.Unlock()
		delete(a.onRemove, key)
	}
}

func (a *Area) notifyRemoved(id string) {
	a.removeMu.Lock()
	fns := make([]func(string), 0, len(a.onRemove))
	for _, fn := range a.onRemove {
		fns = append(fns, fn)
	}
	a.removeMu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}

// index maps canvas views to screen space through the camera.
type index struct{ a *Area }

func (ix index) NodeIDs() []string {
	ix.a.mu.RLock()
	defer ix.a.mu.RUnlock()
	return ix.a.graph.NodeIDs()
}

func (ix index) Lookup(id string) (NodeView, bool) {
	ix.a.mu.RLock()
	defer ix.a.mu.RUnlock()
	v, ok := ix.a.views[id]
	if !ok {
		return NodeView{}, false
	}
	cam := ix.a.camera
	return NodeView{
		Position: cam.WorldToScreen(v.Position),
		Width:    v.Width * cam.Zoom,
		Height:   v.Height * cam.Zoom,
		Selected: v.Selected,
	}, true
}

var _ Surface = (*Area)(nil)
