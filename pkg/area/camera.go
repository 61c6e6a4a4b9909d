package area

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/matzehuels/nodetree/pkg/geom"
)

// Defaults for the viewport fit.
const (
	DefaultFitDuration = 500 * time.Millisecond
	DefaultFitPadding  = 0.1
	// MaxZoom caps the zoom reached by a fit, so a single node is not
	// blown up to fill the viewport.
	MaxZoom = 1.0
)

// fitAnim holds the active tweens of a viewport fit.
type fitAnim struct {
	x, y, zoom *gween.Tween
	done       [3]bool
}

// Camera maps canvas coordinates into the viewport. X and Y are the canvas
// position at the viewport center. Camera is not safe for concurrent use;
// Area guards its camera.
type Camera struct {
	X, Y     float32
	Zoom     float32
	Viewport geom.Rect

	// Padding is the fraction of the viewport left free around a fit.
	Padding float32
	// Duration of the fit animation. Zero or less snaps immediately.
	Duration time.Duration
	Ease     ease.TweenFunc

	anim *fitAnim
}

// NewCamera returns a camera over viewport with an identity transform:
// canvas coordinates equal screen coordinates until the first fit.
func NewCamera(viewport geom.Rect) *Camera {
	c := viewport.Center()
	return &Camera{
		X:        c.X,
		Y:        c.Y,
		Zoom:     1,
		Viewport: viewport,
		Padding:  DefaultFitPadding,
		Duration: DefaultFitDuration,
		Ease:     ease.InOutQuad,
	}
}

// WorldToScreen converts a canvas point to screen coordinates.
func (c *Camera) WorldToScreen(p geom.Point) geom.Point {
	center := c.Viewport.Center()
	return geom.Pt(center.X+(p.X-c.X)*c.Zoom, center.Y+(p.Y-c.Y)*c.Zoom)
}

// ScreenToWorld converts a screen point to canvas coordinates.
func (c *Camera) ScreenToWorld(p geom.Point) geom.Point {
	center := c.Viewport.Center()
	z := c.Zoom
	if z == 0 {
		z = 1
	}
	return geom.Pt(c.X+(p.X-center.X)/z, c.Y+(p.Y-center.Y)/z)
}

// Fit targets the camera at box. The move is animated unless Duration is
// zero or less. An empty box is ignored.
func (c *Camera) Fit(box geom.Rect) {
	if box.IsEmpty() {
		return
	}
	center := box.Center()
	zoom := c.fitZoom(box)
	if c.Duration <= 0 {
		c.X, c.Y, c.Zoom = center.X, center.Y, zoom
		c.anim = nil
		return
	}
	fn := c.Ease
	if fn == nil {
		fn = ease.InOutQuad
	}
	d := float32(c.Duration.Seconds())
	c.anim = &fitAnim{
		x:    gween.New(c.X, center.X, d, fn),
		y:    gween.New(c.Y, center.Y, d, fn),
		zoom: gween.New(c.Zoom, zoom, d, fn),
	}
}

func (c *Camera) fitZoom(box geom.Rect) float32 {
	avail := 1 - 2*c.Padding
	if avail <= 0 {
		avail = 1
	}
	vw, vh := c.Viewport.Width()*avail, c.Viewport.Height()*avail
	bw, bh := box.Width(), box.Height()
	zoom := float32(MaxZoom)
	if bw > 0 {
		zoom = math32.Min(zoom, vw/bw)
	}
	if bh > 0 {
		zoom = math32.Min(zoom, vh/bh)
	}
	if zoom <= 0 {
		return c.Zoom
	}
	return zoom
}

// Animating reports whether a fit animation is in progress.
func (c *Camera) Animating() bool { return c.anim != nil }

// Update advances the fit animation by dt.
func (c *Camera) Update(dt time.Duration) {
	a := c.anim
	if a == nil {
		return
	}
	s := float32(dt.Seconds())
	step := func(i int, tw *gween.Tween, dst *float32) {
		if a.done[i] {
			return
		}
		v, done := tw.Update(s)
		*dst = v
		a.done[i] = done
	}
	step(0, a.x, &c.X)
	step(1, a.y, &c.Y)
	step(2, a.zoom, &c.Zoom)
	if a.done[0] && a.done[1] && a.done[2] {
		c.anim = nil
	}
}
