package geom

import (
	"cogentcore.org/core/math32"
)

// Point is a 2D coordinate in screen or canvas space.
type Point = math32.Vector2

// Pt returns the point (x, y).
func Pt(x, y float32) Point { return math32.Vec2(x, y) }

// Region is the closed shape swept out by a selection gesture.
type Region interface {
	// Contains reports whether p lies inside the region.
	Contains(p Point) bool
	// PathData renders the region outline as SVG path data.
	PathData() string
	// Bounds returns the axis-aligned bounding box of the region.
	Bounds() Rect
}

// PointInPolygon reports whether p lies inside the polygon described by
// vertices, using the nonzero winding rule: p is inside when the outline
// winds around it at least once. A lasso that loops over itself keeps its
// inner area. The vertex sequence is treated as an implicitly closed path.
// Fewer than three vertices enclose nothing.
func PointInPolygon(p Point, vertices []Point) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	winding := 0
	for i := range n {
		a, b := vertices[i], vertices[(i+1)%n]
		switch {
		case a.Y <= p.Y && b.Y > p.Y && side(a, b, p) > 0:
			winding++
		case a.Y > p.Y && b.Y <= p.Y && side(a, b, p) < 0:
			winding--
		}
	}
	return winding != 0
}

// side is positive when p lies left of the directed line a->b, negative
// when right, and zero when on it.
func side(a, b, p Point) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
}

// PointInRect reports whether p lies inside r, bounds included.
func PointInRect(p Point, r Rect) bool {
	return r.Box2.ContainsPoint(p)
}

// Bounds returns the bounding box of points. The box of no points is empty.
func Bounds(points []Point) Rect {
	b := math32.B2Empty()
	for _, p := range points {
		b.ExpandByPoint(p)
	}
	return Rect{b}
}
