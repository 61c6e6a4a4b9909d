package geom

import (
	"cogentcore.org/core/math32"
)

// Rect is an axis-aligned rectangle. Containment includes the edges.
type Rect struct {
	math32.Box2
}

// R returns the rectangle with the given left, top, right and bottom edges.
func R(left, top, right, bottom float32) Rect {
	return Rect{math32.B2(left, top, right, bottom).Canon()}
}

// RectFromCorners returns the rectangle spanned by two opposite corners,
// in any order.
func RectFromCorners(a, b Point) Rect {
	return Rect{math32.Box2{Min: a, Max: b}.Canon()}
}

// Left returns the minimum x coordinate.
func (r Rect) Left() float32 { return r.Min.X }

// Top returns the minimum y coordinate.
func (r Rect) Top() float32 { return r.Min.Y }

// Right returns the maximum x coordinate.
func (r Rect) Right() float32 { return r.Max.X }

// Bottom returns the maximum y coordinate.
func (r Rect) Bottom() float32 { return r.Max.Y }

// Width returns the horizontal extent.
func (r Rect) Width() float32 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

// IsEmpty reports whether r encloses no point, as the bounds of no points do.
func (r Rect) IsEmpty() bool { return r.Box2.IsEmpty() }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool { return PointInRect(p, r) }

// Bounds returns r.
func (r Rect) Bounds() Rect { return r }

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() []Point {
	return []Point{
		Pt(r.Min.X, r.Min.Y),
		Pt(r.Max.X, r.Min.Y),
		Pt(r.Max.X, r.Max.Y),
		Pt(r.Min.X, r.Max.Y),
	}
}

// PathData renders the rectangle outline as a closed SVG path.
func (r Rect) PathData() string { return PathData(r.Corners()) }

var _ Region = Rect{}
