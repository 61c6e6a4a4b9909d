// Package geom provides the point and region math behind selection gestures.
//
// Points and boxes are [math32.Vector2] and [math32.Box2] values from
// cogentcore.org/core/math32. A gesture produces a [Region]: either a
// freeform [Polygon] (lasso) or an axis-aligned [Rect] (window). Both
// regions test containment of a single point and can render themselves as
// SVG path data for the transient overlay.
//
// All functions are pure and deterministic for identical inputs.
//
//	lasso := geom.Polygon{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(50, 100)}
//	lasso.Contains(geom.Pt(50, 40)) // true
//	lasso.PathData()                 // "M 0 0 L 100 0 L 50 100 Z"
package geom
