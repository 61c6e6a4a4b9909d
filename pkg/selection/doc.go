// Package selection turns pointer gestures into node selections.
//
// A [Strategy] consumes a closed set of pointer events ([PointerDown],
// [PointerMove], [PointerUp]) and moves between two states, Idle and
// Drawing. While drawing it paints a transient shape on the surface
// overlay. On release it hit-tests the position point of every node in the
// [area.PositionIndex] against the swept region and hands the hits to the
// [Selector].
//
// Two strategies exist: [Lasso] sweeps a free-form polygon and [Window]
// sweeps an axis-aligned rectangle. [New] builds either by mode name, so
// callers switch strategies without changing call sites.
//
// The accumulate modifier is read once, from PointerDown. With accumulate
// the gesture's hits are added to the selection; without it the selection
// becomes exactly the hits. A gesture that sweeps no area (a lasso of
// fewer than three points, a window that never moved) changes nothing.
package selection
