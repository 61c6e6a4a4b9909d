package selection

import "github.com/matzehuels/nodetree/pkg/geom"

// Event is a pointer event. The set of events is closed: PointerDown,
// PointerMove and PointerUp.
type Event interface {
	pointer() geom.Point
}

// PointerDown starts a gesture. Accumulate is the modifier state (Ctrl)
// at press time and applies to the whole gesture.
type PointerDown struct {
	At         geom.Point
	Accumulate bool
}

// PointerMove extends a gesture in progress.
type PointerMove struct {
	At geom.Point
}

// PointerUp finalizes a gesture in progress.
type PointerUp struct {
	At geom.Point
}

func (e PointerDown) pointer() geom.Point { return e.At }
func (e PointerMove) pointer() geom.Point { return e.At }
func (e PointerUp) pointer() geom.Point   { return e.At }
