package selection

import (
	"github.com/matzehuels/nodetree/pkg/area"
	"github.com/matzehuels/nodetree/pkg/geom"
)

// WindowStyle is the overlay style of a selection window.
var WindowStyle = area.Style{Fill: "rgba(246, 161, 32, 0.2)", Stroke: "#999", StrokeWidth: 2, Dashed: true}

// Window selects the nodes inside the rectangle spanned by the press point
// and the current pointer position.
type Window struct {
	*gesture
}

// NewWindow returns an idle window selection.
func NewWindow(c area.Container, ix area.PositionIndex, sel *Selector, opts Options) *Window {
	return &Window{newGesture(ModeWindow, &windowSweep{}, c, ix, sel, opts)}
}

type windowSweep struct {
	anchor, current geom.Point
	moved           bool
}

func (s *windowSweep) begin(p geom.Point) {
	s.anchor, s.current, s.moved = p, p, false
}

func (s *windowSweep) extend(p geom.Point) {
	s.current, s.moved = p, true
}

func (s *windowSweep) region() (geom.Region, bool) {
	if !s.moved {
		return nil, false
	}
	return geom.RectFromCorners(s.anchor, s.current), true
}

func (s *windowSweep) outline() geom.Region { return geom.RectFromCorners(s.anchor, s.current) }

func (s *windowSweep) style() area.Style { return WindowStyle }
