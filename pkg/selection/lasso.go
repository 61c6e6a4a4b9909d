package selection

import (
	"slices"

	"github.com/matzehuels/nodetree/pkg/area"
	"github.com/matzehuels/nodetree/pkg/geom"
)

// LassoStyle is the overlay style of a lasso outline.
var LassoStyle = area.Style{Fill: "rgba(99, 241, 102, 0.2)", Stroke: "#999", StrokeWidth: 2}

// Lasso selects the nodes inside a free-form polygon traced by the pointer.
type Lasso struct {
	*gesture
}

// NewLasso returns an idle lasso.
func NewLasso(c area.Container, ix area.PositionIndex, sel *Selector, opts Options) *Lasso {
	return &Lasso{newGesture(ModeLasso, &lassoSweep{}, c, ix, sel, opts)}
}

type lassoSweep struct {
	points geom.Polygon
}

func (s *lassoSweep) begin(p geom.Point) { s.points = geom.Polygon{p} }

func (s *lassoSweep) extend(p geom.Point) { s.points = append(s.points, p) }

func (s *lassoSweep) region() (geom.Region, bool) {
	if len(s.points) < 3 {
		return nil, false
	}
	return slices.Clone(s.points), true
}

func (s *lassoSweep) outline() geom.Region { return slices.Clone(s.points) }

func (s *lassoSweep) style() area.Style { return LassoStyle }
