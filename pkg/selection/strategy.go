package selection

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodetree/pkg/area"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
	"github.com/matzehuels/nodetree/pkg/geom"
	"github.com/matzehuels/nodetree/pkg/observability"
)

// Mode names a selection strategy.
type Mode string

const (
	ModeLasso  Mode = "lasso"
	ModeWindow Mode = "window"
)

// Modes lists the available strategies.
var Modes = []Mode{ModeLasso, ModeWindow}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeLasso, ModeWindow:
		return m, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidMode, "unknown selection mode %q (want lasso or window)", s)
}

// State is the gesture state of a strategy.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// overlayKey is the key gesture shapes are drawn under.
const overlayKey = "selection"

// Strategy is a selection gesture state machine.
type Strategy interface {
	Handle(ctx context.Context, ev Event) error
	State() State
	Mode() Mode
}

// Options configures a strategy.
type Options struct {
	Logger *log.Logger
}

// New returns the strategy for mode.
func New(mode Mode, c area.Container, ix area.PositionIndex, sel *Selector, opts Options) (Strategy, error) {
	switch mode {
	case ModeLasso:
		return NewLasso(c, ix, sel, opts), nil
	case ModeWindow:
		return NewWindow(c, ix, sel, opts), nil
	}
	_, err := ParseMode(string(mode))
	return nil, err
}

// Replay feeds a complete gesture to s: a press at down, a move to every
// point of path, and a release at the last point.
func Replay(ctx context.Context, s Strategy, down geom.Point, path []geom.Point, accumulate bool) error {
	if err := s.Handle(ctx, PointerDown{At: down, Accumulate: accumulate}); err != nil {
		return err
	}
	up := down
	for _, p := range path {
		if err := s.Handle(ctx, PointerMove{At: p}); err != nil {
			return err
		}
		up = p
	}
	return s.Handle(ctx, PointerUp{At: up})
}

// sweep accumulates the region of one gesture.
type sweep interface {
	begin(p geom.Point)
	extend(p geom.Point)
	// region returns the swept region, or false if it encloses nothing.
	region() (geom.Region, bool)
	// outline is the shape drawn while the gesture is in progress.
	outline() geom.Region
	style() area.Style
}

// gesture is the state machine shared by Lasso and Window.
type gesture struct {
	mu         sync.Mutex
	mode       Mode
	sweep      sweep
	container  area.Container
	index      area.PositionIndex
	selector   *Selector
	logger     *log.Logger
	state      State
	accumulate bool
	started    time.Time
	layer      area.Layer
}

func newGesture(mode Mode, sw sweep, c area.Container, ix area.PositionIndex, sel *Selector, opts Options) *gesture {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &gesture{
		mode:      mode,
		sweep:     sw,
		container: c,
		index:     ix,
		selector:  sel,
		logger:    logger,
	}
}

func (g *gesture) Mode() Mode { return g.mode }

func (g *gesture) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Handle advances the gesture with ev.
func (g *gesture) Handle(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	switch e := ev.(type) {
	case PointerDown:
		g.down(e)
	case PointerMove:
		if g.state != Drawing {
			return nil
		}
		g.sweep.extend(e.At)
		g.draw()
	case PointerUp:
		if g.state != Drawing {
			return nil
		}
		g.finish(ctx)
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unsupported pointer event %T", ev)
	}
	return nil
}

func (g *gesture) down(e PointerDown) {
	if g.state == Drawing {
		g.logger.Debug("gesture restarted", "mode", g.mode)
	}
	g.state = Drawing
	g.accumulate = e.Accumulate
	g.started = time.Now()
	g.layer = g.drawLayer()
	g.sweep.begin(e.At)
	g.draw()
}

// drawLayer returns the overlay layer, creating it if the container has none.
func (g *gesture) drawLayer() area.Layer {
	if l, ok := g.container.Layer(); ok {
		return l
	}
	return g.container.CreateLayer()
}

func (g *gesture) draw() {
	g.layer.Draw(overlayKey, area.Shape{
		Kind:   string(g.mode),
		Region: g.sweep.outline(),
		Style:  g.sweep.style(),
	})
}

func (g *gesture) finish(ctx context.Context) {
	defer g.reset()

	region, ok := g.sweep.region()
	if !ok {
		g.logger.Debug("empty gesture", "mode", g.mode)
		observability.Selection().OnGestureComplete(ctx, string(g.mode), 0, time.Since(g.started))
		return
	}
	hits := HitTest(g.index, region)
	g.selector.Add(g.accumulate, hits...)
	g.logger.Debug("gesture complete", "mode", g.mode, "hits", len(hits), "accumulate", g.accumulate, "selected", g.selector.Len())
	observability.Selection().OnGestureComplete(ctx, string(g.mode), len(hits), time.Since(g.started))
}

func (g *gesture) reset() {
	if g.layer != nil {
		g.layer.Erase(overlayKey)
	}
	g.layer = nil
	g.accumulate = false
	g.state = Idle
	g.sweep.begin(geom.Point{})
}

// HitTest returns the nodes of ix whose on-screen position lies in region.
// Nodes the index cannot resolve are skipped.
func HitTest(ix area.PositionIndex, region geom.Region) []string {
	var hits []string
	for _, id := range ix.NodeIDs() {
		v, ok := ix.Lookup(id)
		if !ok {
			continue
		}
		if region.Contains(v.Position) {
			hits = append(hits, id)
		}
	}
	return hits
}
