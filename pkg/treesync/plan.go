package treesync

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodetree/pkg/dataset"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
	"github.com/matzehuels/nodetree/pkg/geom"
	"github.com/matzehuels/nodetree/pkg/graph"
)

// Layout defaults.
const (
	DefaultSiblingStep  = 300
	DefaultChildStep    = 200
	DefaultLevelStep    = 300
	DefaultLayerSpacing = 300
	DefaultNodeSpacing  = 200
	DefaultFitDelay     = 10 * time.Millisecond
)

// RootLabel is the label of the parametric root node.
const RootLabel = "root"

// Options configures layout and rebuild behavior. Zero fields take the
// defaults; use DefaultOptions to start from them explicitly.
type Options struct {
	// SiblingStep separates consecutive top-level keys.
	SiblingStep float32
	// ChildStep separates siblings below a common parent.
	ChildStep float32
	// LevelStep is the vertical distance between a key and its children.
	LevelStep float32
	// LayerSpacing is the horizontal distance between parametric layers.
	LayerSpacing float32
	// NodeSpacing separates parametric siblings vertically.
	NodeSpacing float32
	// FitDelay is the wait before the post-rebuild viewport fit.
	// A negative delay disables the fit.
	FitDelay time.Duration

	IDs    graph.IDGenerator
	Logger *log.Logger
}

// DefaultOptions returns the default layout.
func DefaultOptions() Options {
	return Options{
		SiblingStep:  DefaultSiblingStep,
		ChildStep:    DefaultChildStep,
		LevelStep:    DefaultLevelStep,
		LayerSpacing: DefaultLayerSpacing,
		NodeSpacing:  DefaultNodeSpacing,
		FitDelay:     DefaultFitDelay,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SiblingStep == 0 {
		o.SiblingStep = d.SiblingStep
	}
	if o.ChildStep == 0 {
		o.ChildStep = d.ChildStep
	}
	if o.LevelStep == 0 {
		o.LevelStep = d.LevelStep
	}
	if o.LayerSpacing == 0 {
		o.LayerSpacing = d.LayerSpacing
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = d.NodeSpacing
	}
	if o.FitDelay == 0 {
		o.FitDelay = d.FitDelay
	}
	if o.IDs == nil {
		o.IDs = graph.UUIDGenerator{}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// NodeSpec is a planned node. Parent is the plan index of its parent, or
// -1 for a root. A parent always precedes its children.
type NodeSpec struct {
	Label    string
	Position geom.Point
	Parent   int
}

// Plan is an ordered layout: nodes in creation order, each connected to its
// parent.
type Plan struct {
	Nodes []NodeSpec
}

// Edges returns the number of parent connections in the plan.
func (p Plan) Edges() int {
	n := 0
	for _, s := range p.Nodes {
		if s.Parent >= 0 {
			n++
		}
	}
	return n
}

func (p *Plan) add(label string, at geom.Point, parent int) int {
	p.Nodes = append(p.Nodes, NodeSpec{Label: label, Position: at, Parent: parent})
	return len(p.Nodes) - 1
}

// PlanTree lays out tree down to layerCount key levels. Leaf labels belong
// to the level of their key. A layer count of zero yields an empty plan.
func PlanTree(tree dataset.Tree, layerCount int, opts Options) (Plan, error) {
	if layerCount < 0 {
		return Plan{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "layer count must not be negative, got %d", layerCount)
	}
	if err := tree.Validate(); err != nil {
		return Plan{}, err
	}
	opts = opts.withDefaults()
	var p Plan
	placeTree(&p, tree, -1, 0, 0, 1, layerCount, opts)
	return p, nil
}

func placeTree(p *Plan, tree dataset.Tree, parent int, x, y float32, depth, layers int, opts Options) {
	if depth > layers {
		return
	}
	for _, e := range tree {
		idx := p.add(e.Key, geom.Pt(x, y), parent)
		switch {
		case len(e.Leaves) > 0:
			cx := centeredStart(x, len(e.Leaves), opts.ChildStep)
			for i, leaf := range e.Leaves {
				p.add(leaf, geom.Pt(cx+float32(i)*opts.ChildStep, y+opts.LevelStep), idx)
			}
		case len(e.Children) > 0:
			cx := centeredStart(x, len(e.Children), opts.ChildStep)
			for i, child := range e.Children {
				placeTree(p, dataset.Tree{child}, idx, cx+float32(i)*opts.ChildStep, y+opts.LevelStep, depth+1, layers, opts)
			}
		}
		x += opts.SiblingStep
	}
}

// centeredStart returns the position of the first of n siblings spaced by
// step and centered on c.
func centeredStart(c float32, n int, step float32) float32 {
	return c - float32(n-1)*step/2
}

// PlanParametric lays out a root with childNodeCount children per node for
// layerCount layers. Layer l sits at x = l*LayerSpacing; children are
// centered vertically on their parent.
func PlanParametric(layerCount, childNodeCount int, opts Options) (Plan, error) {
	if layerCount < 0 {
		return Plan{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "layer count must not be negative, got %d", layerCount)
	}
	if childNodeCount < 1 {
		return Plan{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "child node count must be at least 1, got %d", childNodeCount)
	}
	opts = opts.withDefaults()

	var p Plan
	prev := []int{p.add(RootLabel, geom.Pt(0, 0), -1)}
	for l := 1; l <= layerCount; l++ {
		next := make([]int, 0, len(prev)*childNodeCount)
		x := float32(l) * opts.LayerSpacing
		for _, parent := range prev {
			py := p.Nodes[parent].Position.Y
			for i := range childNodeCount {
				offset := (float32(i) - float32(childNodeCount-1)/2) * opts.NodeSpacing
				label := fmt.Sprintf("%d.%d", l, len(next)+1)
				next = append(next, p.add(label, geom.Pt(x, py+offset), parent))
			}
		}
		prev = next
	}
	return p, nil
}
