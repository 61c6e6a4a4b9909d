package treesync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodetree/pkg/area"
	"github.com/matzehuels/nodetree/pkg/dataset"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
	"github.com/matzehuels/nodetree/pkg/graph"
	"github.com/matzehuels/nodetree/pkg/observability"
)

// Rebuild modes reported to hooks and logs.
const (
	ModeTree       = "tree"
	ModeParametric = "parametric"
)

// Result describes a completed rebuild.
type Result struct {
	Nodes       []*graph.Node
	Connections []*graph.Connection
	Duration    time.Duration
}

// Snapshot returns the rebuilt graph as records.
func (r Result) Snapshot() graph.Snapshot {
	return graph.NewSnapshot(r.Nodes, r.Connections)
}

// Engine rebuilds the graph on a surface. Rebuilds are serialized.
type Engine struct {
	surface area.Surface
	opts    Options
	logger  *log.Logger

	mu sync.Mutex

	fitMu    sync.Mutex
	fitTimer *time.Timer
}

// New returns an engine drawing on surface.
func New(surface area.Surface, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{surface: surface, opts: opts, logger: opts.Logger}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// SyncTree replaces the graph with the layout of tree bounded by layerCount.
// An invalid tree fails before the current graph is touched.
func (e *Engine) SyncTree(ctx context.Context, tree dataset.Tree, layerCount int) (Result, error) {
	plan, err := PlanTree(tree, layerCount, e.opts)
	if err != nil {
		return Result{}, err
	}
	return e.Apply(ctx, ModeTree, plan)
}

// SyncParametric replaces the graph with a uniform tree of layerCount
// layers and childNodeCount children per node.
func (e *Engine) SyncParametric(ctx context.Context, layerCount, childNodeCount int) (Result, error) {
	plan, err := PlanParametric(layerCount, childNodeCount, e.opts)
	if err != nil {
		return Result{}, err
	}
	return e.Apply(ctx, ModeParametric, plan)
}

// Apply tears down the current graph and builds plan in its place.
func (e *Engine) Apply(ctx context.Context, mode string, plan Plan) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	observability.Rebuild().OnRebuildStart(ctx, mode)
	res, err := e.apply(ctx, plan)
	res.Duration = time.Since(start)
	observability.Rebuild().OnRebuildComplete(ctx, mode, len(res.Nodes), len(res.Connections), res.Duration, err)

	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeInternal) {
			e.logger.Error("rebuild failed", "mode", mode, "err", err)
		}
		return res, err
	}
	e.logger.Debug("rebuild complete", "mode", mode, "nodes", len(res.Nodes), "connections", len(res.Connections), "duration", res.Duration)
	e.scheduleFit()
	return res, nil
}

func (e *Engine) apply(ctx context.Context, plan Plan) (Result, error) {
	if err := e.teardown(ctx); err != nil {
		return Result{}, err
	}

	res := Result{
		Nodes:       make([]*graph.Node, 0, len(plan.Nodes)),
		Connections: make([]*graph.Connection, 0, plan.Edges()),
	}
	for _, spec := range plan.Nodes {
		n := graph.NewNode(e.opts.IDs.NewID(), spec.Label)
		if err := e.surface.AddNode(ctx, n); err != nil {
			return res, fmt.Errorf("add node %q: %w", spec.Label, err)
		}
		if err := e.surface.Translate(ctx, n.ID, spec.Position); err != nil {
			return res, fmt.Errorf("translate node %q: %w", spec.Label, err)
		}
		n.Position = spec.Position
		res.Nodes = append(res.Nodes, n)

		if spec.Parent < 0 {
			continue
		}
		if spec.Parent >= len(res.Nodes)-1 {
			return res, apperrors.New(apperrors.ErrCodeInternal, "node %q planned before its parent", spec.Label)
		}
		parent := res.Nodes[spec.Parent]
		c := graph.Connect(e.opts.IDs.NewID(), parent, n)
		if err := e.surface.AddConnection(ctx, c); err != nil {
			return res, apperrors.Wrap(apperrors.ErrCodeInternal, err, "connect %q -> %q", parent.Label, n.Label)
		}
		res.Connections = append(res.Connections, c)
	}
	return res, nil
}

// teardown removes every connection, then every node.
func (e *Engine) teardown(ctx context.Context) error {
	for _, c := range e.surface.Connections() {
		if err := e.surface.RemoveConnection(ctx, c.ID); err != nil {
			return fmt.Errorf("remove connection %s: %w", c.ID, err)
		}
	}
	for _, n := range e.surface.Nodes() {
		if err := e.surface.RemoveNode(ctx, n.ID); err != nil {
			return fmt.Errorf("remove node %s: %w", n.ID, err)
		}
	}
	return nil
}

// scheduleFit fits the viewport to the current nodes after FitDelay,
// replacing a fit that has not fired yet.
func (e *Engine) scheduleFit() {
	if e.opts.FitDelay < 0 {
		return
	}
	e.fitMu.Lock()
	defer e.fitMu.Unlock()
	if e.fitTimer != nil {
		e.fitTimer.Stop()
	}
	e.fitTimer = time.AfterFunc(e.opts.FitDelay, func() {
		nodes := e.surface.Nodes()
		if err := e.surface.ZoomAt(context.Background(), nodes); err != nil {
			e.logger.Warn("viewport fit failed", "err", err)
		}
	})
}

// Close cancels a pending viewport fit.
func (e *Engine) Close() {
	e.fitMu.Lock()
	defer e.fitMu.Unlock()
	if e.fitTimer != nil {
		e.fitTimer.Stop()
		e.fitTimer = nil
	}
}
