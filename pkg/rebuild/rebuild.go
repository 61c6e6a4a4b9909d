// Package rebuild keeps the editor graph in step with the configuration
// store.
//
// A [Controller] subscribes to a [Source] and rebuilds the graph through a
// [Builder] after every change. Notifications only mark a rebuild as
// pending; a single worker performs it from the latest state, so a burst
// of changes collapses into one rebuild of the final configuration.
package rebuild

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodetree/pkg/dataset"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
	"github.com/matzehuels/nodetree/pkg/store"
	"github.com/matzehuels/nodetree/pkg/treesync"
)

// Mode selects the layout a controller rebuilds with.
type Mode string

const (
	// ModeTree lays out the data set, bounded by the layer count.
	ModeTree Mode = treesync.ModeTree
	// ModeParametric grows a uniform tree from the layer and child counts.
	ModeParametric Mode = treesync.ModeParametric
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeTree, ModeParametric:
		return m, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidMode, "unknown layout mode %q (want tree or parametric)", s)
}

// ErrStarted is returned by Start on a controller that is already running.
var ErrStarted = errors.New("rebuild: controller already started")

// Source is the configuration store.
type Source interface {
	GetState() store.State
	Subscribe(fn func()) (unsubscribe func())
}

// Builder rebuilds the graph.
type Builder interface {
	SyncTree(ctx context.Context, tree dataset.Tree, layerCount int) (treesync.Result, error)
	SyncParametric(ctx context.Context, layerCount, childNodeCount int) (treesync.Result, error)
}

// Options configures a Controller.
type Options struct {
	Mode Mode
	// OnRebuild runs after every successful rebuild, including the initial
	// one. It must not call Stop.
	OnRebuild func(treesync.Result)
	// OnError runs on the worker after every failed rebuild.
	OnError func(error)
	Logger  *log.Logger
}

// Controller rebuilds the graph whenever the source changes.
type Controller struct {
	source  Source
	builder Builder
	opts    Options
	logger  *log.Logger

	pending chan struct{}

	mu          sync.Mutex
	started     bool
	unsubscribe func()
	cancel      context.CancelFunc
	done        chan struct{}
}

// New returns a stopped controller. An empty mode means ModeTree.
func New(source Source, builder Builder, opts Options) *Controller {
	if opts.Mode == "" {
		opts.Mode = ModeTree
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		source:  source,
		builder: builder,
		opts:    opts,
		logger:  logger,
		pending: make(chan struct{}, 1),
	}
}

// Mode returns the layout mode.
func (c *Controller) Mode() Mode { return c.opts.Mode }

// Start subscribes to the source, builds the graph from the current state,
// and rebuilds on every change until ctx is done or Stop is called. Changes
// that land during the initial build are picked up by the worker. A failed
// initial build is returned and leaves the controller stopped.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return ErrStarted
	}
	unsubscribe := c.source.Subscribe(c.notify)
	res, err := c.Rebuild(ctx)
	if err != nil {
		unsubscribe()
		c.drain()
		return err
	}
	if c.opts.OnRebuild != nil {
		c.opts.OnRebuild(res)
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.unsubscribe = unsubscribe
	c.started = true
	go c.run(ctx, c.done)
	c.logger.Debug("rebuild controller started", "mode", c.opts.Mode)
	return nil
}

// Stop unsubscribes and waits for an in-flight rebuild to finish.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	c.unsubscribe()
	c.cancel()
	<-c.done
	c.started = false
	c.logger.Debug("rebuild controller stopped")
}

// Rebuild rebuilds the graph from the current state of the source.
func (c *Controller) Rebuild(ctx context.Context) (treesync.Result, error) {
	st := c.source.GetState()
	switch c.opts.Mode {
	case ModeParametric:
		return c.builder.SyncParametric(ctx, st.LayerCount, st.ChildNodeCount)
	case ModeTree:
		return c.builder.SyncTree(ctx, st.Data, st.LayerCount)
	}
	_, err := ParseMode(string(c.opts.Mode))
	return treesync.Result{}, err
}

func (c *Controller) notify() {
	select {
	case c.pending <- struct{}{}:
	default:
	}
}

// drain drops a pending notification.
func (c *Controller) drain() {
	select {
	case <-c.pending:
	default:
	}
}

func (c *Controller) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.pending:
			res, err := c.Rebuild(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Warn("rebuild failed", "mode", c.opts.Mode, "err", err)
				if c.opts.OnError != nil {
					c.opts.OnError(err)
				}
				continue
			}
			if c.opts.OnRebuild != nil {
				c.opts.OnRebuild(res)
			}
		}
	}
}
