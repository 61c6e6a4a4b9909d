package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodetree/pkg/area"
	"github.com/matzehuels/nodetree/pkg/config"
	"github.com/matzehuels/nodetree/pkg/dataset"
	"github.com/matzehuels/nodetree/pkg/geom"
	"github.com/matzehuels/nodetree/pkg/rebuild"
	"github.com/matzehuels/nodetree/pkg/selection"
	"github.com/matzehuels/nodetree/pkg/store"
	"github.com/matzehuels/nodetree/pkg/treesync"
)

// session wires the store, the area, the engine and the rebuild controller
// the way every command uses them.
type session struct {
	cfg    config.Config
	store  *store.Store
	area   *area.Area
	sel    *selection.Selector
	engine *treesync.Engine
	ctrl   *rebuild.Controller
	logger *log.Logger

	detach func()
}

type sessionOptions struct {
	Viewport  geom.Rect
	OnRebuild func(treesync.Result)
	OnError   func(error)
}

// newSession loads the configured data set and assembles a stopped session.
func newSession(cfg config.Config, logger *log.Logger, opts sessionOptions) (*session, error) {
	state := cfg.InitialState()
	if cfg.Editor.Data != "" {
		tree, err := dataset.Load(cfg.Editor.Data)
		if err != nil {
			return nil, err
		}
		state.Data = tree
		logger.Debug("loaded data set", "path", cfg.Editor.Data, "keys", len(tree), "entries", tree.Count())
	} else if cfg.RebuildMode() == rebuild.ModeTree {
		logger.Warn("no data set configured; tree mode builds an empty graph")
	}

	areaOpts := cfg.AreaOptions()
	areaOpts.Viewport = opts.Viewport
	areaOpts.Logger = logger
	a := area.New(areaOpts)

	sel := selection.NewSelector()
	detach := a.Highlight(sel)

	syncOpts := cfg.TreesyncOptions()
	syncOpts.Logger = logger
	engine := treesync.New(a, syncOpts)

	st := store.New(state, logger)
	ctrl := rebuild.New(st, engine, rebuild.Options{
		Mode:      cfg.RebuildMode(),
		OnRebuild: opts.OnRebuild,
		OnError:   opts.OnError,
		Logger:    logger,
	})

	return &session{
		cfg:    cfg,
		store:  st,
		area:   a,
		sel:    sel,
		engine: engine,
		ctrl:   ctrl,
		logger: logger,
		detach: detach,
	}, nil
}

// start runs the initial build and keeps the graph in step with the store.
func (s *session) start(ctx context.Context) error {
	return s.ctrl.Start(ctx)
}

// watch reloads the data set into the store whenever its file changes.
// It blocks until ctx is done.
func (s *session) watch(ctx context.Context) error {
	if s.cfg.Editor.Data == "" {
		return nil
	}
	return dataset.Watch(ctx, s.cfg.Editor.Data, dataset.WatchOptions{
		OnChange: func(tree dataset.Tree) {
			s.logger.Info("data set changed", "path", s.cfg.Editor.Data)
			s.store.Dispatch(store.SetData{Tree: tree})
		},
		OnError: func(err error) {
			s.logger.Warn("data set reload failed", "err", err)
		},
		Logger: s.logger,
	})
}

func (s *session) strategy(mode selection.Mode) (selection.Strategy, error) {
	return selection.New(mode, s.area.Container(), s.area.Index(), s.sel, selection.Options{Logger: s.logger})
}

func (s *session) close() {
	s.ctrl.Stop()
	s.engine.Close()
	s.detach()
}
