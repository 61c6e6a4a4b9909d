package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nodetree/pkg/config"
	"github.com/matzehuels/nodetree/pkg/observability"
	"github.com/matzehuels/nodetree/pkg/observability/prom"
	"github.com/matzehuels/nodetree/pkg/server"
	"github.com/matzehuels/nodetree/pkg/treesync"
)

// serveCommand creates the serve command that exposes the editor over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags     layoutFlags
		addr      string
		selection string
		noWatch   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor over a JSON HTTP API",
		Long: `Serve the editor over a JSON HTTP API.

The graph is rebuilt whenever the configuration changes through the API
or the data set file changes on disk. Prometheus metrics are exposed at
/metrics. Rendered SVGs are cached in memory, or in Redis when
[cache] redis is set.

Endpoints:
  GET    /api/graph                     graph snapshot (JSON)
  GET    /api/graph.dot                 graph as Graphviz DOT
  GET    /api/graph.svg                 graph rendered to SVG
  GET    /api/config                    layer count, child count and data
  PUT    /api/config                    update any of them
  POST   /api/config/layers/increment   add a layer
  POST   /api/config/layers/decrement   remove a layer
  GET    /api/selection                 selected node IDs
  DELETE /api/selection                 clear the selection
  POST   /api/selection/gesture         lasso or window gesture`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("selection") {
				cfg.Editor.Selection = selection
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return c.runServe(cmd.Context(), cfg, !noWatch, !noMetrics)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")
	cmd.Flags().StringVarP(&selection, "selection", "s", "", "default gesture mode: lasso or window (default from config)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the data set when its file changes")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

// runServe starts the rebuild controller, the API server and the data set
// watcher, and blocks until ctx is done or one of them fails.
func (c *CLI) runServe(ctx context.Context, cfg config.Config, watch, metrics bool) error {
	logger := loggerFromContext(ctx)

	var metricsHandler http.Handler
	if metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom.New(reg).Register()
		defer observability.Reset()
		metricsHandler = prom.Handler(reg)
	}

	s, err := newSession(cfg, logger, sessionOptions{
		OnRebuild: func(res treesync.Result) {
			logger.Info("graph rebuilt", "nodes", len(res.Nodes), "connections", len(res.Connections),
				"took", res.Duration.Round(time.Microsecond))
		},
	})
	if err != nil {
		return err
	}
	defer s.close()
	if err := s.start(ctx); err != nil {
		return err
	}

	renders, err := openServerCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer renders.Close()

	h := server.NewHandler(server.Options{
		Store:         s.store,
		Area:          s.area,
		Selector:      s.sel,
		SelectionMode: cfg.SelectionMode(),
		Metrics:       metricsHandler,
		Cache:         renders,
		CacheTTL:      cfg.Cache.TTL.Duration,
		Logger:        logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx, cfg.Server.Addr, h, logger)
	})
	if watch && cfg.Editor.Data != "" {
		g.Go(func() error { return s.watch(gctx) })
	}
	printInfo("Serving %s at %s", StyleValue.Render(cfg.Editor.Mode+" layout"), styleCommand.Render("http://"+cfg.Server.Addr))
	return g.Wait()
}
