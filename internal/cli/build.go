package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodetree/pkg/config"
	"github.com/matzehuels/nodetree/pkg/graph"
)

// layoutFlags override the [editor] section of the config file.
type layoutFlags struct {
	mode     string
	layers   int
	children int
	data     string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "layout mode: tree or parametric (default from config)")
	cmd.Flags().IntVarP(&f.layers, "layers", "l", 0, "layer count (default from config)")
	cmd.Flags().IntVarP(&f.children, "children", "n", 0, "children per node in parametric mode (default from config)")
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "data set file, YAML or JSON (default from config)")
}

// apply copies the flags the user set onto cfg and revalidates it.
func (f *layoutFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Editor.Mode = f.mode
	}
	if flags.Changed("layers") {
		cfg.Editor.LayerCount = f.layers
	}
	if flags.Changed("children") {
		cfg.Editor.ChildNodeCount = f.children
	}
	if flags.Changed("data") {
		cfg.Editor.Data = f.data
	}
	return cfg.Validate()
}

// buildCommand creates the build command that prints the graph as JSON.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the graph once and print it as JSON",
		Long: `Build the graph once and print it as JSON.

In tree mode the graph is laid out from the data set, down to --layers
levels. In parametric mode a root node grows --layers layers with
--children children per node.

Examples:
  nodetree build --data examples/data.yaml --layers 2
  nodetree build --mode parametric --layers 2 --children 3 -o graph.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			snap, err := c.buildSnapshot(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return writeSnapshot(snap, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// buildSnapshot runs a single rebuild and returns the resulting graph.
func (c *CLI) buildSnapshot(ctx context.Context, cfg config.Config) (graph.Snapshot, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg.Layout.FitDelay = config.Duration{}
	s, err := newSession(cfg, logger, sessionOptions{})
	if err != nil {
		return graph.Snapshot{}, err
	}
	defer s.close()

	res, err := s.ctrl.Rebuild(ctx)
	if err != nil {
		return graph.Snapshot{}, err
	}
	prog.done(fmt.Sprintf("Built %d nodes, %d connections in %s mode", len(res.Nodes), len(res.Connections), cfg.Editor.Mode))
	return s.area.Snapshot(), nil
}

func writeSnapshot(snap graph.Snapshot, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := snap.WriteJSON(out); err != nil {
		return err
	}
	if path != "" {
		printFile(path)
		printStats(len(snap.Nodes), len(snap.Connections))
	}
	return nil
}

// nopCloser wraps stdout so callers can close every output alike.
type nopCloser struct{ *os.File }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
