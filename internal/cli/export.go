package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodetree/pkg/cache"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
	"github.com/matzehuels/nodetree/pkg/graph"
	"github.com/matzehuels/nodetree/pkg/render"
	"github.com/matzehuels/nodetree/pkg/render/nodelink"
)

const (
	defaultExportBase = "graph" // output base name when -o is not given
	defaultPNGScale   = 2.0     // PNG resolution multiplier
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // json, dot, svg, pdf, png
	detailed bool     // add positions to node labels
	scale    float64  // PNG scale
	noCache  bool     // skip the artifact cache

	cache    cache.Cache
	cacheTTL time.Duration
}

// exportCommand creates the export command for writing the graph to files.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags      layoutFlags
		formatsStr string
	)
	opts := exportOpts{scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build the graph and write it as JSON, DOT, SVG, PDF, or PNG",
		Long: `Build the graph and write it as JSON, DOT, SVG, PDF, or PNG.

Nodes keep their editor positions in every format. SVG is rendered
in-process with Graphviz; PDF and PNG additionally need rsvg-convert.

Examples:
  nodetree export --data examples/data.yaml -l 2 -f svg -o tree.svg
  nodetree export -m parametric -l 3 -n 2 -f dot,svg,png -o out/tree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
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
			opts.cache, err = c.openArtifactCache(cfg, opts.noCache)
			if err != nil {
				return err
			}
			defer opts.cache.Close()
			opts.cacheTTL = cfg.Cache.TTL.Duration
			return runExport(cmd.Context(), snap, &opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node positions in labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even if a cached copy exists")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats, f) {
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)",
				f, strings.Join(render.Formats, ", "))
		}
	}
	return nil
}

// basePath derives the base output path. Without -o it is "graph"; a known
// format extension on -o is stripped.
func basePath(output string) string {
	if output == "" {
		return defaultExportBase
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file for format. A single format written to an
// explicit -o path keeps that path as is.
func outputPath(opts *exportOpts, format string) string {
	if len(opts.formats) == 1 && opts.output != "" && filepath.Ext(opts.output) != "" {
		return opts.output
	}
	return basePath(opts.output) + "." + format
}

func runExport(ctx context.Context, snap graph.Snapshot, opts *exportOpts) error {
	logger := loggerFromContext(ctx)
	dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: opts.detailed})

	var rendered, cached int
	for _, format := range opts.formats {
		data, hit, err := exportFormat(ctx, snap, dot, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		if isRendered(format) {
			rendered++
			if hit {
				cached++
			}
		}
		path := outputPath(opts, format)
		out, err := openOutput(path)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		out.Close()
		if err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", path, len(data))
		printFile(path)
	}
	printRenderStats(len(snap.Nodes), len(snap.Connections), rendered, cached)
	return nil
}

// isRendered reports whether format goes through Graphviz.
func isRendered(format string) bool {
	return format != render.FormatJSON && format != render.FormatDOT
}

// exportFormat renders the snapshot in one format and reports whether the
// bytes came from the artifact cache.
func exportFormat(ctx context.Context, snap graph.Snapshot, dot, format string, opts *exportOpts) ([]byte, bool, error) {
	switch format {
	case render.FormatJSON:
		var buf bytes.Buffer
		if err := snap.WriteJSON(&buf); err != nil {
			return nil, false, err
		}
		return buf.Bytes(), false, nil
	case render.FormatDOT:
		return []byte(dot), false, nil
	}

	var (
		renderFn func() ([]byte, error)
		scale    float64
	)
	switch format {
	case render.FormatSVG:
		renderFn = func() ([]byte, error) { return nodelink.RenderSVG(ctx, dot) }
	case render.FormatPDF:
		renderFn = func() ([]byte, error) { return nodelink.RenderPDF(ctx, dot) }
	case render.FormatPNG:
		scale = opts.scale
		renderFn = func() ([]byte, error) { return nodelink.RenderPNG(ctx, dot, opts.scale) }
	default:
		return nil, false, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}

	c := opts.cache
	if c == nil {
		c = cache.NewNullCache()
	}
	logger := loggerFromContext(ctx)
	key := cache.ArtifactKey(dot, format, scale)
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		logger.Debug("cache hit", "format", format)
		return data, true, nil
	} else if err != nil {
		logger.Warn("cache read failed", "err", err)
	}

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.ToUpper(format)))
	spin.Start()
	data, err := renderFn()
	spin.Stop()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, opts.cacheTTL); err != nil {
		logger.Warn("cache write failed", "err", err)
	}
	return data, false, nil
}
