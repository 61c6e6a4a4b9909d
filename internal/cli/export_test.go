package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/nodetree/pkg/cache"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
	"github.com/matzehuels/nodetree/pkg/graph"
	"github.com/matzehuels/nodetree/pkg/render/nodelink"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " JSON , Dot ", []string{"json", "dot"}},
		{"duplicates dropped", "svg,svg,json", []string{"svg", "json"}},
		{"empty parts skipped", "svg,,png,", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"all formats", []string{"json", "dot", "svg", "pdf", "png"}, false},
		{"empty slice", []string{}, false},
		{"invalid format", []string{"gif"}, true},
		{"mixed valid invalid", []string{"svg", "tower"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
			if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
				t.Errorf("validateFormats(%v) code = %s, want %s", tt.formats, apperrors.GetCode(err), apperrors.ErrCodeInvalidFormat)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		format  string
		want    string
	}{
		{"default base", "", []string{"svg"}, "svg", "graph.svg"},
		{"single explicit file", "out/tree.svg", []string{"svg"}, "svg", "out/tree.svg"},
		{"single file other ext", "tree.txt", []string{"dot"}, "dot", "tree.txt"},
		{"multiple strips known ext", "tree.svg", []string{"svg", "png"}, "png", "tree.png"},
		{"multiple base path", "out/tree", []string{"svg", "json"}, "json", "out/tree.json"},
		{"single without ext", "out/tree", []string{"dot"}, "dot", "out/tree.dot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &exportOpts{output: tt.output, formats: tt.formats}
			if got := outputPath(opts, tt.format); got != tt.want {
				t.Errorf("outputPath(%q, %s) = %q, want %q", tt.output, tt.format, got, tt.want)
			}
		})
	}
}

func TestRunExportJSONAndDOT(t *testing.T) {
	root := graph.NewNode("root", "root")
	child := graph.NewNode("c1", "child")
	snap := graph.NewSnapshot([]*graph.Node{root, child}, []*graph.Connection{graph.Connect("e1", root, child)})

	base := filepath.Join(t.TempDir(), "out", "tree")
	opts := &exportOpts{output: base, formats: []string{"json", "dot"}}
	if err := runExport(context.Background(), snap, opts); err != nil {
		t.Fatalf("runExport() error: %v", err)
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("json not written: %v", err)
	}
	var decoded graph.Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json output does not decode: %v", err)
	}
	if len(decoded.Nodes) != 2 || len(decoded.Connections) != 1 {
		t.Errorf("json has %d nodes and %d connections, want 2 and 1", len(decoded.Nodes), len(decoded.Connections))
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("dot not written: %v", err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("dot output = %q, want a digraph", dot)
	}
}

func TestExportFormatUsesCache(t *testing.T) {
	ctx := context.Background()
	root := graph.NewNode("root", "root")
	snap := graph.NewSnapshot([]*graph.Node{root}, nil)
	dot := nodelink.ToDOT(snap, nodelink.Options{})

	c := cache.NewMemoryCache(0)
	want := []byte("<svg>cached</svg>")
	if err := c.Set(ctx, cache.ArtifactKey(dot, "svg", 0), want, 0); err != nil {
		t.Fatal(err)
	}

	opts := &exportOpts{formats: []string{"svg"}, cache: c}
	got, hit, err := exportFormat(ctx, snap, dot, "svg", opts)
	if err != nil {
		t.Fatalf("exportFormat() error: %v", err)
	}
	if !hit || string(got) != string(want) {
		t.Errorf("exportFormat() = %q, hit %v; want the cached bytes", got, hit)
	}

	// DOT never goes through the cache.
	got, hit, err = exportFormat(ctx, snap, dot, "dot", opts)
	if err != nil || hit || string(got) != dot {
		t.Errorf("exportFormat(dot) = %q, hit %v, err %v", got, hit, err)
	}
}

func TestIsRendered(t *testing.T) {
	for format, want := range map[string]bool{"json": false, "dot": false, "svg": true, "pdf": true, "png": true} {
		if got := isRendered(format); got != want {
			t.Errorf("isRendered(%q) = %v, want %v", format, got, want)
		}
	}
}
