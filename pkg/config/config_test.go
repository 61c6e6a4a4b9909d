package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/matzehuels/nodetree/pkg/errors"
	"github.com/matzehuels/nodetree/pkg/rebuild"
	"github.com/matzehuels/nodetree/pkg/selection"
	"github.com/matzehuels/nodetree/pkg/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, store.InitialState(), cfg.InitialState())
	assert.Equal(t, rebuild.ModeTree, cfg.RebuildMode())
	assert.Equal(t, selection.ModeLasso, cfg.SelectionMode())
	assert.Equal(t, 10*time.Millisecond, cfg.TreesyncOptions().FitDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.AreaOptions().FitDuration)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL.Duration)
}

func TestCacheDirDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	got, err := Default().CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, appName), got)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[layout]
child_step = 120
fit_delay = "0s"

[editor]
mode = "parametric"
selection = "window"
layer_count = 3
child_node_count = 2
data = "tree.yaml"

[server]
addr = ":9000"

[cache]
dir = "renders"
ttl = "1h"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, float32(120), cfg.Layout.ChildStep)
	assert.Equal(t, float32(300), cfg.Layout.LevelStep, "unset keys keep defaults")
	assert.Equal(t, rebuild.ModeParametric, cfg.RebuildMode())
	assert.Equal(t, selection.ModeWindow, cfg.SelectionMode())
	assert.Equal(t, store.State{LayerCount: 3, ChildNodeCount: 2}, cfg.InitialState())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "tree.yaml"), cfg.Editor.Data)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, time.Hour, cfg.Cache.TTL.Duration)
	dir, err := cfg.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "renders"), dir)
	assert.Negative(t, cfg.TreesyncOptions().FitDelay, "zero delay disables the fit")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code apperrors.Code
	}{
		{"syntax", "[layout\n", apperrors.ErrCodeInvalidConfig},
		{"unknown key", "[editor]\ncolour = 1\n", apperrors.ErrCodeInvalidConfig},
		{"bad duration", "[layout]\nfit_delay = \"soon\"\n", apperrors.ErrCodeInvalidConfig},
		{"bad mode", "[editor]\nmode = \"radial\"\n", apperrors.ErrCodeInvalidMode},
		{"bad selection", "[editor]\nselection = \"magic\"\n", apperrors.ErrCodeInvalidMode},
		{"negative layers", "[editor]\nlayer_count = -1\n", apperrors.ErrCodeInvalidConfig},
		{"too many children", "[editor]\nchild_node_count = 11\n", apperrors.ErrCodeInvalidConfig},
		{"zero spacing", "[layout]\nnode_spacing = 0\n", apperrors.ErrCodeInvalidConfig},
		{"negative ttl", "[cache]\nttl = \"-1s\"\n", apperrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetCode(err), "%v", err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Equal(t, apperrors.ErrCodeFileNotFound, apperrors.GetCode(err))
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path, "defaults when no file exists")

	def, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, appName, fileName), def)

	want := Default()
	want.Editor.LayerCount = 4
	require.NoError(t, Save(def, want))

	cfg, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Editor.LayerCount)
	assert.Equal(t, def, cfg.Path)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Editor.Mode = string(rebuild.ModeParametric)
	cfg.Layout.FitDuration = Duration{time.Second}
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, rebuild.ModeParametric, got.RebuildMode())
	assert.Equal(t, time.Second, got.Layout.FitDuration.Duration)
}
