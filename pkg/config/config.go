// Package config loads nodetree settings from a TOML file.
//
// The file has four sections:
//
//	[layout]
//	sibling_step = 300
//	child_step = 200
//	level_step = 300
//	layer_spacing = 300
//	node_spacing = 200
//	fit_delay = "10ms"      # "0s" disables the post-rebuild fit
//	fit_duration = "500ms"  # "0s" snaps without animating
//
//	[editor]
//	mode = "tree"          # or "parametric"
//	selection = "lasso"    # or "window"
//	layer_count = 2
//	child_node_count = 1
//	data = "data.yaml"     # relative paths resolve against the config file
//
//	[server]
//	addr = "127.0.0.1:8080"
//
//	[cache]
//	dir = ""               # default $XDG_CACHE_HOME/nodetree
//	redis = ""             # "host:port" shares renders between servers
//	ttl = "24h"            # "0s" keeps renders until cleared
//
// Missing keys keep their defaults. Unknown keys are rejected.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nodetree/pkg/area"
	"github.com/matzehuels/nodetree/pkg/cache"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
	"github.com/matzehuels/nodetree/pkg/rebuild"
	"github.com/matzehuels/nodetree/pkg/selection"
	"github.com/matzehuels/nodetree/pkg/store"
	"github.com/matzehuels/nodetree/pkg/treesync"
)

const (
	appName  = "nodetree"
	fileName = "config.toml"
)

// DefaultAddr is the default API listen address.
const DefaultAddr = "127.0.0.1:8080"

// Config holds all settings.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Editor EditorConfig `toml:"editor"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`

	// Path is the file the config was loaded from, if any.
	Path string `toml:"-"`
}

// LayoutConfig controls node placement and the viewport fit.
type LayoutConfig struct {
	SiblingStep  float32  `toml:"sibling_step"`
	ChildStep    float32  `toml:"child_step"`
	LevelStep    float32  `toml:"level_step"`
	LayerSpacing float32  `toml:"layer_spacing"`
	NodeSpacing  float32  `toml:"node_spacing"`
	FitDelay     Duration `toml:"fit_delay"`
	FitDuration  Duration `toml:"fit_duration"`
}

// EditorConfig controls the initial editor state.
type EditorConfig struct {
	Mode           string `toml:"mode"`
	Selection      string `toml:"selection"`
	LayerCount     int    `toml:"layer_count"`
	ChildNodeCount int    `toml:"child_node_count"`
	Data           string `toml:"data"`
}

// ServerConfig controls the API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig controls where rendered artifacts are cached.
type CacheConfig struct {
	Dir   string   `toml:"dir"`
	Redis string   `toml:"redis"`
	TTL   Duration `toml:"ttl"`
}

// DefaultCacheTTL is how long rendered artifacts are kept.
const DefaultCacheTTL = 24 * time.Hour

// Duration is a time.Duration written as a string such as "10ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			SiblingStep:  treesync.DefaultSiblingStep,
			ChildStep:    treesync.DefaultChildStep,
			LevelStep:    treesync.DefaultLevelStep,
			LayerSpacing: treesync.DefaultLayerSpacing,
			NodeSpacing:  treesync.DefaultNodeSpacing,
			FitDelay:     Duration{treesync.DefaultFitDelay},
			FitDuration:  Duration{area.DefaultFitDuration},
		},
		Editor: EditorConfig{
			Mode:           string(rebuild.ModeTree),
			Selection:      string(selection.ModeLasso),
			LayerCount:     store.InitialState().LayerCount,
			ChildNodeCount: store.InitialState().ChildNodeCount,
		},
		Server: ServerConfig{Addr: DefaultAddr},
		Cache:  CacheConfig{TTL: Duration{DefaultCacheTTL}},
	}
}

// Dir returns the config directory ($XDG_CONFIG_HOME/nodetree, or
// ~/.config/nodetree).
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the path of the config file in Dir.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the config file at path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if cfg.Editor.Data != "" && !filepath.IsAbs(cfg.Editor.Data) {
		cfg.Editor.Data = filepath.Join(filepath.Dir(path), cfg.Editor.Data)
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve loads the config at path. An empty path falls back to the file in
// Dir when it exists, and to the defaults otherwise.
func Resolve(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	def, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(def); err != nil {
		return Default(), nil
	}
	return Load(def)
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "create config directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "create config %s", path)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks value ranges and mode names.
func (c Config) Validate() error {
	if _, err := rebuild.ParseMode(c.Editor.Mode); err != nil {
		return err
	}
	if _, err := selection.ParseMode(c.Editor.Selection); err != nil {
		return err
	}
	if c.Editor.LayerCount < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "editor.layer_count must not be negative")
	}
	if c.Editor.ChildNodeCount < store.MinChildNodeCount || c.Editor.ChildNodeCount > store.MaxChildNodeCount {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "editor.child_node_count must be between %d and %d",
			store.MinChildNodeCount, store.MaxChildNodeCount)
	}
	if c.Cache.TTL.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	l := c.Layout
	for name, v := range map[string]float32{
		"sibling_step":  l.SiblingStep,
		"child_step":    l.ChildStep,
		"level_step":    l.LevelStep,
		"layer_spacing": l.LayerSpacing,
		"node_spacing":  l.NodeSpacing,
	} {
		if v <= 0 {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "layout.%s must be positive", name)
		}
	}
	return nil
}

// TreesyncOptions returns the layout options of the engine.
func (c Config) TreesyncOptions() treesync.Options {
	delay := c.Layout.FitDelay.Duration
	if delay == 0 {
		delay = -1
	}
	return treesync.Options{
		SiblingStep:  c.Layout.SiblingStep,
		ChildStep:    c.Layout.ChildStep,
		LevelStep:    c.Layout.LevelStep,
		LayerSpacing: c.Layout.LayerSpacing,
		NodeSpacing:  c.Layout.NodeSpacing,
		FitDelay:     delay,
	}
}

// AreaOptions returns the surface options.
func (c Config) AreaOptions() area.Options {
	d := c.Layout.FitDuration.Duration
	if d == 0 {
		d = -1
	}
	return area.Options{FitDuration: d}
}

// CacheDir returns the artifact cache directory, defaulting to
// cache.DefaultDir.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// RebuildMode returns the validated layout mode.
func (c Config) RebuildMode() rebuild.Mode { return rebuild.Mode(c.Editor.Mode) }

// SelectionMode returns the validated selection mode.
func (c Config) SelectionMode() selection.Mode { return selection.Mode(c.Editor.Selection) }

// InitialState returns the store state described by the editor section,
// without data.
func (c Config) InitialState() store.State {
	return store.State{LayerCount: c.Editor.LayerCount, ChildNodeCount: c.Editor.ChildNodeCount}
}
