// Package cache stores rendered graph artifacts (SVG, PDF, PNG) keyed by
// the DOT source they were rendered from.
//
// Rendering through Graphviz and rsvg-convert is the slowest step of an
// export, and a graph that did not change renders to the same bytes. The
// CLI keeps a [FileCache] under the user cache directory; the HTTP server
// uses a [MemoryCache], or the Redis backend in package cache/redis when
// several instances share renders.
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	key := cache.ArtifactKey(dot, "svg", 0)
//	svg, err := cache.GetOrSet(ctx, c, key, 24*time.Hour, func() ([]byte, error) {
//	    return nodelink.RenderSVG(ctx, dot)
//	})
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with per-entry expiration. Get reports a miss with
// ok false and a nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetOrSet returns the cached value of key, or computes it with fn and
// stores it for ttl. A failing cache read falls through to fn and a failing
// write is ignored.
func GetOrSet(ctx context.Context, c Cache, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, error) {
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, nil
	}
	data, err := fn()
	if err != nil {
		return nil, err
	}
	_ = c.Set(ctx, key, data, ttl)
	return data, nil
}

// DefaultDir returns the artifact cache directory
// ($XDG_CACHE_HOME/nodetree, or ~/.cache/nodetree).
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "nodetree"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "nodetree"), nil
}
