package area

import (
	"slices"
	"sync"
)

// overlayContainer owns at most one overlay layer, created on demand.
type overlayContainer struct {
	mu    sync.Mutex
	layer *overlay
}

func (c *overlayContainer) Layer() (Layer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.layer == nil {
		return nil, false
	}
	return c.layer, true
}

func (c *overlayContainer) CreateLayer() Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.layer == nil {
		c.layer = &overlay{shapes: make(map[string]Shape)}
	}
	return c.layer
}

// shapes returns the shapes currently drawn, ordered by key.
func (c *overlayContainer) shapes() []Shape {
	c.mu.Lock()
	l := c.layer
	c.mu.Unlock()
	if l == nil {
		return nil
	}
	return l.list()
}

// overlay is the in-memory Layer.
type overlay struct {
	mu     sync.Mutex
	shapes map[string]Shape
}

func (o *overlay) Draw(key string, s Shape) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.shapes[key] = s
}

func (o *overlay) Erase(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.shapes, key)
}

func (o *overlay) list() []Shape {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.shapes))
	for k := range o.shapes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]Shape, len(keys))
	for i, k := range keys {
		out[i] = o.shapes[k]
	}
	return out
}

var (
	_ Container = (*overlayContainer)(nil)
	_ Layer     = (*overlay)(nil)
)
