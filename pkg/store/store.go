// Package store holds the editor's layout configuration and notifies
// subscribers when it changes.
//
// State changes only through [Store.Dispatch] with one of the actions in
// this package. Listeners run synchronously on the dispatching goroutine,
// after the new state is visible to [Store.GetState].
package store

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodetree/pkg/dataset"
)

// Bounds of the child count, matching the editor toolbar slider.
const (
	MinChildNodeCount = 1
	MaxChildNodeCount = 10
)

// State is the layout configuration.
type State struct {
	LayerCount     int          `json:"layer_count"`
	ChildNodeCount int          `json:"child_node_count"`
	Data           dataset.Tree `json:"data,omitempty"`
}

// InitialState is the state of a fresh editor: no layers, one child per node.
func InitialState() State {
	return State{LayerCount: 0, ChildNodeCount: MinChildNodeCount}
}

// Action is a state transition.
type Action interface {
	reduce(State) (State, bool)
}

// IncrementLayer adds one layer.
type IncrementLayer struct{}

// DecrementLayer removes one layer, stopping at zero.
type DecrementLayer struct{}

// SetLayerCount sets the layer count. Negative values become zero.
type SetLayerCount struct{ N int }

// SetChildNodeCount sets the children per node, clamped to
// [MinChildNodeCount, MaxChildNodeCount].
type SetChildNodeCount struct{ N int }

// SetData replaces the data set.
type SetData struct{ Tree dataset.Tree }

func (IncrementLayer) reduce(s State) (State, bool) {
	s.LayerCount++
	return s, true
}

func (DecrementLayer) reduce(s State) (State, bool) {
	if s.LayerCount == 0 {
		return s, false
	}
	s.LayerCount--
	return s, true
}

func (a SetLayerCount) reduce(s State) (State, bool) {
	n := max(a.N, 0)
	if n == s.LayerCount {
		return s, false
	}
	s.LayerCount = n
	return s, true
}

func (a SetChildNodeCount) reduce(s State) (State, bool) {
	n := min(max(a.N, MinChildNodeCount), MaxChildNodeCount)
	if n == s.ChildNodeCount {
		return s, false
	}
	s.ChildNodeCount = n
	return s, true
}

func (a SetData) reduce(s State) (State, bool) {
	s.Data = a.Tree
	return s, true
}

// Reduce applies a to s and reports whether the state changed.
func Reduce(s State, a Action) (State, bool) {
	return a.reduce(s)
}

// Store is the layout configuration store. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]func()
	seq       int
	logger    *log.Logger
}

// New returns a store holding initial. A nil logger uses log.Default().
func New(initial State, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	initial, _ = SetChildNodeCount{initial.ChildNodeCount}.reduce(initial)
	initial, _ = SetLayerCount{initial.LayerCount}.reduce(initial)
	return &Store{state: initial, listeners: make(map[int]func()), logger: logger}
}

// GetState returns the current state.
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a and notifies subscribers if the state changed.
// It returns the resulting state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	next, changed := a.reduce(s.state)
	s.state = next
	var fns []func()
	if changed {
		fns = make([]func(), 0, len(s.listeners))
		for _, fn := range s.listeners {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	if changed {
		s.logger.Debug("state changed", "action", actionName(a), "layers", next.LayerCount, "children", next.ChildNodeCount)
	}
	for _, fn := range fns {
		fn()
	}
	return next
}

// Subscribe registers fn to run after every state change.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := s.seq
	s.listeners[key] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, key)
	}
}

func actionName(a Action) string {
	switch a.(type) {
	case IncrementLayer:
		return "increment_layer"
	case DecrementLayer:
		return "decrement_layer"
	case SetLayerCount:
		return "set_layer_count"
	case SetChildNodeCount:
		return "set_child_node_count"
	case SetData:
		return "set_data"
	}
	return "unknown"
}
