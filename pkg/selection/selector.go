package selection

import (
	"slices"
	"sync"
)

// Selector is the current set of selected node identifiers.
// It is safe for concurrent use.
type Selector struct {
	mu        sync.Mutex
	ids       map[string]struct{}
	listeners map[int]func([]string)
	seq       int
}

// NewSelector returns an empty selector.
func NewSelector() *Selector {
	return &Selector{
		ids:       make(map[string]struct{}),
		listeners: make(map[int]func([]string)),
	}
}

// Add selects ids. With accumulate the ids join the current selection;
// otherwise the selection becomes exactly ids.
func (s *Selector) Add(accumulate bool, ids ...string) {
	s.mu.Lock()
	changed := false
	if !accumulate {
		for id := range s.ids {
			if !slices.Contains(ids, id) {
				delete(s.ids, id)
				changed = true
			}
		}
	}
	for _, id := range ids {
		if _, ok := s.ids[id]; !ok {
			s.ids[id] = struct{}{}
			changed = true
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Remove deselects id.
func (s *Selector) Remove(id string) {
	s.mu.Lock()
	_, ok := s.ids[id]
	delete(s.ids, id)
	s.mu.Unlock()
	if ok {
		s.notify()
	}
}

// Clear deselects everything.
func (s *Selector) Clear() {
	s.mu.Lock()
	n := len(s.ids)
	clear(s.ids)
	s.mu.Unlock()
	if n > 0 {
		s.notify()
	}
}

// Selected returns the selected identifiers in sorted order.
func (s *Selector) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// IsSelected reports whether id is selected.
func (s *Selector) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected nodes.
func (s *Selector) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// OnChange registers fn to receive the sorted selection after every change.
// Listeners run on the goroutine that changed the selection.
func (s *Selector) OnChange(fn func(selected []string)) (remove func()) {
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

func (s *Selector) notify() {
	s.mu.Lock()
	ids := s.sortedLocked()
	fns := make([]func([]string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(slices.Clone(ids))
	}
}

func (s *Selector) sortedLocked() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
