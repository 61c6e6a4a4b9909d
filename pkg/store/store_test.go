package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nodetree/pkg/dataset"
)

func TestInitialState(t *testing.T) {
	s := New(InitialState(), nil)
	assert.Equal(t, State{LayerCount: 0, ChildNodeCount: 1}, s.GetState())
}

func TestNewClampsInitial(t *testing.T) {
	s := New(State{LayerCount: -3, ChildNodeCount: 0}, nil)
	assert.Equal(t, 0, s.GetState().LayerCount)
	assert.Equal(t, 1, s.GetState().ChildNodeCount)
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		action  Action
		want    State
		changed bool
	}{
		{"increment", State{0, 1, nil}, IncrementLayer{}, State{1, 1, nil}, true},
		{"decrement", State{2, 1, nil}, DecrementLayer{}, State{1, 1, nil}, true},
		{"decrement floors at zero", State{0, 1, nil}, DecrementLayer{}, State{0, 1, nil}, false},
		{"set layers", State{0, 1, nil}, SetLayerCount{4}, State{4, 1, nil}, true},
		{"set negative layers", State{3, 1, nil}, SetLayerCount{-1}, State{0, 1, nil}, true},
		{"set children", State{0, 1, nil}, SetChildNodeCount{3}, State{0, 3, nil}, true},
		{"children below one", State{0, 3, nil}, SetChildNodeCount{0}, State{0, 1, nil}, true},
		{"children above max", State{0, 3, nil}, SetChildNodeCount{50}, State{0, MaxChildNodeCount, nil}, true},
		{"same children", State{0, 3, nil}, SetChildNodeCount{3}, State{0, 3, nil}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Reduce(tt.from, tt.action)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestSetData(t *testing.T) {
	s := New(InitialState(), nil)
	tree := dataset.Tree{{Key: "root", Leaves: []string{"a"}}}
	got := s.Dispatch(SetData{tree})
	assert.Equal(t, tree, got.Data)
	assert.Equal(t, tree, s.GetState().Data)
}

func TestSubscribe(t *testing.T) {
	s := New(InitialState(), nil)
	var seen []int
	unsubscribe := s.Subscribe(func() { seen = append(seen, s.GetState().LayerCount) })

	s.Dispatch(IncrementLayer{})
	s.Dispatch(IncrementLayer{})
	s.Dispatch(SetChildNodeCount{1}) // unchanged, no notification
	unsubscribe()
	s.Dispatch(IncrementLayer{})

	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 3, s.GetState().LayerCount)
}

func TestConcurrentDispatch(t *testing.T) {
	s := New(InitialState(), nil)
	var (
		mu    sync.Mutex
		calls int
	)
	s.Subscribe(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(IncrementLayer{})
		}()
	}
	wg.Wait()

	require.Equal(t, 50, s.GetState().LayerCount)
	assert.Equal(t, 50, calls)
}
