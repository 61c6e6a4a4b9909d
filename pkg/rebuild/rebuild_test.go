package rebuild

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nodetree/pkg/area"
	"github.com/matzehuels/nodetree/pkg/dataset"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
	"github.com/matzehuels/nodetree/pkg/graph"
	"github.com/matzehuels/nodetree/pkg/store"
	"github.com/matzehuels/nodetree/pkg/treesync"
)

// fakeBuilder records the layer counts it was asked to build and can hold
// a rebuild until released.
type fakeBuilder struct {
	mu      sync.Mutex
	layers  []int
	gate    chan struct{}
	entered chan struct{}
	fail    error
}

func (b *fakeBuilder) record(ctx context.Context, layers int) (treesync.Result, error) {
	b.mu.Lock()
	b.layers = append(b.layers, layers)
	gate, entered, fail := b.gate, b.entered, b.fail
	b.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return treesync.Result{}, ctx.Err()
		}
	}
	return treesync.Result{}, fail
}

func (b *fakeBuilder) SyncTree(ctx context.Context, _ dataset.Tree, layers int) (treesync.Result, error) {
	return b.record(ctx, layers)
}

func (b *fakeBuilder) SyncParametric(ctx context.Context, layers, _ int) (treesync.Result, error) {
	return b.record(ctx, layers)
}

func (b *fakeBuilder) calls() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.layers...)
}

func TestStartBuildsInitialState(t *testing.T) {
	s := store.New(store.State{LayerCount: 2, ChildNodeCount: 1}, nil)
	b := &fakeBuilder{}
	c := New(s, b, Options{Mode: ModeParametric})

	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	assert.Equal(t, []int{2}, b.calls())
	assert.ErrorIs(t, c.Start(context.Background()), ErrStarted)
}

func TestRebuildsOnChange(t *testing.T) {
	s := store.New(store.InitialState(), nil)
	b := &fakeBuilder{}
	rebuilt := make(chan struct{}, 10)
	c := New(s, b, Options{OnRebuild: func(treesync.Result) { rebuilt <- struct{}{} }})
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()
	<-rebuilt // initial

	s.Dispatch(store.IncrementLayer{})
	select {
	case <-rebuilt:
	case <-time.After(2 * time.Second):
		t.Fatal("no rebuild after change")
	}
	assert.Equal(t, []int{0, 1}, b.calls())
}

func TestBurstCoalescesToLatest(t *testing.T) {
	s := store.New(store.InitialState(), nil)
	b := &fakeBuilder{}
	c := New(s, b, Options{})
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	// Hold the first change-driven rebuild while more changes arrive.
	b.mu.Lock()
	b.gate = make(chan struct{})
	b.entered = make(chan struct{}, 10)
	gate, entered := b.gate, b.entered
	b.mu.Unlock()

	s.Dispatch(store.IncrementLayer{})
	<-entered
	for range 5 {
		s.Dispatch(store.IncrementLayer{})
	}
	close(gate)

	require.Eventually(t, func() bool {
		calls := b.calls()
		return calls[len(calls)-1] == 6
	}, 2*time.Second, 5*time.Millisecond)

	calls := b.calls()
	assert.LessOrEqual(t, len(calls), 3, "initial, the held rebuild and one coalesced rebuild: %v", calls)
}

func TestErrorsKeepControllerRunning(t *testing.T) {
	s := store.New(store.InitialState(), nil)
	b := &fakeBuilder{}
	errs := make(chan error, 10)
	c := New(s, b, Options{OnError: func(err error) { errs <- err }})
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	b.mu.Lock()
	b.fail = errors.New("broken surface")
	b.mu.Unlock()
	s.Dispatch(store.IncrementLayer{})
	select {
	case err := <-errs:
		assert.EqualError(t, err, "broken surface")
	case <-time.After(2 * time.Second):
		t.Fatal("error not reported")
	}

	b.mu.Lock()
	b.fail = nil
	b.mu.Unlock()
	s.Dispatch(store.IncrementLayer{})
	assert.Eventually(t, func() bool { return len(b.calls()) == 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestStartFailsOnInitialError(t *testing.T) {
	s := store.New(store.InitialState(), nil)
	b := &fakeBuilder{fail: errors.New("nope")}
	c := New(s, b, Options{})
	assert.Error(t, c.Start(context.Background()))
	c.Stop() // no-op
}

func TestStopUnsubscribes(t *testing.T) {
	s := store.New(store.InitialState(), nil)
	b := &fakeBuilder{}
	c := New(s, b, Options{})
	require.NoError(t, c.Start(context.Background()))
	c.Stop()
	c.Stop()

	s.Dispatch(store.IncrementLayer{})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []int{0}, b.calls())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("parametric")
	require.NoError(t, err)
	assert.Equal(t, ModeParametric, m)

	_, err = ParseMode("radial")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidMode))
}

func TestControllerWithEngine(t *testing.T) {
	s := store.New(store.InitialState(), nil)
	a := area.New(area.Options{FitDuration: -1})
	e := treesync.New(a, treesync.Options{IDs: &graph.SequentialIDs{}, FitDelay: -1})
	rebuilt := make(chan treesync.Result, 10)
	c := New(s, e, Options{Mode: ModeParametric, OnRebuild: func(r treesync.Result) { rebuilt <- r }})
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	first := <-rebuilt
	assert.Len(t, first.Nodes, 1)

	s.Dispatch(store.SetChildNodeCount{N: 2})
	s.Dispatch(store.SetLayerCount{N: 2})
	require.Eventually(t, func() bool { return len(a.Nodes()) == 7 }, 2*time.Second, 5*time.Millisecond)
	assert.Len(t, a.Connections(), 6)
}

// dispatchingBuilder changes the store while its first build is running.
type dispatchingBuilder struct {
	fakeBuilder
	store *store.Store
	once  sync.Once
}

func (b *dispatchingBuilder) SyncParametric(ctx context.Context, layers, _ int) (treesync.Result, error) {
	b.once.Do(func() { b.store.Dispatch(store.IncrementLayer{}) })
	return b.record(ctx, layers)
}

func TestStartSeesChangeDuringInitialBuild(t *testing.T) {
	s := store.New(store.InitialState(), nil)
	b := &dispatchingBuilder{store: s}
	c := New(s, b, Options{Mode: ModeParametric})
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	require.Eventually(t, func() bool {
		calls := b.calls()
		return len(calls) == 2 && calls[1] == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{0, 1}, b.calls())
}

func TestFailedStartUnsubscribes(t *testing.T) {
	s := store.New(store.InitialState(), nil)
	b := &fakeBuilder{fail: errors.New("boom")}
	c := New(s, b, Options{Mode: ModeParametric})
	require.Error(t, c.Start(context.Background()))

	s.Dispatch(store.IncrementLayer{})
	assert.Empty(t, c.pending)

	b.mu.Lock()
	b.fail = nil
	b.mu.Unlock()
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()
	assert.Equal(t, []int{0, 1}, b.calls())
}
