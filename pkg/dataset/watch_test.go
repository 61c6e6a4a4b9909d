package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: []\n"), 0o644))

	var (
		mu   sync.Mutex
		got  Tree
		errs []error
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, WatchOptions{
			Debounce: 10 * time.Millisecond,
			OnChange: func(tree Tree) {
				mu.Lock()
				defer mu.Unlock()
				got = tree
			},
			OnError: func(err error) {
				mu.Lock()
				defer mu.Unlock()
				errs = append(errs, err)
			},
		})
	}()

	// Rewrite until the watcher has been installed and picked it up.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("b: [x]\nc: []\n"), 0o644)
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"b", "c"}, got.Keys())
	assert.Empty(t, errs)
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "data.yaml"), WatchOptions{})
	assert.Error(t, err)
}
