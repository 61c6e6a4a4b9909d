package dataset

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	apperrors "github.com/matzehuels/nodetree/pkg/errors"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	// OnChange receives every successfully reloaded tree.
	OnChange func(Tree)
	// OnError receives load failures. The watch keeps running.
	OnError  func(error)
	Debounce time.Duration
	Logger   *log.Logger
}

// Watch reloads the data set at path whenever it is written, created or
// renamed into place, until ctx is done. The parent directory is watched so
// that editors replacing the file are noticed.
func Watch(ctx context.Context, path string, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "watch %s", path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "create watcher")
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "watch %s", filepath.Dir(abs))
	}
	logger.Debug("watching data set", "path", abs)

	var (
		timer  *time.Timer
		reload = make(chan struct{}, 1)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(opts.Debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			t, err := Load(abs)
			if err != nil {
				logger.Warn("reload data set", "path", abs, "err", err)
				if opts.OnError != nil {
					opts.OnError(err)
				}
				continue
			}
			logger.Info("data set reloaded", "path", abs, "keys", len(t), "depth", t.Depth())
			if opts.OnChange != nil {
				opts.OnChange(t)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
			if opts.OnError != nil {
				opts.OnError(err)
			}
		}
	}
}
