package apps

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a catalog file into a Live catalog whenever the file
// changes. A catalog that fails to load or validate is logged and ignored;
// the previous registry keeps serving.
type Watcher struct {
	path     string
	live     *Live
	logger   *zap.Logger
	onReload func(*Registry, error)
}

// NewWatcher returns a watcher for path feeding live. onReload, if non-nil,
// runs after every reload attempt with either the new registry or the error.
func NewWatcher(path string, live *Live, logger *zap.Logger, onReload func(*Registry, error)) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     path,
		live:     live,
		logger:   logger.Named("catalog"),
		onReload: onReload,
	}
}

// Reload loads the catalog now and swaps it in on success.
func (w *Watcher) Reload() error {
	reg, err := Load(w.path)
	if err != nil {
		if w.onReload != nil {
			w.onReload(nil, err)
		}
		return err
	}
	w.live.Swap(reg)
	w.logger.Info("app catalog reloaded", zap.String("path", w.path), zap.Int("apps", reg.Len()))
	if w.onReload != nil {
		w.onReload(reg, nil)
	}
	return nil
}

// Run watches the catalog's directory until ctx is cancelled. The directory is
// watched rather than the file so editors that save by rename are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Info("watching app catalog", zap.String("path", w.path))

	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := w.Reload(); err != nil {
				w.logger.Warn("app catalog reload failed; keeping previous catalog", zap.Error(err))
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}
