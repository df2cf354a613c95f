// Package watch re-runs a conversion whenever one of its input documents
// changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"lightdance/internal/logging"
)

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Options configures a Watcher.
type Options struct {
	// Paths are the files whose changes trigger a run.
	Paths    []string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher runs a callback after a quiet period following input changes.
type Watcher struct {
	files    map[string]struct{}
	paths    []string
	dirs     []string
	debounce time.Duration
	logger   *slog.Logger
}

// New validates opts and returns a Watcher.
func New(opts Options) (*Watcher, error) {
	if len(opts.Paths) == 0 {
		return nil, errors.New("watch: no paths")
	}
	if opts.Debounce <= 0 {
		return nil, fmt.Errorf("watch: debounce must be positive, got %s", opts.Debounce)
	}
	w := &Watcher{
		files:    make(map[string]struct{}, len(opts.Paths)),
		debounce: opts.Debounce,
		logger:   logging.NewComponentLogger(opts.Logger, "watch"),
	}
	seenDir := map[string]struct{}{}
	for _, path := range opts.Paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
		}
		if _, dup := w.files[abs]; !dup {
			w.paths = append(w.paths, abs)
		}
		w.files[abs] = struct{}{}
		// Directories are watched so that editors replacing a file by rename
		// keep producing events.
		dir := filepath.Dir(abs)
		if _, ok := seenDir[dir]; !ok {
			seenDir[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Relevant reports whether event concerns one of the watched files.
func (w *Watcher) Relevant(event fsnotify.Event) bool {
	if event.Op&relevantOps == 0 {
		return false
	}
	_, ok := w.files[filepath.Clean(event.Name)]
	return ok
}

// Run blocks until ctx is done, calling run once per burst of relevant
// changes. A failing run is logged and the watcher keeps going.
func (w *Watcher) Run(ctx context.Context, run func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching input documents",
		logging.Strings("files", w.paths),
		logging.Duration("debounce", w.debounce),
	)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.Relevant(event) {
				continue
			}
			w.logger.Debug("input changed",
				logging.String(logging.FieldPath, event.Name),
				logging.String("op", event.Op.String()),
			)
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logging.Error(err))
		case <-timer.C:
			if err := run(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("conversion failed; waiting for the next change", logging.Error(err))
			}
		}
	}
}
