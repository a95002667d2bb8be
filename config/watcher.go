package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kbukum/retrokit/errors"
	"github.com/kbukum/retrokit/logger"
)

// DefaultDebounce is the quiet period after the last event before onChange runs.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls onChange when a single file is written or created.
type Watcher struct {
	path     string
	onChange func()
	delay    time.Duration
	log      *logger.Logger

	mu       sync.Mutex
	debounce *time.Timer
	fsw      *fsnotify.Watcher
	done     chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l *logger.Logger) WatcherOption {
	return func(w *Watcher) { w.log = l }
}

// NewWatcher creates a watcher for path. Nothing is watched until Start.
func NewWatcher(path string, onChange func(), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		delay:    DefaultDebounce,
		log:      logger.Get("config"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching the file's directory, so editors that replace the
// file are still seen. It returns once the watch is registered; events are
// handled until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.InvalidConfig("create file watcher").WithCause(err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return errors.InvalidConfig("watch " + w.path).WithCause(err)
	}

	w.mu.Lock()
	w.fsw = fsw
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.loop(ctx, fsw, w.done)
	return nil
}

// Stop ends the watch and cancels a pending callback.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fsw := w.fsw
	done := w.done
	w.fsw = nil
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	if fsw == nil {
		return nil
	}
	err := fsw.Close()
	<-done
	return err
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			_ = fsw.Close()
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", logger.Fields(logger.FieldPath, w.path, logger.FieldError, err.Error()))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, w.onChange)
}
