// Package watch reports changes of shader files on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/go-theft-auto/triangle/internal/logger"
)

// Watcher signals on Changes whenever one of the watched files is written,
// created or renamed over. Bursts of events collapse into one signal.
type Watcher struct {
	fs      *fsnotify.Watcher
	files   map[string]struct{}
	changes chan struct{}
	log     *logger.Logger
}

// New watches the given files. Their directories are watched so that
// editors that save by renaming a temp file are noticed too.
func New(log *logger.Logger, paths ...string) (*Watcher, error) {
	if log == nil {
		log = logger.Nop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	w := &Watcher{
		fs:      fsw,
		files:   make(map[string]struct{}),
		changes: make(chan struct{}, 1),
		log:     log,
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Changes returns the channel signalled on every change.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Run dispatches file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Shader file changed")
			w.notify()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("Shader watch error")
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error { return w.fs.Close() }

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[name]
	return ok
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
