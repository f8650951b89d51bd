// Package watch reports changes to the SVG files of a directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long a file must stay quiet before its change is
// reported. Editors often write a file several times in a row.
const DefaultDelay = 250 * time.Millisecond

// EventType is the kind of change.
type EventType int

const (
	EventChanged EventType = iota // created or written
	EventRemoved                  // removed or renamed away
)

func (t EventType) String() string {
	if t == EventRemoved {
		return "removed"
	}
	return "changed"
}

// Event is a debounced change to one SVG file.
type Event struct {
	Type EventType
	Path string
}

// Watcher monitors a single directory, non-recursively.
type Watcher struct {
	dir   string
	delay time.Duration
	log   *zap.Logger
	fs    *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan Event
	done    chan struct{}
}

// New starts watching dir. A delay <= 0 means DefaultDelay.
func New(dir string, delay time.Duration, log *zap.Logger) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:     dir,
		delay:   delay,
		log:     log,
		fs:      fsw,
		pending: make(map[string]*time.Timer),
		ready:   make(chan Event, 64),
		done:    make(chan struct{}),
	}, nil
}

// Run calls handle for every debounced event until ctx is done, then
// closes the watcher. handle runs on the calling goroutine, one event at
// a time.
func (w *Watcher) Run(ctx context.Context, handle func(Event)) error {
	defer w.close()
	w.log.Info("watching for changes", zap.String("dir", w.dir))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if t, ok := classify(ev); ok {
				w.schedule(Event{Type: t, Path: ev.Name})
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case ev := <-w.ready:
			w.log.Debug("file "+ev.Type.String(), zap.String("file", filepath.Base(ev.Path)))
			handle(ev)
		}
	}
}

// classify maps a raw notification to an event type, dropping files that
// are not visible SVGs and operations that do not change content.
func classify(ev fsnotify.Event) (EventType, bool) {
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".svg") {
		return 0, false
	}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return EventRemoved, true
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		return EventChanged, true
	default:
		return 0, false
	}
}

// schedule restarts the quiet period for ev.Path. The latest event type
// wins.
func (w *Watcher) schedule(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[ev.Path]; ok {
		t.Stop()
	}
	w.pending[ev.Path] = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		delete(w.pending, ev.Path)
		w.mu.Unlock()
		select {
		case w.ready <- ev:
		case <-w.done:
		}
	})
}

func (w *Watcher) close() {
	close(w.done)
	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.fs.Close()
}
