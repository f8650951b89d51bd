package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want EventType
		ok   bool
	}{
		{"create", fsnotify.Event{Name: "/d/a.svg", Op: fsnotify.Create}, EventChanged, true},
		{"write upper ext", fsnotify.Event{Name: "/d/A.SVG", Op: fsnotify.Write}, EventChanged, true},
		{"remove", fsnotify.Event{Name: "/d/a.svg", Op: fsnotify.Remove}, EventRemoved, true},
		{"rename", fsnotify.Event{Name: "/d/a.svg", Op: fsnotify.Rename}, EventRemoved, true},
		{"chmod", fsnotify.Event{Name: "/d/a.svg", Op: fsnotify.Chmod}, 0, false},
		{"png", fsnotify.Event{Name: "/d/a.png", Op: fsnotify.Write}, 0, false},
		{"hidden", fsnotify.Event{Name: "/d/.a.svg", Op: fsnotify.Write}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classify(tt.ev)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("got (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan Event, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(ev Event) { events <- ev })
	}()

	path := filepath.Join(dir, "icon.svg")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("<svg/>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.Path != path || ev.Type != EventChanged {
			t.Errorf("got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	// The burst of writes is reported once.
	select {
	case ev := <-events:
		t.Errorf("unexpected second event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		if ev.Type != EventRemoved {
			t.Errorf("got %v, want removed", ev.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for remove event")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run: got %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestNew_MissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope"), 0, nil); err == nil {
		t.Error("expected error")
	}
}
