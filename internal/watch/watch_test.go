package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "triangle.vert")
	if err := os.WriteFile(vert, []byte("#version 410 core\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(nil, vert)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(vert, []byte("#version 410 core\nvoid main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change signalled after writing the watched file")
	}
}

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	frag := filepath.Join(dir, "triangle.frag")

	w, err := New(nil, frag)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: frag, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: frag, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: frag, Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: frag, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: frag, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.relevant(tt.event); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestNotifyCoalesces(t *testing.T) {
	w, err := New(nil, filepath.Join(t.TempDir(), "a.vert"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	w.notify()
	w.notify()
	w.notify()

	<-w.Changes()
	select {
	case <-w.Changes():
		t.Fatal("burst produced more than one signal")
	default:
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(nil, filepath.Join(t.TempDir(), "missing", "a.vert")); err == nil {
		t.Fatal("expected error watching a missing directory")
	}
}
