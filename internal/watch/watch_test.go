package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(Options{Debounce: time.Second}); err == nil {
		t.Fatal("expected error for missing paths")
	}
	if _, err := New(Options{Paths: []string{"a.json"}}); err == nil {
		t.Fatal("expected error for zero debounce")
	}
}

func TestRelevantFiltersByPathAndOp(t *testing.T) {
	dir := t.TempDir()
	led := filepath.Join(dir, "LED.json")
	w, err := New(Options{Paths: []string{led, filepath.Join(dir, "OF.json")}, Debounce: time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(w.dirs) != 1 {
		t.Fatalf("expected one watched directory, got %v", w.dirs)
	}

	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: led, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: led, Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: led, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: filepath.Join(dir, "lightdance_data.txt"), Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: filepath.Join(dir, ".", "OF.json"), Op: fsnotify.Create}, true},
	}
	for _, tt := range tests {
		if got := w.Relevant(tt.event); got != tt.want {
			t.Errorf("Relevant(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestRunDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "LED.json")
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(Options{Paths: []string{target}, Debounce: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	ran := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			runs.Add(1)
			ran <- struct{}{}
			return errors.New("bad document")
		})
	}()

	// Give the watcher time to register before producing events.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte(`{"LED0": []}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("run was not triggered")
	}
	time.Sleep(400 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("expected one run for the burst, got %d", got)
	}

	// A failed run keeps the watcher alive.
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher stopped after a failed run")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
