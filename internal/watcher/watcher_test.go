package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/standardbeagle/lci-search/internal/config"
)

func newTestWatcher(t *testing.T, root string, debounceMs int) *Watcher {
	t.Helper()
	cfg := config.Default(root)
	cfg.Watch.DebounceMs = debounceMs
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func waitBatch(t *testing.T, w *Watcher) []Event {
	t.Helper()
	select {
	case batch := <-w.Events:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a debounced batch")
		return nil
	}
}

func TestRapidWritesCoalesceIntoOneBatch(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "x.go")
	if err := os.WriteFile(path, []byte("package x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, root, 80)

	for i := 0; i < 10; i++ {
		if err := os.WriteFile(path, []byte("package x\n// edit\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	batch := waitBatch(t, w)
	if len(batch) != 1 {
		t.Fatalf("expected exactly one coalesced event, got %d: %+v", len(batch), batch)
	}
	if batch[0].Path != path {
		t.Errorf("expected event for %s, got %s", path, batch[0].Path)
	}
}

func TestCreateAndRemoveAreReported(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, 60)

	path := filepath.Join(root, "new.go")
	if err := os.WriteFile(path, []byte("package x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	batch := waitBatch(t, w)
	foundCreate := false
	for _, ev := range batch {
		if ev.Path == path && (ev.Kind == Created || ev.Kind == Modified) {
			foundCreate = true
		}
	}
	if !foundCreate {
		t.Fatalf("expected a created/modified event for %s, got %+v", path, batch)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	batch = waitBatch(t, w)
	foundRemove := false
	for _, ev := range batch {
		if ev.Path == path && ev.Kind == Removed {
			foundRemove = true
		}
	}
	if !foundRemove {
		t.Fatalf("expected a removed event for %s, got %+v", path, batch)
	}
}

func TestNonWatchedExtensionIsIgnored(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, 60)

	path := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case batch := <-w.Events:
		t.Fatalf("expected no event for a non-watched extension, got %+v", batch)
	case <-time.After(200 * time.Millisecond):
		// expected: nothing arrives
	}
}

func TestNewDirectoryGetsWatchedAutomatically(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, 60)

	sub := filepath.Join(root, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// Give fsnotify time to register the new directory watch before
	// writing into it.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "inner.go")
	if err := os.WriteFile(path, []byte("package pkg\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	batch := waitBatch(t, w)
	found := false
	for _, ev := range batch {
		if ev.Path == path {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an event for the file in the newly created subdirectory, got %+v", batch)
	}
}
