package realtimeindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/standardbeagle/lci-search/internal/config"
	"github.com/standardbeagle/lci-search/internal/extractor"
	"github.com/standardbeagle/lci-search/internal/symbolindex"
	"github.com/standardbeagle/lci-search/internal/watcher"
)

func writeGo(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestApplyBatchCreateAddsSymbols(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.go")
	writeGo(t, path, "package a\n\nfunc Foo() {}\n")

	cfg := config.Default(root)
	ix := symbolindex.New()
	indexer := New(cfg, ix, extractor.New(), nil)

	res := indexer.ApplyBatch([]watcher.Event{{Kind: watcher.Created, Path: path}})
	if res.UpdatedFiles != 1 {
		t.Fatalf("expected 1 updated file, got %d", res.UpdatedFiles)
	}
	if res.AddedSymbols == 0 {
		t.Fatal("expected at least one added symbol")
	}
	if ix.Len() == 0 {
		t.Fatal("expected the index to be populated")
	}
}

func TestApplyBatchModifyReplacesSymbols(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.go")
	writeGo(t, path, "package a\n\nfunc Foo() {}\n")

	cfg := config.Default(root)
	ix := symbolindex.New()
	indexer := New(cfg, ix, extractor.New(), nil)
	indexer.ApplyBatch([]watcher.Event{{Kind: watcher.Created, Path: path}})

	writeGo(t, path, "package a\n\nfunc Bar() {}\nfunc Baz() {}\n")
	res := indexer.ApplyBatch([]watcher.Event{{Kind: watcher.Modified, Path: path}})
	if res.UpdatedFiles != 1 {
		t.Fatalf("expected 1 updated file, got %d", res.UpdatedFiles)
	}
	if res.AddedSymbols != 2 {
		t.Errorf("expected 2 added symbols (Bar, Baz), got %d", res.AddedSymbols)
	}
	if res.RemovedSymbols != 1 {
		t.Errorf("expected 1 removed symbol (Foo), got %d", res.RemovedSymbols)
	}

	names := map[string]bool{}
	for _, e := range ix.Snapshot() {
		names[e.Name] = true
	}
	if names["Foo"] {
		t.Error("expected Foo to be replaced, not retained")
	}
	if !names["Bar"] || !names["Baz"] {
		t.Errorf("expected Bar and Baz present, got %v", names)
	}
}

func TestApplyBatchRemoveDropsSymbols(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.go")
	writeGo(t, path, "package a\n\nfunc Foo() {}\n")

	cfg := config.Default(root)
	ix := symbolindex.New()
	indexer := New(cfg, ix, extractor.New(), nil)
	indexer.ApplyBatch([]watcher.Event{{Kind: watcher.Created, Path: path}})
	if ix.Len() == 0 {
		t.Fatal("setup: expected symbols present before removal")
	}

	os.Remove(path)
	res := indexer.ApplyBatch([]watcher.Event{{Kind: watcher.Removed, Path: path}})
	if res.RemovedSymbols == 0 {
		t.Fatal("expected removed symbol count > 0")
	}
	if ix.Len() != 0 {
		t.Fatalf("expected index emptied after removal, got %d entries", ix.Len())
	}
}

func TestApplyBatchMovedRelocatesSymbols(t *testing.T) {
	root := t.TempDir()
	oldPath := filepath.Join(root, "old.go")
	newPath := filepath.Join(root, "new.go")
	writeGo(t, oldPath, "package a\n\nfunc Foo() {}\n")

	cfg := config.Default(root)
	ix := symbolindex.New()
	indexer := New(cfg, ix, extractor.New(), nil)
	indexer.ApplyBatch([]watcher.Event{{Kind: watcher.Created, Path: oldPath}})

	os.Rename(oldPath, newPath)
	res := indexer.ApplyBatch([]watcher.Event{{Kind: watcher.Moved, Path: newPath, OldPath: oldPath}})
	if res.UpdatedFiles != 2 { // one remove-counted, one add-counted
		t.Fatalf("expected 2 updated-file increments (remove + add), got %d", res.UpdatedFiles)
	}

	var relPaths []string
	for _, e := range ix.Snapshot() {
		relPaths = append(relPaths, e.RelPath)
	}
	for _, rel := range relPaths {
		if rel == "old.go" {
			t.Errorf("expected old.go entries gone, got %v", relPaths)
		}
	}
}

func TestApplyBatchUnwatchedExtensionIsSkipped(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	writeGo(t, path, "hello")

	cfg := config.Default(root)
	ix := symbolindex.New()
	indexer := New(cfg, ix, extractor.New(), nil)

	res := indexer.ApplyBatch([]watcher.Event{{Kind: watcher.Created, Path: path}})
	if res.UpdatedFiles != 0 {
		t.Fatalf("expected 0 updated files for an unwatched extension, got %d", res.UpdatedFiles)
	}
}
