package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/standardbeagle/lci-search/internal/model"
	"github.com/standardbeagle/lci-search/internal/symbolindex"
)

func TestLoadMissingFileYieldsNoRebuildSignal(t *testing.T) {
	root := t.TempDir()
	entries, ok, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || entries != nil {
		t.Fatalf("expected (nil, false) for missing store, got (%v, %v)", entries, ok)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	want := []symbolindex.Entry{
		{SymbolRecord: model.SymbolRecord{Name: "Foo", Line: 1, Column: 2, Kind: model.SymbolFunction}, RelPath: "a.go"},
		{SymbolRecord: model.SymbolRecord{Name: "Bar", Line: 3, Column: 4, Kind: model.SymbolClass}, RelPath: "b.go"},
	}

	if err := Save(root, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true after a successful save")
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Name != want[i].Name || got[i].RelPath != want[i].RelPath {
			t.Errorf("entry %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSaveWritesNoLeftoverTempFile(t *testing.T) {
	root := t.TempDir()
	if err := Save(root, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(Path(root) + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("expected no leftover temp file, stat err = %v", err)
	}
}

func TestLoadRejectsIncompatibleVersion(t *testing.T) {
	root := t.TempDir()
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"version": 999, "entries": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, ok, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || entries != nil {
		t.Fatalf("expected incompatible version to signal rebuild, got (%v, %v)", entries, ok)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	root := t.TempDir()
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, ok, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || entries != nil {
		t.Fatalf("expected malformed JSON to signal rebuild, got (%v, %v)", entries, ok)
	}
}
