package strategy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/standardbeagle/lci-search/internal/config"
	"github.com/standardbeagle/lci-search/internal/extractor"
	"github.com/standardbeagle/lci-search/internal/symbolindex"
)

func drain(t *testing.T, s Stream) []string {
	t.Helper()
	var names []string
	for r := range s {
		names = append(names, r.Display.RelPath+r.Display.Name)
	}
	return names
}

func TestFileStrategyEmptyQueryYieldsEmptyStream(t *testing.T) {
	cfg := config.Default(t.TempDir())
	f := NewFile(cfg)
	stream := f.CreateStream(context.Background(), cfg.Project.Root, "")
	if got := drain(t, stream); len(got) != 0 {
		t.Errorf("expected empty stream for empty query, got %v", got)
	}
}

func TestFileStrategyMatchesPaths(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "internal", "widget"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "internal", "widget", "render.go"), []byte("package widget\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default(root)
	f := NewFile(cfg)
	var results []string
	for r := range f.CreateStream(context.Background(), root, "widget") {
		results = append(results, r.Display.RelPath)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one match for 'widget'")
	}
}

func TestSymbolStrategyBuildsIndexOnce(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n\nfunc DoThing() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default(root)
	ix := symbolindex.New()
	sym := NewSymbol(ix, extractor.New(), cfg)

	if err := sym.Prepare(context.Background(), root); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if ix.Len() == 0 {
		t.Fatal("expected the symbol index to be populated after Prepare")
	}

	var names []string
	for r := range sym.CreateStream(context.Background(), root, "DoThing") {
		names = append(names, r.Display.Name)
	}
	if len(names) != 1 || names[0] != "DoThing" {
		t.Fatalf("expected to find DoThing, got %v", names)
	}
}

func TestSymbolStrategyEmptyQueryYieldsEmptyStream(t *testing.T) {
	cfg := config.Default(t.TempDir())
	sym := NewSymbol(symbolindex.New(), extractor.New(), cfg)
	stream := sym.CreateStream(context.Background(), cfg.Project.Root, "")
	if got := drain(t, stream); len(got) != 0 {
		t.Errorf("expected empty stream for empty query, got %v", got)
	}
}

func TestSymbolStrategySuggestsOnZeroResults(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n\nfunc DoThing() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default(root)
	sym := NewSymbol(symbolindex.New(), extractor.New(), cfg)
	if err := sym.Prepare(context.Background(), root); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	const typo = "DoThign" // transposed, breaks the in-order subsequence match
	var names []string
	for r := range sym.CreateStream(context.Background(), root, typo) {
		names = append(names, r.Display.Name)
	}
	if len(names) != 0 {
		t.Fatalf("expected no direct matches for %q, got %v", typo, names)
	}

	suggestions := sym.Suggestions()
	if len(suggestions) == 0 {
		t.Fatal("expected a 'did you mean' suggestion for a near-miss query")
	}
	if suggestions[0] != "DoThing" {
		t.Errorf("expected DoThing suggested, got %v", suggestions)
	}
}
