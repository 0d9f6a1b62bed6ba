package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/standardbeagle/lci-search/internal/config"
)

func TestFallbackSearchContentFindsMatch(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc helloWidget() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default(root)
	fb := NewFallback(cfg)

	results, err := fb.SearchContent(context.Background(), root, "widget")
	if err != nil {
		t.Fatalf("SearchContent: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(results), results)
	}
	if results[0].Line != 3 {
		t.Errorf("expected match on line 3, got %d", results[0].Line)
	}
}

func TestFallbackSearchRegex(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte("foo123\nbar\nfoo456\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default(root)
	fb := NewFallback(cfg)

	results, err := fb.SearchRegex(context.Background(), root, `foo\d+`)
	if err != nil {
		t.Fatalf("SearchRegex: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(results), results)
	}
}

func TestFallbackIsAlwaysAvailable(t *testing.T) {
	fb := NewFallback(config.Default(t.TempDir()))
	if !fb.IsAvailable(context.Background()) {
		t.Error("expected the built-in fallback to always report available")
	}
}
