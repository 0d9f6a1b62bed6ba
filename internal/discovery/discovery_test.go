package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/standardbeagle/lci-search/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkSkipsVCSAndBinary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "logo.png"), "\x89PNG")
	writeFile(t, filepath.Join(root, ".git", "config"), "junk")

	cfg := config.Default(root)
	records, err := Walk(cfg)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(records) != 1 || records[0].RelPath != "main.go" {
		t.Fatalf("expected only main.go, got %+v", records)
	}
}

func TestWalkRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "build/\n*.tmp\n")
	writeFile(t, filepath.Join(root, "keep.go"), "package main\n")
	writeFile(t, filepath.Join(root, "scratch.tmp"), "junk")
	writeFile(t, filepath.Join(root, "build", "out.go"), "package build\n")

	cfg := config.Default(root)
	records, err := Walk(cfg)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	paths := map[string]bool{}
	for _, r := range records {
		paths[r.RelPath] = true
	}
	if !paths["keep.go"] {
		t.Error("expected keep.go to survive")
	}
	if paths["scratch.tmp"] || paths["build/out.go"] {
		t.Errorf("expected ignored files excluded, got %v", paths)
	}
}

func TestWalkSizeLimit(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, 10)
	writeFile(t, filepath.Join(root, "big.go"), string(big))

	cfg := config.Default(root)
	cfg.Index.MaxFileSize = 5
	records, err := Walk(cfg)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected big file excluded, got %+v", records)
	}
}

func TestWalkIncludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "package a\n")
	writeFile(t, filepath.Join(root, "b.py"), "pass\n")

	cfg := config.Default(root)
	cfg.Include = []string{"*.go"}
	records, err := Walk(cfg)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(records) != 1 || records[0].RelPath != "a.go" {
		t.Fatalf("expected only a.go, got %+v", records)
	}
}

func TestWalkDirsSkipsVCSAndIgnored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "build/\n")
	writeFile(t, filepath.Join(root, "src", "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "build", "out.go"), "package build\n")
	writeFile(t, filepath.Join(root, ".git", "config"), "junk")

	cfg := config.Default(root)
	dirs, err := WalkDirs(cfg)
	if err != nil {
		t.Fatalf("WalkDirs: %v", err)
	}

	found := map[string]bool{}
	for _, d := range dirs {
		found[d] = true
	}
	if !found["src"] {
		t.Error("expected 'src' to be present")
	}
	if found["build"] || found[".git"] {
		t.Errorf("expected 'build' and '.git' excluded, got %v", dirs)
	}
}
