package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Watch.DebounceMs != DefaultWatchDebounceMs {
		t.Errorf("expected default debounce, got %d", cfg.Watch.DebounceMs)
	}
}

func TestLoadParsesKDL(t *testing.T) {
	dir := t.TempDir()
	content := `
project {
    name "demo"
}
index {
    max_file_size 2097152
    respect_gitignore false
}
watch {
    debounce_ms 300
}
exclude "vendor/**" "*.min.js"
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project.Name != "demo" {
		t.Errorf("Project.Name = %q", cfg.Project.Name)
	}
	if cfg.Index.MaxFileSize != 2097152 {
		t.Errorf("MaxFileSize = %d", cfg.Index.MaxFileSize)
	}
	if cfg.Index.RespectGitignore {
		t.Error("expected RespectGitignore=false")
	}
	if cfg.Watch.DebounceMs != 300 {
		t.Errorf("DebounceMs = %d", cfg.Watch.DebounceMs)
	}
	if len(cfg.Exclude) != 2 {
		t.Errorf("Exclude = %v", cfg.Exclude)
	}
}
