// Package discovery walks a project root and yields FileRecord values,
// honoring ignore precedence and binary/size filtering, using
// bmatcuk/doublestar/v4 for glob matching.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/lci-search/internal/config"
	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/model"
)

// vcsDir is the version-control metadata directory skipped unconditionally.
const vcsDir = ".git"

// binaryExtensions is the built-in extension set filtered out regardless
// of ignore files: images, archives, executables, media, docs,
// databases, fonts, compiled artifacts, lockfiles.
var binaryExtensions = map[string]bool{
	// images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".svg": true, ".webp": true, ".tiff": true,
	// archives
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true,
	// executables / compiled artifacts
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".o": true, ".obj": true, ".class": true, ".pyc": true, ".wasm": true,
	// media
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wav": true,
	".flac": true, ".ogg": true, ".webm": true,
	// docs
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	// databases
	".db": true, ".sqlite": true, ".sqlite3": true,
	// fonts
	".ttf": true, ".otf": true, ".woff": true, ".woff2": true, ".eot": true,
	// lockfiles
	".lock": true,
}

// IsBinaryExtension reports whether ext (including the leading dot) is
// in the built-in binary-extension set.
func IsBinaryExtension(ext string) bool {
	return binaryExtensions[ext]
}

// Walk discovers FileRecord values under root, applying ignore
// precedence and the binary/size filters. Ordering is stable across
// runs on an unchanged tree (lexical directory-entry order) but is
// otherwise implementation-defined; callers must not depend on it.
func Walk(cfg *config.Config) ([]model.FileRecord, error) {
	root := cfg.Project.Root
	ignores := BuildIgnoreSet(cfg)

	var records []model.FileRecord
	var nextID model.FileID

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warnf("discovery: skipping %s: %v", path, err)
			return nil
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if name == vcsDir {
				return filepath.SkipDir
			}
			if ignores.Ignored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if ignores.Ignored(path, false) {
			return nil
		}
		if IsBinaryExtension(filepath.Ext(name)) {
			return nil
		}
		if len(cfg.Include) > 0 {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if !matchesAny(cfg.Include, filepath.ToSlash(rel)) {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			logging.Warnf("discovery: stat failed for %s: %v", path, err)
			return nil
		}
		if info.Size() > cfg.Index.MaxFileSize {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logging.Warnf("discovery: read failed for %s: %v", path, err)
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		records = append(records, model.FileRecord{
			ID:           nextID,
			AbsPath:      path,
			RelPath:      rel,
			ModifiedTime: info.ModTime(),
			ContentHash:  xxhash.Sum64(content),
		})
		nextID++
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir already visits entries in lexical order per directory,
	// which is stable across runs; sort defensively by path so callers
	// relying on "stable, unspecified" ordering see the same sequence
	// even if a future walk strategy changes traversal order.
	sort.Slice(records, func(i, j int) bool { return records[i].AbsPath < records[j].AbsPath })
	for i := range records {
		records[i].ID = model.FileID(i)
	}
	return records, nil
}

// WalkDirs discovers every directory reachable from root, honoring the
// same ignore precedence and VCS-skip rule as Walk, for the File
// strategy's directory-matching half. Paths are relative to root.
func WalkDirs(cfg *config.Config) ([]string, error) {
	root := cfg.Project.Root
	ignores := BuildIgnoreSet(cfg)

	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warnf("discovery: skipping %s: %v", path, err)
			return nil
		}
		if path == root || !d.IsDir() {
			return nil
		}
		if d.Name() == vcsDir {
			return filepath.SkipDir
		}
		if ignores.Ignored(path, true) {
			return filepath.SkipDir
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		dirs = append(dirs, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}

// BuildIgnoreSet assembles the full ignore precedence chain (global,
// parent-directory, per-repo, custom) for cfg's project root. Exported
// so internal/watcher can apply the same ignore rules when deciding
// which new directories to add fsnotify watches for.
func BuildIgnoreSet(cfg *config.Config) *IgnoreSet {
	set := NewIgnoreSet()
	root := cfg.Project.Root

	// Global ignore file, e.g. ~/.config/lci-search/ignore.
	if home, err := os.UserHomeDir(); err == nil {
		_ = set.LoadFile(filepath.Join(home, ".config", "lci-search", "ignore"), root)
	}

	// Parent-directory ignore files, from the filesystem root down to
	// (but not including) the project root, lowest precedence among
	// the per-file loads below.
	for _, dir := range parentChain(root) {
		_ = set.LoadFile(filepath.Join(dir, ".gitignore"), dir)
	}

	// Per-repo ignore files, then the user-supplied custom ignore
	// filename (highest precedence): one walk collecting both per
	// directory so nested directories' rules override their ancestors
	// (added later in the patterns list).
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if d.Name() == vcsDir && path != root {
			return filepath.SkipDir
		}
		_ = set.LoadFile(filepath.Join(path, ".gitignore"), path)
		if cfg.Index.CustomIgnoreFile != "" {
			_ = set.LoadFile(filepath.Join(path, cfg.Index.CustomIgnoreFile), path)
		}
		return nil
	})

	return set
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// parentChain returns the directories strictly above root, ordered
// from filesystem root down to root's immediate parent.
func parentChain(root string) []string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	var chain []string
	dir := filepath.Dir(abs)
	for {
		chain = append([]string{dir}, chain...)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return chain
}
