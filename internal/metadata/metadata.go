// Package metadata persists the symbol index's SymbolRecord sequence to
// a project-scoped location on disk and reloads it on startup, using a
// write-to-temp-then-rename save so a crash mid-write never leaves a
// corrupt file visible under the final name. The on-disk envelope is
// self-describing and versioned so an incompatible format triggers a
// full rebuild instead of a corrupt load.
package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/standardbeagle/lci-search/internal/lcierrors"
	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/model"
	"github.com/standardbeagle/lci-search/internal/symbolindex"
)

// schemaVersion is bumped whenever the on-disk envelope's shape
// changes incompatibly. Load rejects any other version and signals the
// caller to do a full rebuild rather than attempt to interpret it.
const schemaVersion = 1

// fileName is the project-scoped store's filename, written under the
// project root's metadata directory (see Path).
const fileName = "symbols.json"

// envelope is the self-describing on-disk format: a version tag plus
// the flattened entry sequence.
type envelope struct {
	Version int           `json:"version"`
	Entries []storedEntry `json:"entries"`
}

type storedEntry struct {
	Name    string           `json:"name"`
	RelPath string           `json:"rel_path"`
	Line    int              `json:"line"`
	Column  int              `json:"column"`
	Kind    model.SymbolKind `json:"kind"`
}

// Path returns the on-disk location for root's metadata store, under
// ".lci-search/symbols.json" relative to the project root.
func Path(root string) string {
	return filepath.Join(root, ".lci-search", fileName)
}

// Save atomically writes the index's current entries to path's
// directory via write-to-temp-then-rename, never leaving a partially
// written file visible under the final name.
func Save(root string, entries []symbolindex.Entry) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return lcierrors.NewIndexError(lcierrors.KindIO, "mkdir", path, err)
	}

	env := envelope{Version: schemaVersion, Entries: make([]storedEntry, len(entries))}
	for i, e := range entries {
		env.Entries[i] = storedEntry{
			Name:    e.Name,
			RelPath: e.RelPath,
			Line:    e.Line,
			Column:  e.Column,
			Kind:    e.Kind,
		}
	}

	data, err := json.Marshal(env)
	if err != nil {
		return lcierrors.NewIndexError(lcierrors.KindIO, "marshal", path, err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return lcierrors.NewIndexError(lcierrors.KindIO, "write", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return lcierrors.NewIndexError(lcierrors.KindIO, "rename", path, err)
	}
	return nil
}

// Load reads root's metadata store. A missing file or an incompatible
// schema version both return (nil, false, nil): the caller's contract
// is "fall back to a full rebuild", not an error.
func Load(root string) ([]symbolindex.Entry, bool, error) {
	path := Path(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, lcierrors.NewIndexError(lcierrors.KindIO, "read", path, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		logging.Warnf("metadata: %s is not valid JSON, rebuilding: %v", path, err)
		return nil, false, nil
	}
	if env.Version != schemaVersion {
		logging.Infof("metadata: %s has schema version %d, want %d; rebuilding", path, env.Version, schemaVersion)
		return nil, false, nil
	}

	entries := make([]symbolindex.Entry, len(env.Entries))
	for i, se := range env.Entries {
		entries[i] = symbolindex.Entry{
			SymbolRecord: model.SymbolRecord{
				Name:   se.Name,
				Line:   se.Line,
				Column: se.Column,
				Kind:   se.Kind,
			},
			RelPath: se.RelPath,
		}
	}
	return entries, true, nil
}

// MutationThreshold is the number of accumulated incremental mutations
// after which the realtime indexer re-saves the store, rather than
// saving on every single file change.
const MutationThreshold = 20
