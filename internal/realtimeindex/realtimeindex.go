// Package realtimeindex applies debounced watcher.Event batches to the
// live symbol index, selectively re-extracting only the files that
// changed.
package realtimeindex

import (
	"os"
	"path/filepath"
	"time"

	"github.com/standardbeagle/lci-search/internal/config"
	"github.com/standardbeagle/lci-search/internal/contentcache"
	"github.com/standardbeagle/lci-search/internal/extractor"
	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/metadata"
	"github.com/standardbeagle/lci-search/internal/symbolindex"
	"github.com/standardbeagle/lci-search/internal/watcher"
	"github.com/standardbeagle/lci-search/pkg/pathutil"
)

// Result summarizes one ApplyBatch call: how many files were touched
// and how many symbol entries were added or removed as a result.
type Result struct {
	UpdatedFiles   int
	AddedSymbols   int
	RemovedSymbols int
	Duration       time.Duration
}

// Indexer consumes watcher.Event batches and keeps a symbolindex.Index
// (and, optionally, a content cache) in sync with the file tree,
// periodically persisting to metadata once enough mutations accumulate
// (see metadata.MutationThreshold).
type Indexer struct {
	cfg       *config.Config
	index     *symbolindex.Index
	extractor *extractor.Extractor
	cache     *contentcache.Cache // optional; nil disables cache invalidation

	mutationsSinceSave int
}

// New constructs an Indexer. cache may be nil if no content cache is
// in use.
func New(cfg *config.Config, index *symbolindex.Index, ex *extractor.Extractor, cache *contentcache.Cache) *Indexer {
	return &Indexer{cfg: cfg, index: index, extractor: ex, cache: cache}
}

// ApplyBatch applies every event in batch to the index in order:
// removals first (to free resources), then moves, then
// creates/modifies.
func (ix *Indexer) ApplyBatch(batch []watcher.Event) Result {
	start := time.Now()
	var res Result

	var removes, moves, changes []watcher.Event
	for _, ev := range batch {
		switch ev.Kind {
		case watcher.Removed:
			removes = append(removes, ev)
		case watcher.Moved:
			moves = append(moves, ev)
		default:
			changes = append(changes, ev)
		}
	}

	for _, ev := range removes {
		res.RemovedSymbols += ix.removeFile(ev.Path)
		res.UpdatedFiles++
	}
	for _, ev := range moves {
		res.RemovedSymbols += ix.removeFile(ev.OldPath)
		res.UpdatedFiles++
		if added, removed, ok := ix.updateFile(ev.Path); ok {
			res.AddedSymbols += added
			res.RemovedSymbols += removed
			res.UpdatedFiles++
		}
	}
	for _, ev := range changes {
		if added, removed, ok := ix.updateFile(ev.Path); ok {
			res.AddedSymbols += added
			res.RemovedSymbols += removed
			res.UpdatedFiles++
		}
	}

	res.Duration = time.Since(start)
	logging.Debugf("realtimeindex: updated %d files, +%d -%d symbols in %s",
		res.UpdatedFiles, res.AddedSymbols, res.RemovedSymbols, res.Duration)

	ix.mutationsSinceSave += res.UpdatedFiles
	if ix.mutationsSinceSave >= metadata.MutationThreshold {
		ix.persist()
	}
	return res
}

// removeFile drops path's symbols from the index and evicts it from
// the content cache, returning how many symbol entries were removed.
func (ix *Indexer) removeFile(path string) int {
	rel := pathutil.ToRelative(path, ix.cfg.Project.Root)
	removed := ix.countForPath(rel)
	ix.index.RemoveFile(rel)
	if ix.cache != nil {
		ix.cache.Remove(path)
	}
	return removed
}

// updateFile re-extracts path and replaces its symbol-index entries,
// returning how many entries were added and how many the file
// previously held (its replaced count, before the new entries land).
// It returns (0, 0, false) for an extension the extractor does not
// support, a missing path or a directory, or a file that cannot be read
// (only the read failure is logged). None of these is propagated, so
// one bad file never aborts a batch.
func (ix *Indexer) updateFile(path string) (added int, removed int, ok bool) {
	if !ix.extractor.SupportsExtension(filepath.Ext(path)) {
		return 0, 0, false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return 0, 0, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logging.Warnf("realtimeindex: failed to read %s: %v", path, err)
		return 0, 0, false
	}

	records := ix.extractor.Extract(path, content)
	rel := pathutil.ToRelative(path, ix.cfg.Project.Root)
	removed = ix.countForPath(rel)
	ix.index.ReplaceFile(rel, records)
	if ix.cache != nil {
		ix.cache.Remove(path)
	}
	return len(records), removed, true
}

// countForPath returns how many entries the index currently holds for
// rel, used to report a removal count before the entries are dropped.
func (ix *Indexer) countForPath(rel string) int {
	count := 0
	for _, e := range ix.index.Snapshot() {
		if e.RelPath == rel {
			count++
		}
	}
	return count
}

// persist saves the current index to metadata and resets the mutation
// counter, absorbing any write error as a warning: a failed save never
// blocks the in-memory index from continuing to serve queries.
func (ix *Indexer) persist() {
	if err := metadata.Save(ix.cfg.Project.Root, ix.index.Snapshot()); err != nil {
		logging.Warnf("realtimeindex: failed to persist index: %v", err)
	}
	ix.mutationsSinceSave = 0
}

