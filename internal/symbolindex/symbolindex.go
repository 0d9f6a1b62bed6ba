// Package symbolindex implements the in-memory, fuzzy-searchable symbol
// table: an ordered SymbolRecord sequence with incremental
// add/replace/remove, queried by skim-style fuzzy scoring (see
// fuzzy.go; the ordered-subsequence scorer is hand-written since no
// available library implements it).
package symbolindex

import (
	"sort"
	"sync"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/lci-search/internal/model"
)

// Entry pairs a SymbolRecord with the relative path of the file that
// owns it, since mutation (replace_file/remove_file) and the tie-break
// order both key off path.
type Entry struct {
	model.SymbolRecord
	RelPath string
}

// Match is one fuzzy-query result: the matched entry plus its score.
type Match struct {
	Entry
	Score int
}

// Index holds the live SymbolRecord sequence, sorted by name ascending
// with ties broken by (RelPath, Line, Column). Behind a single RWMutex
// held only during read or mutation, never across I/O.
type Index struct {
	mu      sync.RWMutex
	entries []Entry
}

// New returns an empty Index.
func New() *Index {
	return &Index{}
}

// Build replaces the entire index contents with entries, constructed
// from scratch in O(n log n).
func (ix *Index) Build(entries []Entry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = append([]Entry(nil), entries...)
	sortEntries(ix.entries)
}

// ReplaceFile removes every entry owned by path and inserts records in
// its place, then re-sorts. Atomic with respect to concurrent queries.
func (ix *Index) ReplaceFile(path string, records []model.SymbolRecord) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	kept := ix.entries[:0:0]
	for _, e := range ix.entries {
		if e.RelPath != path {
			kept = append(kept, e)
		}
	}
	for _, r := range records {
		kept = append(kept, Entry{SymbolRecord: r, RelPath: path})
	}
	sortEntries(kept)
	ix.entries = kept
}

// RemoveFile removes every entry owned by path.
func (ix *Index) RemoveFile(path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	kept := ix.entries[:0:0]
	for _, e := range ix.entries {
		if e.RelPath != path {
			kept = append(kept, e)
		}
	}
	ix.entries = kept
}

// Len returns the number of live entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Snapshot returns a copy of the live entries, in sorted order, for
// persistence by the metadata store.
func (ix *Index) Snapshot() []Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]Entry(nil), ix.entries...)
}

// Query fuzzy-matches query against every entry's name and returns the
// topK highest-scoring matches, descending by score. An empty query
// returns an empty result, never the whole index.
func (ix *Index) Query(query string, topK int) []Match {
	if query == "" {
		return nil
	}

	ix.mu.RLock()
	entries := ix.entries
	ix.mu.RUnlock()

	var matches []Match
	for _, e := range entries {
		score, ok := skimScore(query, e.Name)
		if !ok {
			continue
		}
		matches = append(matches, Match{Entry: e, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// Suggest offers "did you mean" candidates when Query finds nothing: it
// ranks every live symbol name by whole-string Jaro-Winkler similarity
// (go-edlib) rather than subsequence order, since a typo'd query may
// share no in-order subsequence with the name the user meant. Returns
// at most topK names above a similarity floor.
func (ix *Index) Suggest(query string, topK int) []string {
	if query == "" {
		return nil
	}

	ix.mu.RLock()
	entries := ix.entries
	ix.mu.RUnlock()

	type scored struct {
		name  string
		score float32
	}
	seen := map[string]bool{}
	var ranked []scored
	for _, e := range entries {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		sim, err := edlib.StringsSimilarity(query, e.Name, edlib.JaroWinkler)
		if err != nil || sim < 0.75 {
			continue
		}
		ranked = append(ranked, scored{name: e.Name, score: sim})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.name
	}
	return names
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.RelPath != b.RelPath {
			return a.RelPath < b.RelPath
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
