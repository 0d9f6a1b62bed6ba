package strategy

import (
	"context"
	"sort"
	"strings"

	"github.com/standardbeagle/lci-search/internal/config"
	"github.com/standardbeagle/lci-search/internal/discovery"
	"github.com/standardbeagle/lci-search/internal/model"
	"github.com/standardbeagle/lci-search/internal/symbolindex"
	"github.com/standardbeagle/lci-search/pkg/pathutil"
)

// File walks discovered paths and fuzzy-matches each file's and
// directory's relative path against the query; results do not group
// by file.
type File struct {
	Config *config.Config
}

func NewFile(cfg *config.Config) *File { return &File{Config: cfg} }

func (f *File) Name() string                             { return "file" }
func (f *File) Prepare(ctx context.Context, root string) error { return nil }
func (f *File) SupportsFileGrouping() bool                { return false }
func (f *File) MetaInfo(root string) string               { return "" }

// Err always returns nil: File's stream never fails mid-flight, since
// discovery errors are absorbed (matches stay empty) rather than
// surfaced, matching the walk's existing "best effort" contract.
func (f *File) Err() error { return nil }

func (f *File) CreateStream(ctx context.Context, root, query string) Stream {
	if query == "" {
		return emptyStream()
	}

	dirOnly := strings.HasSuffix(query, "/")
	needle := strings.TrimSuffix(query, "/")

	type candidate struct {
		rel   string
		isDir bool
	}
	var candidates []candidate

	if !dirOnly {
		if records, err := discovery.Walk(f.Config); err == nil {
			for _, r := range records {
				candidates = append(candidates, candidate{rel: r.RelPath, isDir: false})
			}
		}
	}
	if dirs, err := discovery.WalkDirs(f.Config); err == nil {
		for _, d := range dirs {
			candidates = append(candidates, candidate{rel: d, isDir: true})
		}
	}

	type scored struct {
		candidate
		score int
	}
	var matches []scored
	for _, c := range candidates {
		score, ok := symbolindex.SkimScore(needle, c.rel)
		if !ok {
			continue
		}
		matches = append(matches, scored{candidate: c, score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	ch := make(chan model.SearchResult)
	go func() {
		defer close(ch)
		for _, m := range matches {
			result := model.SearchResult{
				Path: pathutil.ToAbsolute(m.rel, root),
				Display: model.DisplayInfo{
					Kind:        model.DisplayFile,
					RelPath:     m.rel,
					IsDirectory: m.isDir,
				},
				Score: float64(m.score),
			}
			select {
			case ch <- result:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
