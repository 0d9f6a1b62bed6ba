package strategy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/standardbeagle/lci-search/internal/config"
	"github.com/standardbeagle/lci-search/internal/discovery"
	"github.com/standardbeagle/lci-search/internal/extractor"
	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/model"
	"github.com/standardbeagle/lci-search/internal/symbolindex"
	"github.com/standardbeagle/lci-search/pkg/pathutil"
)

// suggestTopK bounds how many "did you mean" names Suggestions returns.
const suggestTopK = 5

// Symbol strategy: Prepare triggers a synchronous full build of the
// symbol index if it hasn't been built yet (may take time proportional
// to project size); CreateStream then runs a fuzzy query against it.
// Results group by file.
type Symbol struct {
	Index     *symbolindex.Index
	Extractor *extractor.Extractor
	Config    *config.Config
	TopK      int

	once    sync.Once
	buildErr error

	mu          sync.Mutex
	suggestions []string
}

func NewSymbol(ix *symbolindex.Index, ex *extractor.Extractor, cfg *config.Config) *Symbol {
	return &Symbol{Index: ix, Extractor: ex, Config: cfg, TopK: config.DefaultFuzzyTopK}
}

func (s *Symbol) Name() string              { return "symbol" }
func (s *Symbol) SupportsFileGrouping() bool { return true }

func (s *Symbol) Prepare(ctx context.Context, root string) error {
	s.once.Do(func() {
		if s.Index.Len() > 0 {
			return
		}
		s.buildErr = s.build(root)
	})
	return s.buildErr
}

func (s *Symbol) build(root string) error {
	records, err := discovery.Walk(s.Config)
	if err != nil {
		return err
	}
	var entries []symbolindex.Entry
	for _, rec := range records {
		if !s.Extractor.SupportsExtension(filepath.Ext(rec.RelPath)) {
			continue
		}
		content, err := os.ReadFile(rec.AbsPath)
		if err != nil {
			logging.Warnf("symbol strategy: skipping %s: %v", rec.AbsPath, err)
			continue
		}
		for _, sym := range s.Extractor.Extract(rec.AbsPath, content) {
			entries = append(entries, symbolindex.Entry{SymbolRecord: sym, RelPath: rec.RelPath})
		}
	}
	s.Index.Build(entries)
	return nil
}

func (s *Symbol) MetaInfo(root string) string {
	return fmt.Sprintf("%d symbols indexed", s.Index.Len())
}

// Err always returns nil: a fuzzy index query has no failure mode of
// its own; build failures surface through Prepare instead.
func (s *Symbol) Err() error { return nil }

// Suggestions returns the "did you mean" names computed by the most
// recent zero-result query, or nil if the last query matched something
// (or none has run yet).
func (s *Symbol) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.suggestions...)
}

func (s *Symbol) setSuggestions(names []string) {
	s.mu.Lock()
	s.suggestions = names
	s.mu.Unlock()
}

func (s *Symbol) CreateStream(ctx context.Context, root, query string) Stream {
	s.setSuggestions(nil)
	if query == "" {
		return emptyStream()
	}
	ch := make(chan model.SearchResult)
	go func() {
		defer close(ch)
		matches := s.Index.Query(query, s.TopK)
		if len(matches) == 0 {
			s.setSuggestions(s.Index.Suggest(query, suggestTopK))
			return
		}
		for _, m := range matches {
			result := model.SearchResult{
				Path:   pathutil.ToAbsolute(m.RelPath, root),
				Line:   m.Line,
				Column: m.Column,
				Display: model.DisplayInfo{
					Kind:    model.DisplaySymbol,
					Name:    m.Name,
					SymKind: m.Kind,
					RelPath: m.RelPath,
				},
				Score: float64(m.Score),
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
