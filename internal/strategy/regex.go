package strategy

import (
	"context"
	"sync"

	"github.com/standardbeagle/lci-search/internal/backend"
	"github.com/standardbeagle/lci-search/internal/lcierrors"
	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/model"
)

// Regex delegates to the dispatcher's regex entry point, which itself
// falls back to content search if no backend supports regex natively.
type Regex struct {
	Dispatcher *backend.Dispatcher

	mu  sync.Mutex
	err error
}

func NewRegex(d *backend.Dispatcher) *Regex { return &Regex{Dispatcher: d} }

func (r *Regex) Name() string                             { return "regex" }
func (r *Regex) Prepare(ctx context.Context, root string) error { return nil }
func (r *Regex) SupportsFileGrouping() bool                { return true }

func (r *Regex) MetaInfo(root string) string {
	names := r.Dispatcher.Names()
	if len(names) == 0 {
		return ""
	}
	return "backend: " + names[0]
}

// Err returns the most recent stream's terminal error, if any.
func (r *Regex) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Regex) setErr(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

func (r *Regex) CreateStream(ctx context.Context, root, pattern string) Stream {
	r.setErr(nil)
	if pattern == "" {
		return emptyStream()
	}
	ch := make(chan model.SearchResult)
	go func() {
		defer close(ch)
		results, err := r.Dispatcher.SearchRegex(ctx, pattern)
		if err != nil {
			wrapped := lcierrors.NewRegexError(pattern, err)
			logging.Warnf("regex strategy: %v", wrapped)
			r.setErr(wrapped)
			return
		}
		for _, res := range results {
			res.Display.Kind = model.DisplayRegex
			res.Display.MatchedText = matchedTextOf(res)
			select {
			case ch <- res:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func matchedTextOf(r model.SearchResult) string {
	line := r.Display.LineContent
	start, end := r.Display.MatchStart, r.Display.MatchEnd
	if start < 0 || end > len(line) || start > end {
		return ""
	}
	return line[start:end]
}
