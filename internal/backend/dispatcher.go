package backend

import (
	"context"
	"errors"
	"sort"

	"github.com/standardbeagle/lci-search/internal/lcierrors"
	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/model"
)

// Dispatcher probes known backends at construction, retains the
// available ones sorted by priority descending, and tries each in turn
// on search, failing over on error.
type Dispatcher struct {
	root     string
	backends []Backend
}

// NewDispatcher probes candidates (highest priority first after
// sorting) and retains only those available under root.
func NewDispatcher(ctx context.Context, root string, candidates []Backend) *Dispatcher {
	sorted := append([]Backend(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority() > sorted[j].Priority() })

	var available []Backend
	for _, b := range sorted {
		if b.IsAvailable(ctx) {
			available = append(available, b)
		} else {
			logging.Infof("backend: %s unavailable, skipping", b.Name())
		}
	}
	return &Dispatcher{root: root, backends: available}
}

// SearchContent tries each available backend in priority order, moving
// to the next on error. Exit code 1 from an external tool is modeled by
// the backend itself as (nil, nil) — "no matches", not an error.
func (d *Dispatcher) SearchContent(ctx context.Context, query string) ([]model.SearchResult, error) {
	for _, b := range d.backends {
		results, err := b.SearchContent(ctx, d.root, query)
		if err != nil {
			logging.Warnf("backend: %s failed, trying next: %v", b.Name(), err)
			continue
		}
		return results, nil
	}
	return nil, lcierrors.ErrNoBackendsAvailable
}

// SearchRegex tries each available backend's native regex support in
// priority order; a backend without native support is skipped (not
// counted as a failure) and, if none support it, falls back to content
// search with pattern as a literal query.
func (d *Dispatcher) SearchRegex(ctx context.Context, pattern string) ([]model.SearchResult, error) {
	anySupportsRegex := false
	for _, b := range d.backends {
		results, err := b.SearchRegex(ctx, d.root, pattern)
		if errors.Is(err, errNotSupported) {
			continue
		}
		anySupportsRegex = true
		if err != nil {
			logging.Warnf("backend: %s regex search failed, trying next: %v", b.Name(), err)
			continue
		}
		return results, nil
	}
	if !anySupportsRegex {
		return d.SearchContent(ctx, pattern)
	}
	return nil, lcierrors.ErrNoBackendsAvailable
}

// Names returns the available backends' names, highest priority first,
// for the strategy layer's "which backend was selected" meta-info.
func (d *Dispatcher) Names() []string {
	names := make([]string, len(d.backends))
	for i, b := range d.backends {
		names[i] = b.Name()
	}
	return names
}
