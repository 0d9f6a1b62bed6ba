// Package backend implements the content-search backends and their
// dispatcher: external grep-like tools probed for availability and
// tried in priority order, with a built-in scanning fallback.
package backend

import (
	"context"
	"path/filepath"

	"github.com/standardbeagle/lci-search/internal/model"
)

// joinRoot resolves a backend-reported relative path against root into
// an absolute path, the same join the original program's backends
// perform before building a SearchResult.
func joinRoot(root, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(root, rel)
}

// Backend is one content/regex search engine.
type Backend interface {
	Name() string
	IsAvailable(ctx context.Context) bool
	Priority() int
	SearchContent(ctx context.Context, root, query string) ([]model.SearchResult, error)
	// SearchRegex searches root for pattern. A backend without native
	// regex support returns (nil, errNotSupported); the dispatcher then
	// falls back to content search with the pattern as a literal query.
	SearchRegex(ctx context.Context, root, pattern string) ([]model.SearchResult, error)
}

// errNotSupported signals a backend has no native regex mode.
type notSupportedError struct{}

func (notSupportedError) Error() string { return "backend does not support regex search natively" }

var errNotSupported = notSupportedError{}
