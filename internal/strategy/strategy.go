// Package strategy implements the four polymorphic search strategies:
// Content, Symbol, File, Regex. Each produces a lazy, uniformly-typed
// SearchResult stream behind one interface (name, prepare, create
// stream, file-grouping support, meta-info, terminal error), delivered
// over a Go channel. The interface has no formatter factory: results
// are formatted for output by internal/runner.
package strategy

import (
	"context"

	"github.com/standardbeagle/lci-search/internal/model"
)

// Stream is the lazy result sequence every strategy produces. Readers
// range over it until it closes; a strategy that errors mid-stream
// closes the channel and records the error for Err to report, without
// forcing every strategy to buffer its full result
// set up front.
type Stream <-chan model.SearchResult

// Strategy is the uniform interface every search mode implements.
type Strategy interface {
	Name() string

	// Prepare runs once before the stream is pulled. Most strategies
	// no-op; Symbol uses it to build the index synchronously if needed.
	Prepare(ctx context.Context, root string) error

	// CreateStream returns query's result stream. An empty query MUST
	// yield an already-closed, empty stream without doing any work.
	CreateStream(ctx context.Context, root, query string) Stream

	// SupportsFileGrouping reports whether this strategy's results
	// group meaningfully by file (Content/Symbol/Regex: yes; File: no).
	SupportsFileGrouping() bool

	// MetaInfo returns an optional human-readable description — e.g.
	// which backend served a content search — or "" if none applies.
	MetaInfo(root string) string

	// Err returns the terminal error from the most recently drained
	// stream, or nil if it completed without one. Callers must drain
	// the stream CreateStream returned (read until closed) before
	// calling Err; reading it earlier may race the producing goroutine.
	Err() error
}

// Suggester is implemented by strategies that can offer "did you mean"
// alternatives once a query's stream has completed with zero results.
type Suggester interface {
	Suggestions() []string
}

// emptyStream returns an already-closed stream with no values, used by
// every strategy's empty-query fast path.
func emptyStream() Stream {
	ch := make(chan model.SearchResult)
	close(ch)
	return ch
}
