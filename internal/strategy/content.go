package strategy

import (
	"context"
	"sync"

	"github.com/standardbeagle/lci-search/internal/backend"
	"github.com/standardbeagle/lci-search/internal/lcierrors"
	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/model"
)

// Content delegates to the dispatcher's content search. Prepare is a
// no-op; results group by file.
type Content struct {
	Dispatcher *backend.Dispatcher

	mu  sync.Mutex
	err error
}

func NewContent(d *backend.Dispatcher) *Content { return &Content{Dispatcher: d} }

func (c *Content) Name() string                             { return "content" }
func (c *Content) Prepare(ctx context.Context, root string) error { return nil }
func (c *Content) SupportsFileGrouping() bool                { return true }

func (c *Content) MetaInfo(root string) string {
	names := c.Dispatcher.Names()
	if len(names) == 0 {
		return ""
	}
	return "backend: " + names[0]
}

// Err returns the most recent stream's terminal error, if any.
func (c *Content) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Content) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func (c *Content) CreateStream(ctx context.Context, root, query string) Stream {
	c.setErr(nil)
	if query == "" {
		return emptyStream()
	}
	ch := make(chan model.SearchResult)
	go func() {
		defer close(ch)
		results, err := c.Dispatcher.SearchContent(ctx, query)
		if err != nil {
			backendName := "content"
			if names := c.Dispatcher.Names(); len(names) > 0 {
				backendName = names[0]
			}
			wrapped := lcierrors.NewBackendError(backendName, err)
			logging.Warnf("content strategy: %v", wrapped)
			c.setErr(wrapped)
			return
		}
		for _, r := range results {
			select {
			case ch <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
