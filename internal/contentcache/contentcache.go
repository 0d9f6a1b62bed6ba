// Package contentcache implements a bounded, least-recently-used file
// content cache (CacheEntry) and, separately, the built-in fallback
// backend's compiled-regex-pattern cache. A container/list-based LRU
// with a dual entry-count/byte-count eviction rule: evict
// least-recently-used entries while (entries > maxEntries) OR
// (Σ footprints > maxBytes).
package contentcache

import (
	"container/list"
	"sync"
	"time"

	"github.com/standardbeagle/lci-search/internal/model"
)

// symbolOverheadBytes and fixedOverheadBytes mirror the original
// program's CacheEntry::estimate_memory_size (types.rs): path length +
// content length + symbols*64 + 128 fixed overhead.
const (
	symbolOverheadBytes = 64
	fixedOverheadBytes  = 128
)

// Entry is the cached record for one file: identity, hash, optional
// contents, extracted symbols, and bookkeeping fields. Content is
// optional because an entry may be kept for its symbols alone once its
// bytes are no longer needed by the caller.
type Entry struct {
	FileID       model.FileID
	AbsPath      string
	ContentHash  uint64
	ModifiedTime time.Time
	Content      []byte
	Symbols      []model.SymbolRecord
	LastAccess   time.Time

	// Value holds an arbitrary cached payload for non-file uses of this
	// same bounded-LRU machinery — e.g. the built-in fallback backend's
	// compiled-regex-pattern cache (internal/backend), keyed by pattern
	// source instead of by path.
	Value any
}

// footprint estimates an entry's memory footprint the way the original
// implementation does: path + content + symbols*64 + 128.
func footprint(e *Entry) int {
	return len(e.AbsPath) + len(e.Content) + len(e.Symbols)*symbolOverheadBytes + fixedOverheadBytes
}

type listEntry struct {
	key   string
	entry *Entry
	size  int
}

// Cache is a thread-safe LRU cache bounded by both entry count and
// cumulative estimated footprint. Used both for the file content cache
// (keyed by absolute path) and the built-in fallback backend's compiled
// regex-pattern cache (keyed by pattern source, see internal/backend).
type Cache struct {
	maxEntries int
	maxBytes   int

	mu        sync.Mutex
	items     map[string]*list.Element
	order     *list.List
	totalSize int
}

// New returns a Cache bounded by maxEntries and maxBytes. A
// non-positive maxEntries or maxBytes disables that half of the
// bound (unbounded on that dimension).
func New(maxEntries, maxBytes int) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		items:      make(map[string]*list.Element),
		order:      list.New(),
	}
}

// Get retrieves an entry and marks it most-recently-used.
func (c *Cache) Get(key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	le := elem.Value.(*listEntry)
	le.entry.LastAccess = time.Now()
	return le.entry, true
}

// Put inserts or replaces an entry, then evicts least-recently-used
// entries until both bounds are satisfied.
func (c *Cache) Put(key string, entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := footprint(entry)

	if elem, ok := c.items[key]; ok {
		old := elem.Value.(*listEntry)
		c.totalSize += size - old.size
		old.entry = entry
		old.size = size
		c.order.MoveToFront(elem)
	} else {
		le := &listEntry{key: key, entry: entry, size: size}
		elem := c.order.PushFront(le)
		c.items[key] = elem
		c.totalSize += size
	}
	c.evict()
}

// Remove deletes key from the cache, if present.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeElement(key)
}

func (c *Cache) removeElement(key string) {
	elem, ok := c.items[key]
	if !ok {
		return
	}
	le := elem.Value.(*listEntry)
	c.order.Remove(elem)
	delete(c.items, key)
	c.totalSize -= le.size
}

// evict drops least-recently-used entries while either bound is
// exceeded. Caller must hold c.mu.
func (c *Cache) evict() {
	for {
		overEntries := c.maxEntries > 0 && c.order.Len() > c.maxEntries
		overBytes := c.maxBytes > 0 && c.totalSize > c.maxBytes
		if !overEntries && !overBytes {
			return
		}
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		le := oldest.Value.(*listEntry)
		c.order.Remove(oldest)
		delete(c.items, le.key)
		c.totalSize -= le.size
	}
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// TotalBytes returns the current cumulative estimated footprint.
func (c *Cache) TotalBytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSize
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order = list.New()
	c.totalSize = 0
}
