// Package watcher observes a project tree for filesystem changes and
// emits debounced, coalesced notifications: recursive fsnotify.Add,
// directory-add-on-create, ignore-pattern filtering before debouncing,
// and a single global timer reset on every event, flushed as one
// batch.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/lci-search/internal/config"
	"github.com/standardbeagle/lci-search/internal/discovery"
	"github.com/standardbeagle/lci-search/internal/logging"
)

// EventKind is the coalesced event taxonomy: every raw fsnotify event
// collapses to one of these four.
type EventKind int

const (
	Created EventKind = iota
	Modified
	Removed
	Moved
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	case Moved:
		return "moved"
	default:
		return "unknown"
	}
}

// Event is one coalesced, debounced filesystem change. OldPath is only
// populated for Moved.
type Event struct {
	Kind    EventKind
	Path    string
	OldPath string
}

// Watcher recursively watches a project root, filters by watched
// extension and ignore precedence, and delivers batches of debounced
// events to Events after the configured quiescence window.
type Watcher struct {
	cfg *config.Config
	fsw *fsnotify.Watcher

	Events chan []Event

	ignores *discovery.IgnoreSet

	mu      sync.Mutex
	pending map[string]Event
	timer   *time.Timer

	// renamedFrom and renamedFromTime hold the most recent bare
	// rename-away seen, so a Create that follows within correlateWindow
	// can be correlated
	// into a single Moved event rather than a Removed+Created pair.
	// Best-effort: see SPEC_FULL.md's rename-coalescing decision.
	renamedFrom     string
	renamedFromTime time.Time

	closed bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Watcher rooted at cfg.Project.Root. The caller must
// call Start to begin watching and Close to release resources.
func New(cfg *config.Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		cfg:     cfg,
		fsw:     fsw,
		Events:  make(chan []Event, 1),
		pending: make(map[string]Event),
	}, nil
}

// Start adds recursive watches under the project root and begins
// processing events. It returns once the initial watch tree is set up;
// event processing continues on a background goroutine until Close.
func (w *Watcher) Start(ctx context.Context) error {
	if !w.cfg.Watch.Enabled {
		logging.Infof("watcher: disabled in configuration")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	if err := w.addTree(w.cfg.Project.Root); err != nil {
		cancel()
		return err
	}

	w.wg.Add(1)
	go w.processEvents(ctx)
	return nil
}

// Close stops watching and releases the fsnotify handle. Safe to call
// even if Start returned early because watching was disabled.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.Events)
	w.mu.Unlock()

	return err
}

// addTree adds a watch for root and every non-ignored subdirectory.
func (w *Watcher) addTree(root string) error {
	w.ignores = discovery.BuildIgnoreSet(w.cfg)
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" && path != root {
			return filepath.SkipDir
		}
		if path != root && w.ignores.Ignored(path, true) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logging.Warnf("watcher: failed to watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warnf("watcher: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := ev.Name
	info, statErr := os.Lstat(path)

	if statErr == nil && info.IsDir() {
		w.handleDirEvent(ev, path, info)
		return
	}

	if !w.shouldProcess(path) {
		return
	}

	switch {
	case ev.Op&fsnotify.Create != 0:
		w.correlateCreate(path)
	case ev.Op&fsnotify.Write != 0:
		w.enqueue(Event{Kind: Modified, Path: path})
	case ev.Op&fsnotify.Remove != 0:
		w.enqueue(Event{Kind: Removed, Path: path})
	case ev.Op&fsnotify.Rename != 0:
		// The old path no longer exists under its old name; hold it
		// briefly in case a paired Create names its new location.
		w.mu.Lock()
		w.renamedFrom = path
		w.renamedFromTime = time.Now()
		w.mu.Unlock()
		w.enqueue(Event{Kind: Removed, Path: path})
	}
}

// correlateCreate checks whether path is the other half of a very
// recent bare rename, rewriting the pending Removed(path=old) into a
// single Moved(old,new); otherwise it enqueues an ordinary Created.
func (w *Watcher) correlateCreate(path string) {
	w.mu.Lock()
	from := w.renamedFrom
	fromTime := w.renamedFromTime
	w.renamedFrom = ""
	w.mu.Unlock()

	const correlateWindow = 50 * time.Millisecond
	if from != "" && from != path && time.Since(fromTime) < correlateWindow {
		w.mu.Lock()
		delete(w.pending, from)
		w.mu.Unlock()
		w.enqueue(Event{Kind: Moved, Path: path, OldPath: from})
		return
	}
	w.enqueue(Event{Kind: Created, Path: path})
}

func (w *Watcher) handleDirEvent(ev fsnotify.Event, path string, info os.FileInfo) {
	if ev.Op&fsnotify.Create == 0 {
		return
	}
	if w.ignores != nil && w.ignores.Ignored(path, true) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		logging.Warnf("watcher: failed to watch new directory %s: %v", path, err)
	}
}

// shouldProcess reports whether path matches a watched extension and
// isn't excluded by ignore precedence. Non-watched extensions and
// paths outside the tree are dropped before debouncing.
func (w *Watcher) shouldProcess(path string) bool {
	ext := filepath.Ext(path)
	watched := false
	for _, e := range w.cfg.Watch.Extensions {
		if e == ext {
			watched = true
			break
		}
	}
	if !watched {
		return false
	}
	if w.ignores == nil {
		return true
	}
	return !w.ignores.Ignored(path, false)
}

// enqueue stores the latest event for path and resets the single
// shared debounce timer: any event for any path restarts the same
// debounce window, so a burst of rapid edits flushes once, in one
// batch, after the whole burst goes quiet.
func (w *Watcher) enqueue(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[ev.Path] = ev
	if w.timer != nil {
		w.timer.Stop()
	}
	debounce := time.Duration(w.cfg.Watch.DebounceMs) * time.Millisecond
	w.timer = time.AfterFunc(debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := make([]Event, 0, len(w.pending))
	for _, ev := range w.pending {
		batch = append(batch, ev)
	}
	w.pending = make(map[string]Event)

	// Held across the send (not just the map swap) so Close can never
	// close w.Events between this check and the send.
	defer w.mu.Unlock()
	select {
	case w.Events <- batch:
	default:
		// Events is a capacity-1 channel; a slow consumer that hasn't
		// drained the previous batch yet would otherwise block the
		// fsnotify event loop. The batch goes back into pending
		// (pending is empty here, since the lock is still held) and is
		// retried after another debounce window, so no change is lost.
		for _, ev := range batch {
			w.pending[ev.Path] = ev
		}
		w.timer = time.AfterFunc(time.Duration(w.cfg.Watch.DebounceMs)*time.Millisecond, w.flush)
		logging.Warnf("watcher: event consumer backed up, requeueing a batch of %d events", len(batch))
	}
}
