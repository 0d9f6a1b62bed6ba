package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lci-search/internal/backend"
	"github.com/standardbeagle/lci-search/internal/config"
	"github.com/standardbeagle/lci-search/internal/contentcache"
	"github.com/standardbeagle/lci-search/internal/extractor"
	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/metadata"
	"github.com/standardbeagle/lci-search/internal/model"
	"github.com/standardbeagle/lci-search/internal/strategy"
	"github.com/standardbeagle/lci-search/internal/symbolindex"
)

// loadConfig resolves the project config for c's --root flag and
// layers --include/--exclude CLI overrides on top: defaults, then a
// project-scoped config file, then CLI flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", c.String("root"), err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	cfg.Project.Root = root

	if inc := c.StringSlice("include"); len(inc) > 0 {
		cfg.Include = inc
	}
	if exc := c.StringSlice("exclude"); len(exc) > 0 {
		cfg.Exclude = append(cfg.Exclude, exc...)
	}
	return cfg, nil
}

// appDeps bundles the long-lived components every command is built
// from: the symbol index and extractor are shared across the symbol
// strategy and (when watching) the realtime indexer, so both ends of
// that seam stay in sync.
type appDeps struct {
	cfg        *config.Config
	index      *symbolindex.Index
	extractor  *extractor.Extractor
	cache      *contentcache.Cache
	dispatcher *backend.Dispatcher
}

// buildDeps assembles the shared components and, for the symbol index,
// seeds it from a persisted metadata store when one exists so a
// restart doesn't pay for a full re-walk.
func buildDeps(ctx context.Context, cfg *config.Config) *appDeps {
	ix := symbolindex.New()
	if entries, ok, err := metadata.Load(cfg.Project.Root); err != nil {
		logging.Warnf("bootstrap: failed to load metadata: %v", err)
	} else if ok {
		ix.Build(entries)
		logging.Infof("bootstrap: loaded %d symbols from metadata", ix.Len())
	}

	candidates := []backend.Backend{
		backend.NewRipgrep(),
		backend.NewAg(),
		backend.NewFallback(cfg),
	}
	dispatcher := backend.NewDispatcher(ctx, cfg.Project.Root, candidates)
	logging.Infof("bootstrap: content backends available: %v", dispatcher.Names())

	return &appDeps{
		cfg:        cfg,
		index:      ix,
		extractor:  extractor.New(),
		cache:      contentcache.New(config.DefaultContentCacheEntries, config.DefaultContentCacheBytes),
		dispatcher: dispatcher,
	}
}

// strategies wires one polymorphic strategy per model.SearchMode,
// shared across search/watch/interactive.
func (d *appDeps) strategies() map[model.SearchMode]strategy.Strategy {
	return map[model.SearchMode]strategy.Strategy{
		model.ModeContent: strategy.NewContent(d.dispatcher),
		model.ModeSymbol:  strategy.NewSymbol(d.index, d.extractor, d.cfg),
		model.ModeFile:    strategy.NewFile(d.cfg),
		model.ModeRegex:   strategy.NewRegex(d.dispatcher),
	}
}
