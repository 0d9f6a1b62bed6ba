package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/realtimeindex"
	"github.com/standardbeagle/lci-search/internal/watcher"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Keep the symbol index current against live filesystem changes",
		Description: `Watches the project tree and applies each debounced, coalesced batch
of changes to the symbol index, persisting to the metadata store once
enough mutations accumulate. Runs until interrupted.`,
		Action: runWatch,
	}
}

func runWatch(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := buildDeps(ctx, cfg)

	w, err := watcher.New(cfg)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	indexer := realtimeindex.New(cfg, deps.index, deps.extractor, deps.cache)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Fprintf(os.Stdout, "watching %s (ctrl-c to stop)\n", cfg.Project.Root)
	for {
		select {
		case batch, ok := <-w.Events:
			if !ok {
				return nil
			}
			res := indexer.ApplyBatch(batch)
			fmt.Fprintf(os.Stdout, "%d file(s) updated, +%d -%d symbols (%s)\n",
				res.UpdatedFiles, res.AddedSymbols, res.RemovedSymbols, res.Duration)
		case sig := <-sigCh:
			logging.Infof("watch: received %v, shutting down", sig)
			return nil
		}
	}
}
