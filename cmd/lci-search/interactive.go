package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lci-search/internal/engine"
	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/realtimeindex"
	"github.com/standardbeagle/lci-search/internal/watcher"
)

func interactiveCommand() *cli.Command {
	return &cli.Command{
		Name:    "interactive",
		Aliases: []string{"ui", "tui"},
		Usage:   "Launch the interactive multi-mode search UI",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep the symbol index current against live filesystem changes while interactive",
				Value: true,
			},
		},
		Action: runInteractive,
	}
}

func runInteractive(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := buildDeps(ctx, cfg)

	var fileChanges chan []watcher.Event
	var w *watcher.Watcher
	if c.Bool("watch") {
		w, err = watcher.New(cfg)
		if err != nil {
			return fmt.Errorf("interactive: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("interactive: %w", err)
		}
		indexer := realtimeindex.New(cfg, deps.index, deps.extractor, deps.cache)
		fileChanges = make(chan []watcher.Event, 1)
		go func() {
			defer close(fileChanges)
			for batch := range w.Events {
				indexer.ApplyBatch(batch)
				fileChanges <- batch
			}
		}()
	}

	m := engine.New(engine.Deps{
		Root:        cfg.Project.Root,
		Strategies:  deps.strategies(),
		FileChanges: fileChanges,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()

	if w != nil {
		cancel()
		w.Close()
	}
	if err != nil {
		logging.Warnf("interactive: program exited with error: %v", err)
	}
	return err
}
