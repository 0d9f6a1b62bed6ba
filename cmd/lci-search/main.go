// Command lci-search is the CLI entry point: a one-shot "search" query
// by default, a "watch" mode that keeps the symbol index current
// against a live project tree, and an "interactive" mode that launches
// the bubbletea TUI (internal/engine).
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lci-search/internal/logging"
)

var version = "dev"

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "lci-search: %v\n", err)
		os.Exit(1)
	}
}

// newApp assembles the CLI app, split out from main so tests can drive
// it in-process without exec'ing a built binary.
func newApp() *cli.App {
	return &cli.App{
		Name:                   "lci-search",
		Usage:                  "Interactive multi-mode code search",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root to search (default: current directory)",
				Value:   ".",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (extends config)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logging.SetLevel(logging.LevelDebug)
			}
			return nil
		},
		Commands: []*cli.Command{
			searchCommand(),
			watchCommand(),
			interactiveCommand(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return runSearch(c)
			}
			return cli.ShowAppHelp(c)
		},
	}
}
