package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lci-search/internal/model"
	"github.com/standardbeagle/lci-search/internal/runner"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:    "search",
		Aliases: []string{"s"},
		Usage:   "Run a one-shot search and print matches",
		Description: `Runs one of the four search strategies (content, symbol, file, regex)
and streams results to stdout. The mode is chosen the same way the
interactive UI chooses it: a leading sigil on the query selects the
mode explicitly ('#' symbol, '>' file, '/' regex, none content), or
--mode overrides it.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Force a search mode: content, symbol, file, regex (default: detect from query sigil)",
			},
			&cli.BoolFlag{
				Name:  "heading",
				Usage: "Group output by file even when stdout isn't a terminal",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable styled output",
			},
		},
		Action: runSearch,
	}
}

func runSearch(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: lci-search search <query>")
	}
	raw := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	mode, query := resolveMode(c.String("mode"), raw)

	ctx := context.Background()
	deps := buildDeps(ctx, cfg)
	strat, ok := deps.strategies()[mode]
	if !ok {
		return errors.New("search: no strategy wired for the requested mode")
	}

	_, err = runner.StreamAndPrint(ctx, strat, cfg.Project.Root, query, os.Stdout, runner.Options{
		Heading: c.Bool("heading"),
		NoColor: c.Bool("no-color"),
	})
	return err
}

// resolveMode applies an explicit --mode flag if given, otherwise
// detects the mode from raw's leading sigil (the same convention the
// interactive engine uses for its query line).
func resolveMode(flag, raw string) (model.SearchMode, string) {
	switch flag {
	case "symbol":
		return model.ModeSymbol, raw
	case "file":
		return model.ModeFile, raw
	case "regex":
		return model.ModeRegex, raw
	case "content":
		return model.ModeContent, raw
	default:
		return model.DetectMode(raw)
	}
}
