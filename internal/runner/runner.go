package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/model"
	"github.com/standardbeagle/lci-search/internal/strategy"
	"github.com/standardbeagle/lci-search/pkg/pathutil"
)

// Options controls StreamAndPrint's output shape.
type Options struct {
	// Heading forces grouped, per-file output even when stdout isn't a
	// TTY (the original's --heading flag).
	Heading bool
	// NoColor disables lipgloss styling regardless of TTY detection.
	NoColor bool
}

// StreamAndPrint runs strategy against query and writes formatted
// results to w, grouping by file when w is a terminal (or Heading is
// set) and the strategy supports it. It returns the number of results
// printed, or an error from Prepare/the stream setup. A write failure
// caused by a broken pipe (the reader side of a shell pipeline closing
// early, e.g. piping into `head`) is treated as a normal exit, matching
// the original's safe_println.
func StreamAndPrint(ctx context.Context, strat strategy.Strategy, root, query string, w io.Writer, opts Options) (int, error) {
	logging.Infof("running %s search for: %q", strat.Name(), query)

	if err := strat.Prepare(ctx, root); err != nil {
		return 0, fmt.Errorf("runner: prepare %s: %w", strat.Name(), err)
	}
	if meta := strat.MetaInfo(root); meta != "" {
		logging.Debugf("%s", meta)
	}

	start := time.Now()
	stream := strat.CreateStream(ctx, root, query)

	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	grouped := (isTTY || opts.Heading) && strat.SupportsFileGrouping()
	styled := isTTY && !opts.NoColor

	logging.Debugf("output format: %s, file grouping: %v", outputFormatLabel(isTTY), grouped)

	f := newFormatter(root, styled)

	var count int
	var err error
	if grouped {
		count, err = processGrouped(stream, w, f)
	} else {
		count, err = processInline(stream, w, f)
	}
	if err != nil {
		return count, err
	}
	if err := strat.Err(); err != nil {
		return count, err
	}

	elapsed := time.Since(start)
	if count == 0 {
		msg := fmt.Sprintf("No %s matches found for %q", strat.Name(), query)
		if s, ok := strat.(strategy.Suggester); ok {
			if suggestions := s.Suggestions(); len(suggestions) > 0 {
				msg += fmt.Sprintf(" — did you mean: %s?", strings.Join(suggestions, ", "))
			}
		}
		if _, werr := fmt.Fprintln(w, msg); werr != nil {
			exitIfBrokenPipe(werr)
			return count, werr
		}
	} else {
		logging.Infof("found %d %s matches in %.2fms", count, strat.Name(), float64(elapsed.Microseconds())/1000.0)
	}
	return count, nil
}

func outputFormatLabel(isTTY bool) string {
	if isTTY {
		return "TTY"
	}
	return "pipe"
}

func processGrouped(stream strategy.Stream, w io.Writer, f *formatter) (int, error) {
	var count int
	var currentPath string
	seenFile := false

	for r := range stream {
		if !seenFile || r.Path != currentPath {
			if seenFile {
				if _, err := fmt.Fprintln(w); err != nil {
					exitIfBrokenPipe(err)
					return count, err
				}
			}
			if _, err := fmt.Fprintf(w, "%s:\n", relHeader(f.root, r)); err != nil {
				exitIfBrokenPipe(err)
				return count, err
			}
			currentPath = r.Path
			seenFile = true
		}

		if _, err := fmt.Fprintln(w, f.formatHeading(r)); err != nil {
			exitIfBrokenPipe(err)
			return count, err
		}
		count++
	}
	return count, nil
}

func processInline(stream strategy.Stream, w io.Writer, f *formatter) (int, error) {
	var count int
	for r := range stream {
		if _, err := fmt.Fprintln(w, f.formatInline(r)); err != nil {
			exitIfBrokenPipe(err)
			return count, err
		}
		count++
	}
	return count, nil
}

func relHeader(root string, r model.SearchResult) string {
	if r.Display.Kind == model.DisplayFile {
		return r.Display.RelPath
	}
	return pathutil.ToRelative(r.Path, root)
}

// exitIfBrokenPipe mirrors the original's safe_println: a broken pipe
// on stdout (the reader closed early, e.g. `| head`) is a normal exit,
// not a failure worth reporting.
func exitIfBrokenPipe(err error) {
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) {
		os.Exit(0)
	}
}

// Collect runs strategy against query and drains the stream into a
// slice for the TUI to hold in memory, deduplicating results that
// otherwise carry identical identity (path, line, column, and the
// symbol/match payload that distinguishes same-position hits across
// mode switches).
func Collect(ctx context.Context, strat strategy.Strategy, root, query string) ([]model.SearchResult, error) {
	logging.Infof("collecting %s search results for: %q", strat.Name(), query)

	if err := strat.Prepare(ctx, root); err != nil {
		return nil, fmt.Errorf("runner: prepare %s: %w", strat.Name(), err)
	}
	if meta := strat.MetaInfo(root); meta != "" {
		logging.Debugf("%s", meta)
	}

	start := time.Now()
	stream := strat.CreateStream(ctx, root, query)

	seen := make(map[resultKey]bool)
	var results []model.SearchResult
	for r := range stream {
		k := keyOf(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		results = append(results, r)
	}

	if err := strat.Err(); err != nil {
		return results, err
	}

	elapsed := time.Since(start)
	if len(results) == 0 {
		logging.Debugf("no %s matches found for %q", strat.Name(), query)
	} else {
		logging.Infof("collected %d %s matches in %.2fms", len(results), strat.Name(), float64(elapsed.Microseconds())/1000.0)
	}
	return results, nil
}

type resultKey struct {
	path   string
	line   int
	column int
	ident  string
}

func keyOf(r model.SearchResult) resultKey {
	var ident string
	switch r.Display.Kind {
	case model.DisplaySymbol:
		ident = r.Display.Name
	case model.DisplayFile:
		ident = r.Display.RelPath
	case model.DisplayRegex:
		ident = r.Display.MatchedText
	}
	return resultKey{path: r.Path, line: r.Line, column: r.Column, ident: ident}
}
