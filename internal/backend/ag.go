package backend

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/standardbeagle/lci-search/internal/model"
)

// Ag is the second external backend (the_silver_searcher), restored
// at a priority below ripgrep. Content search runs literal and
// case-insensitive; regex search runs ag's own case-insensitive regex
// engine with VCS-ignore skipping, since ag (unlike a grep-only build)
// supports both natively.
type Ag struct{}

func NewAg() *Ag { return &Ag{} }

func (a *Ag) Name() string  { return "ag" }
func (a *Ag) Priority() int { return 50 }

func (a *Ag) IsAvailable(ctx context.Context) bool {
	return exec.CommandContext(ctx, "ag", "--version").Run() == nil
}

func (a *Ag) SearchContent(ctx context.Context, root, query string) ([]model.SearchResult, error) {
	return a.run(ctx, root, query, []string{"--vimgrep", "--column", "--literal", "-i", query})
}

func (a *Ag) SearchRegex(ctx context.Context, root, pattern string) ([]model.SearchResult, error) {
	return a.run(ctx, root, pattern, []string{"--vimgrep", "--column", "--ignore-case", "--skip-vcs-ignores", pattern})
}

func (a *Ag) run(ctx context.Context, root, matchText string, args []string) ([]model.SearchResult, error) {
	cmd := exec.CommandContext(ctx, "ag", args...)
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("ag failed for %q: %w", matchText, err)
	}
	return parseAgVimgrep(string(out), root, matchText), nil
}

// parseAgVimgrep parses `file:line:column:content` lines from
// `ag --vimgrep`. Unlike ripgrep, ag's vimgrep mode carries no byte
// offset, so the column is the only position hint available to
// findMatchPositions.
func parseAgVimgrep(output, root, query string) []model.SearchResult {
	var results []model.SearchResult
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 4)
		if len(parts) < 4 {
			continue
		}
		lineNumber, _ := strconv.Atoi(parts[1])
		if lineNumber == 0 {
			lineNumber = 1
		}
		columnNumber, _ := strconv.Atoi(parts[2])
		if columnNumber == 0 {
			columnNumber = 1
		}
		lineContent := parts[3]
		matchStart, matchEnd := findMatchPositions(lineContent, query, columnNumber)

		results = append(results, model.SearchResult{
			Path:   joinRoot(root, parts[0]),
			Line:   lineNumber,
			Column: columnNumber,
			Display: model.DisplayInfo{
				Kind:        model.DisplayContent,
				LineContent: lineContent,
				MatchStart:  matchStart,
				MatchEnd:    matchEnd,
			},
			Score: 1.0,
		})
	}
	return results
}
