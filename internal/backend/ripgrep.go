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

// Ripgrep is the highest-priority backend: `rg --vimgrep --byte-offset`.
type Ripgrep struct{}

func NewRipgrep() *Ripgrep { return &Ripgrep{} }

func (r *Ripgrep) Name() string  { return "ripgrep" }
func (r *Ripgrep) Priority() int { return 100 }

func (r *Ripgrep) IsAvailable(ctx context.Context) bool {
	return exec.CommandContext(ctx, "rg", "--version").Run() == nil
}

func (r *Ripgrep) SearchContent(ctx context.Context, root, query string) ([]model.SearchResult, error) {
	return r.run(ctx, root, query, []string{
		"--vimgrep", "--byte-offset", "-i", "-F",
		"--max-filesize", "1M",
		query,
	}, query)
}

func (r *Ripgrep) SearchRegex(ctx context.Context, root, pattern string) ([]model.SearchResult, error) {
	return r.run(ctx, root, pattern, []string{
		"--vimgrep", "--byte-offset", "--regex", "-i",
		"--max-filesize", "1M",
		pattern,
	}, pattern)
}

func (r *Ripgrep) run(ctx context.Context, root, matchText string, args []string, forErrMsg string) ([]model.SearchResult, error) {
	cmd := exec.CommandContext(ctx, "rg", args...)
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			// rg's documented "no matches" exit code; not an error.
			return nil, nil
		}
		return nil, fmt.Errorf("ripgrep failed for %q: %w", forErrMsg, err)
	}
	return parseVimgrepByteOffset(string(out), root, matchText), nil
}

// parseVimgrepByteOffset parses `file:line:column:byte_offset:content`
// lines, ripgrep's --vimgrep --byte-offset format.
func parseVimgrepByteOffset(output, root, query string) []model.SearchResult {
	var results []model.SearchResult
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 5)
		if len(parts) < 5 {
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
		lineContent := parts[4]
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
