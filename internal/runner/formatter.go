// Package runner drives a Strategy to completion for the CLI: either
// streaming formatted lines to an io.Writer or collecting a
// deduplicated slice for the TUI to hold in memory.
package runner

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/standardbeagle/lci-search/internal/model"
	"github.com/standardbeagle/lci-search/pkg/pathutil"
)

// formatter renders one SearchResult as a printable line, with
// optional lipgloss styling for path, line number, match, and kind.
type formatter struct {
	root   string
	styled bool

	path    lipgloss.Style
	lineNum lipgloss.Style
	match   lipgloss.Style
	kind    lipgloss.Style
}

func newFormatter(root string, styled bool) *formatter {
	return &formatter{
		root:    root,
		styled:  styled,
		path:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		lineNum: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		match:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		kind:    lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	}
}

func (f *formatter) apply(s lipgloss.Style, text string) string {
	if !f.styled {
		return text
	}
	return s.Render(text)
}

// formatHeading renders a result for grouped (per-file heading) output:
// the file path is already printed as a header, so the line leads with
// line:column.
func (f *formatter) formatHeading(r model.SearchResult) string {
	switch r.Display.Kind {
	case model.DisplayFile:
		name := r.Display.RelPath
		if r.Display.IsDirectory {
			name += "/"
		}
		return name
	case model.DisplaySymbol:
		return fmt.Sprintf("%s:%d: %s %s", f.apply(f.lineNum, fmt.Sprintf("%d", r.Line)), r.Column,
			f.apply(f.kind, r.Display.SymKind.Glyph()), r.Display.Name)
	default: // DisplayContent, DisplayRegex
		return fmt.Sprintf("%s:%d: %s", f.apply(f.lineNum, fmt.Sprintf("%d", r.Line)), r.Column,
			f.highlightLine(r))
	}
}

// formatInline renders a result with the path prefixed, for pipe/inline
// output where no file header has been printed.
func (f *formatter) formatInline(r model.SearchResult) string {
	rel := pathutil.ToRelative(r.Path, f.root)
	switch r.Display.Kind {
	case model.DisplayFile:
		name := r.Display.RelPath
		if r.Display.IsDirectory {
			name += "/"
		}
		return f.apply(f.path, name)
	case model.DisplaySymbol:
		return fmt.Sprintf("%s:%d: %s %s", f.apply(f.path, rel), r.Line,
			f.apply(f.kind, r.Display.SymKind.Glyph()), r.Display.Name)
	default:
		return fmt.Sprintf("%s:%d:%d: %s", f.apply(f.path, rel), r.Line, r.Column, f.highlightLine(r))
	}
}

// highlightLine bolds the matched byte range within LineContent, when
// the offsets are in bounds; otherwise it returns the line unchanged.
func (f *formatter) highlightLine(r model.SearchResult) string {
	line := r.Display.LineContent
	start, end := r.Display.MatchStart, r.Display.MatchEnd
	if start < 0 || end > len(line) || start > end {
		return line
	}
	if !f.styled {
		return line
	}
	return line[:start] + f.match.Render(line[start:end]) + line[end:]
}
