package engine

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/standardbeagle/lci-search/internal/model"
	"github.com/standardbeagle/lci-search/pkg/pathutil"
)

// helpKeyMap adapts model.HelpBindings (kept as plain data per
// SPEC_FULL's "rendering is out of scope" decision) to bubbles/help's
// help.KeyMap interface, so the overlay is rendered by the same
// bubbles widget the rest of the pack's bubbletea stack favors rather
// than a hand-rolled table.
type helpKeyMap struct {
	bindings []key.Binding
}

func newHelpKeyMap() helpKeyMap {
	bindings := make([]key.Binding, len(model.HelpBindings))
	for i, kb := range model.HelpBindings {
		bindings[i] = key.NewBinding(
			key.WithKeys(kb.Key),
			key.WithHelp(kb.Key, kb.Description),
		)
	}
	return helpKeyMap{bindings: bindings}
}

func (k helpKeyMap) ShortHelp() []key.Binding { return k.bindings }

func (k helpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.bindings}
}

// render builds the full-screen view: query line, result list, status
// bar, and the help overlay when toggled. Kept as a pure function of
// Model state so it is trivially unit-testable without a live terminal.
func (m *Model) render() string {
	var b strings.Builder

	b.WriteString(m.renderQueryLine())
	b.WriteString("\n")
	b.WriteString(m.renderResults())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	if m.state.HelpVisible {
		b.WriteString("\n\n")
		b.WriteString(m.renderHelp())
	}

	return b.String()
}

func (m *Model) renderQueryLine() string {
	prefix := m.state.Mode.Sigil()
	var styled string
	switch m.state.Mode {
	case model.ModeSymbol:
		styled = m.styles.prefixSymbol.Render(prefix)
	case model.ModeFile:
		styled = m.styles.prefixFile.Render(prefix)
	case model.ModeRegex:
		styled = m.styles.prefixRegex.Render(prefix)
	}
	clean := m.state.CleanedQuery()
	title := fmt.Sprintf("[%s] ", strings.ToUpper(m.state.Mode.String()))
	if m.state.Loading {
		title = m.styles.loading.Render(title)
	}
	return title + styled + clean
}

func (m *Model) renderResults() string {
	if len(m.state.Results) == 0 {
		return "(no results)"
	}
	root := m.state.ProjectRoot
	var lines []string
	for i, r := range m.state.Results {
		line := formatResultLine(root, r)
		if i == m.state.Selected {
			line = m.styles.selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatResultLine(root string, r model.SearchResult) string {
	rel := pathutil.ToRelative(r.Path, root)
	switch r.Display.Kind {
	case model.DisplaySymbol:
		return fmt.Sprintf("%s:%d  %s %s", rel, r.Line, r.Display.SymKind.Glyph(), r.Display.Name)
	case model.DisplayFile:
		name := r.Display.RelPath
		if r.Display.IsDirectory {
			name += "/"
		}
		return name
	default:
		return fmt.Sprintf("%s:%d  %s", rel, r.Line, strings.TrimSpace(r.Display.LineContent))
	}
}

func (m *Model) renderStatus() string {
	if m.state.ErrorMessage != "" {
		return m.styles.errorText.Render("error: " + m.state.ErrorMessage)
	}
	status := fmt.Sprintf("%d results | Tab mode | ?/help | Esc/quit", len(m.state.Results))
	if len(m.state.Results) == 0 && len(m.state.Suggestions) > 0 {
		status += " | did you mean: " + strings.Join(m.state.Suggestions, ", ") + "?"
	}
	return m.styles.status.Render(status)
}

func (m *Model) renderHelp() string {
	h := help.New()
	h.ShowAll = true
	return "Help (? or Esc to close)\n" + h.View(newHelpKeyMap())
}
