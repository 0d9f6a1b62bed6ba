// Package engine implements the interactive event engine: a
// charmbracelet/bubbletea tea.Model driving query editing, mode
// cycling, result navigation and search dispatch from four message
// sources (key input, search results, file-change batches, tick).
//
// bubbletea's Update function dequeues and processes exactly one Msg
// at a time; there is no API to bias one message source over another
// inside a single select. Priority is instead achieved by never doing
// blocking work inside Update itself (every search dispatch, file
// read, and channel wait is pushed into a tea.Cmd that runs off the
// Update goroutine), so a key event is always processed the moment it
// is dequeued regardless of what else is pending — quit signals stay
// responsive without a literal biased select.
package engine

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/standardbeagle/lci-search/internal/config"
	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/model"
	"github.com/standardbeagle/lci-search/internal/runner"
	"github.com/standardbeagle/lci-search/internal/strategy"
	"github.com/standardbeagle/lci-search/internal/watcher"
)

// modeOrder is the fixed Tab/Shift-Tab cycle order.
var modeOrder = []model.SearchMode{
	model.ModeContent, model.ModeSymbol, model.ModeFile, model.ModeRegex,
}

// OpenFileFunc is the Enter-key side effect collaborator. Actually
// opening a file in an editor is outside this repo's scope; this hook
// is kept as an injectable seam and defaults to a no-op.
type OpenFileFunc func(path string, line, col int) error

// Deps wires the engine to the rest of the application. Strategies
// must have an entry for every model.SearchMode the engine can reach;
// a missing entry surfaces as a search error rather than a panic.
type Deps struct {
	Root         string
	Strategies   map[model.SearchMode]strategy.Strategy
	FileChanges  <-chan []watcher.Event // optional; nil disables the file-change arm
	TickInterval time.Duration          // defaults to config.DefaultTickMs
	OpenFile     OpenFileFunc           // optional; defaults to a no-op
}

// Model is the bubbletea tea.Model for the interactive search UI.
type Model struct {
	state *model.UIState
	deps  Deps

	searchGen int
	fileWatch bool // false once FileChanges closes, to stop re-polling
	quitting  bool

	width, height int

	styles uiStyles
}

// New constructs a fresh Model rooted at deps.Root.
func New(deps Deps) *Model {
	if deps.TickInterval <= 0 {
		deps.TickInterval = time.Duration(config.DefaultTickMs) * time.Millisecond
	}
	if deps.OpenFile == nil {
		deps.OpenFile = func(string, int, int) error { return nil }
	}
	return &Model{
		state:     model.NewUIState(deps.Root),
		deps:      deps,
		fileWatch: deps.FileChanges != nil,
		styles:    newUIStyles(),
	}
}

// State exposes the underlying UI state, mainly for tests.
func (m *Model) State() *model.UIState { return m.state }

// --- tea.Model ---

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.deps.TickInterval)}
	if m.fileWatch {
		cmds = append(cmds, m.waitFileChangeCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, tickCmd(m.deps.TickInterval)

	case searchResultMsg:
		return m.handleSearchResult(msg), nil

	case fileChangeMsg:
		// File-change batches are logged at debug level only; the view
		// shows no notice of them. Keeping the symbol index fresh is
		// internal/realtimeindex's job, run by the caller independently
		// of this engine.
		logging.Debugf("engine: observed %d file change(s)", len(msg))
		return m, m.waitFileChangeCmd()

	case fileChangeClosedMsg:
		m.fileWatch = false
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	return m.render()
}

// --- key handling ---

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.HelpVisible {
		switch {
		case msg.Type == tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case msg.Type == tea.KeyEsc || msg.String() == "?":
			m.state.ToggleHelp()
		}
		// All other keys are inert while help is visible.
		return m, nil
	}

	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case msg.String() == "?":
		m.state.ToggleHelp()
		return m, nil

	case msg.Type == tea.KeyTab:
		m.cycleMode(1)
		return m, m.triggerSearch()
	case msg.Type == tea.KeyShiftTab:
		m.cycleMode(-1)
		return m, m.triggerSearch()

	case msg.Type == tea.KeyUp:
		m.navigate(-1)
		return m, nil
	case msg.Type == tea.KeyDown:
		m.navigate(1)
		return m, nil
	case msg.Type == tea.KeyPgUp:
		m.navigate(-10)
		return m, nil
	case msg.Type == tea.KeyPgDown:
		m.navigate(10)
		return m, nil
	case msg.Type == tea.KeyHome:
		if len(m.state.Results) > 0 {
			m.state.Selected = 0
		}
		return m, nil
	case msg.Type == tea.KeyEnd:
		if n := len(m.state.Results); n > 0 {
			m.state.Selected = n - 1
		}
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.openSelected()
		return m, nil

	case msg.Type == tea.KeyLeft:
		m.moveCursor(-1)
		return m, nil
	case msg.Type == tea.KeyRight:
		m.moveCursor(1)
		return m, nil
	case msg.Type == tea.KeyCtrlA:
		m.setTextAndCursor(m.state.Query, 0)
		return m, nil
	case msg.Type == tea.KeyCtrlE:
		m.setTextAndCursor(m.state.Query, charCount(m.state.Query))
		return m, nil
	case msg.Type == tea.KeyCtrlK:
		m.killToEnd()
		return m, m.triggerSearch()
	case msg.Type == tea.KeyCtrlU:
		m.setTextAndCursor("", 0)
		return m, m.triggerSearch()

	case msg.Type == tea.KeyBackspace:
		m.deleteBefore()
		return m, m.triggerSearch()
	case msg.Type == tea.KeyDelete, msg.Type == tea.KeyCtrlD:
		m.deleteAt()
		return m, m.triggerSearch()

	case msg.Type == tea.KeyRunes, msg.Type == tea.KeySpace:
		m.insertAtCursor(msg.Runes)
		return m, m.triggerSearch()
	}

	return m, nil
}

// --- query/cursor editing ---

func runesOf(s string) []rune { return []rune(s) }
func charCount(s string) int  { return len(runesOf(s)) }

func (m *Model) setTextAndCursor(text string, cursor int) {
	m.state.SetTextAndCursor(text, cursor)
}

func (m *Model) insertAtCursor(r []rune) {
	if len(r) == 0 {
		r = []rune(" ")
	}
	runes := runesOf(m.state.Query)
	cur := m.state.CursorChars
	out := make([]rune, 0, len(runes)+len(r))
	out = append(out, runes[:cur]...)
	out = append(out, r...)
	out = append(out, runes[cur:]...)
	m.setTextAndCursor(string(out), cur+len(r))
}

func (m *Model) deleteBefore() {
	runes := runesOf(m.state.Query)
	cur := m.state.CursorChars
	if cur == 0 {
		return
	}
	out := append(append([]rune{}, runes[:cur-1]...), runes[cur:]...)
	m.setTextAndCursor(string(out), cur-1)
}

func (m *Model) deleteAt() {
	runes := runesOf(m.state.Query)
	cur := m.state.CursorChars
	if cur >= len(runes) {
		return
	}
	out := append(append([]rune{}, runes[:cur]...), runes[cur+1:]...)
	m.setTextAndCursor(string(out), cur)
}

func (m *Model) moveCursor(delta int) {
	cur := m.state.CursorChars + delta
	if cur < 0 {
		cur = 0
	}
	if max := charCount(m.state.Query); cur > max {
		cur = max
	}
	m.setTextAndCursor(m.state.Query, cur)
}

func (m *Model) killToEnd() {
	runes := runesOf(m.state.Query)
	cur := m.state.CursorChars
	if cur >= len(runes) {
		return
	}
	m.setTextAndCursor(string(runes[:cur]), cur)
}

// cycleMode advances (dir>0) or retreats (dir<0) through modeOrder and
// rewrites the query's sigil to match the new mode.
func (m *Model) cycleMode(dir int) {
	idx := 0
	for i, mo := range modeOrder {
		if mo == m.state.Mode {
			idx = i
			break
		}
	}
	n := len(modeOrder)
	idx = ((idx+dir)%n + n) % n
	newMode := modeOrder[idx]

	clean := m.state.CleanedQuery()
	text := newMode.Sigil() + clean
	m.setTextAndCursor(text, charCount(text))
}

func (m *Model) navigate(delta int) {
	n := len(m.state.Results)
	if n == 0 {
		return
	}
	sel := ((m.state.Selected+delta)%n + n) % n
	m.state.Selected = sel
}

func (m *Model) openSelected() {
	res, ok := m.state.SelectedResult()
	if !ok {
		return
	}
	if err := m.deps.OpenFile(res.Path, res.Line, res.Column); err != nil {
		logging.Warnf("engine: open file %s: %v", res.Path, err)
	}
}

// --- search dispatch ---

// triggerSearch runs after each query change: an empty cleaned query
// clears results without dispatching; otherwise a search is dispatched
// and the newest dispatch's generation is the only one whose
// completion is honored.
func (m *Model) triggerSearch() tea.Cmd {
	clean := m.state.CleanedQuery()
	if clean == "" {
		m.state.ReplaceResults(nil)
		m.state.Loading = false
		m.state.ErrorMessage = ""
		return nil
	}

	m.state.Loading = true
	m.state.ErrorMessage = ""
	m.searchGen++
	gen := m.searchGen

	strat := m.deps.Strategies[m.state.Mode]
	root := m.deps.Root
	mode := m.state.Mode

	return func() tea.Msg {
		if strat == nil {
			return searchResultMsg{gen: gen, err: errUnwiredMode(mode)}
		}
		results, err := runner.Collect(context.Background(), strat, root, clean)
		msg := searchResultMsg{gen: gen, results: results, err: err}
		if err == nil && len(results) == 0 {
			if s, ok := strat.(strategy.Suggester); ok {
				msg.suggestions = s.Suggestions()
			}
		}
		return msg
	}
}

func (m *Model) handleSearchResult(msg searchResultMsg) *Model {
	if msg.gen != m.searchGen {
		// Stale: a newer search superseded this one. Drop silently so
		// only the most recent result set is ever retained.
		return m
	}
	m.state.Loading = false
	if msg.err != nil {
		m.state.ErrorMessage = msg.err.Error()
		return m
	}
	m.state.ErrorMessage = ""
	m.state.ReplaceResults(msg.results)
	m.state.Suggestions = msg.suggestions
	return m
}

type errUnwiredMode model.SearchMode

func (e errUnwiredMode) Error() string {
	return "no search strategy wired for mode " + model.SearchMode(e).String()
}

// --- async message sources ---

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type searchResultMsg struct {
	gen         int
	results     []model.SearchResult
	err         error
	suggestions []string
}

type fileChangeMsg []watcher.Event

type fileChangeClosedMsg struct{}

// waitFileChangeCmd blocks on the next batch from deps.FileChanges and
// re-issues itself from Update: a Cmd that reads one value and hands
// control back to Update, which decides whether to keep listening.
func (m *Model) waitFileChangeCmd() tea.Cmd {
	ch := m.deps.FileChanges
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		batch, ok := <-ch
		if !ok {
			return fileChangeClosedMsg{}
		}
		return fileChangeMsg(batch)
	}
}

// uiStyles groups the lipgloss styles the renderer uses, mirroring
// internal/runner/formatter.go's styled/unstyled split but always-on
// here since the TUI only ever runs attached to a terminal.
type uiStyles struct {
	prefixSymbol lipgloss.Style
	prefixFile   lipgloss.Style
	prefixRegex  lipgloss.Style
	loading      lipgloss.Style
	errorText    lipgloss.Style
	selected     lipgloss.Style
	status       lipgloss.Style
}

func newUIStyles() uiStyles {
	return uiStyles{
		prefixSymbol: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		prefixFile:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		prefixRegex:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		loading:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		errorText:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		selected:     lipgloss.NewStyle().Reverse(true),
		status:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
