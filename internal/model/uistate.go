package model

// SearchMode selects which strategy a query dispatches to. The ordered
// set below is also the cycle order for the mode-switch key.
type SearchMode int

const (
	ModeContent SearchMode = iota
	ModeSymbol
	ModeFile
	ModeRegex
)

func (m SearchMode) String() string {
	switch m {
	case ModeSymbol:
		return "symbol"
	case ModeFile:
		return "file"
	case ModeRegex:
		return "regex"
	default:
		return "content"
	}
}

// Sigil returns the query prefix character that selects this mode, or
// "" for content mode which has none.
func (m SearchMode) Sigil() string {
	switch m {
	case ModeSymbol:
		return "#"
	case ModeFile:
		return ">"
	case ModeRegex:
		return "/"
	default:
		return ""
	}
}

// DetectMode inspects a query's leading character and returns the mode
// it selects along with the query with any sigil stripped.
func DetectMode(query string) (SearchMode, string) {
	if query == "" {
		return ModeContent, ""
	}
	switch query[0] {
	case '#':
		return ModeSymbol, query[1:]
	case '>':
		return ModeFile, query[1:]
	case '/':
		return ModeRegex, query[1:]
	default:
		return ModeContent, query
	}
}

// KeyBindingHelp is one row of the help overlay's static keybinding
// table. Rendering the table is the terminal renderer's job (out of
// scope); this is the data it renders.
type KeyBindingHelp struct {
	Key         string
	Description string
}

// HelpBindings is the fixed set of keybindings shown in the help
// overlay.
var HelpBindings = []KeyBindingHelp{
	{"Esc", "Quit (or dismiss help)"},
	{"Ctrl+C", "Quit"},
	{"?", "Toggle this help"},
	{"Tab / Shift+Tab", "Cycle search mode forward / backward"},
	{"Up / Down", "Move selection"},
	{"PageUp / PageDown", "Move selection by 10"},
	{"Home / End", "Jump to first / last result"},
	{"Enter", "Open selected result"},
	{"Ctrl+U", "Clear query"},
	{"Ctrl+K", "Kill to end of line"},
}

// UIState is the interactive engine's single source of truth. A new
// search replaces Results atomically; nothing else mutates it except
// the engine's own event handlers.
type UIState struct {
	Query       string
	CursorChars int // cursor position measured in characters, not bytes

	Mode    SearchMode
	Results []SearchResult
	Selected int

	Loading      bool
	ErrorMessage string
	// Suggestions holds "did you mean" alternatives for the most recent
	// zero-result query, when the active strategy offers any.
	Suggestions []string

	ProjectRoot string
	HelpVisible bool
}

// NewUIState returns a freshly initialized UI state rooted at root.
func NewUIState(root string) *UIState {
	return &UIState{
		Mode:        ModeContent,
		ProjectRoot: root,
	}
}

// SetTextAndCursor atomically replaces the query text and cursor
// position, re-detecting the mode from the new text's sigil. This is
// the single setter that keeps mode changes and text rewrites from
// ever observing a half-updated state.
func (s *UIState) SetTextAndCursor(text string, cursorChars int) {
	s.Query = text
	if cursorChars < 0 {
		cursorChars = 0
	}
	max := charCount(text)
	if cursorChars > max {
		cursorChars = max
	}
	s.CursorChars = cursorChars
	mode, _ := DetectMode(text)
	s.Mode = mode
}

// CleanedQuery returns the query with its mode sigil stripped, the
// form strategies actually search for.
func (s *UIState) CleanedQuery() string {
	_, cleaned := DetectMode(s.Query)
	return cleaned
}

func charCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// SelectedResult returns the result under the cursor, or false if the
// result list is empty.
func (s *UIState) SelectedResult() (SearchResult, bool) {
	if len(s.Results) == 0 {
		return SearchResult{}, false
	}
	if s.Selected < 0 || s.Selected >= len(s.Results) {
		return SearchResult{}, false
	}
	return s.Results[s.Selected], true
}

// ReplaceResults atomically swaps in a new result set, resets selection
// to the first row, and clears any stale suggestions (callers set
// Suggestions afterward when the new result set is empty).
func (s *UIState) ReplaceResults(results []SearchResult) {
	s.Results = results
	s.Selected = 0
	s.Suggestions = nil
}

// ToggleHelp flips the help-visible flag.
func (s *UIState) ToggleHelp() {
	s.HelpVisible = !s.HelpVisible
}
