package model

import "testing"

func TestDetectMode(t *testing.T) {
	cases := []struct {
		query   string
		mode    SearchMode
		cleaned string
	}{
		{"", ModeContent, ""},
		{"hello", ModeContent, "hello"},
		{"#Calc", ModeSymbol, "Calc"},
		{">utils/", ModeFile, "utils/"},
		{"/fo.*bar", ModeRegex, "fo.*bar"},
	}
	for _, c := range cases {
		mode, cleaned := DetectMode(c.query)
		if mode != c.mode || cleaned != c.cleaned {
			t.Errorf("DetectMode(%q) = (%v, %q), want (%v, %q)", c.query, mode, cleaned, c.mode, c.cleaned)
		}
	}
}

func TestSetTextAndCursorClampsAndDetectsMode(t *testing.T) {
	s := NewUIState("/root")
	s.SetTextAndCursor("#abc", 99)
	if s.Mode != ModeSymbol {
		t.Errorf("expected symbol mode, got %v", s.Mode)
	}
	if s.CursorChars != charCount("#abc") {
		t.Errorf("cursor not clamped: %d", s.CursorChars)
	}
	s.SetTextAndCursor("", -5)
	if s.CursorChars != 0 {
		t.Errorf("cursor not clamped to 0: %d", s.CursorChars)
	}
}

func TestCleanedQuery(t *testing.T) {
	s := NewUIState("/root")
	s.SetTextAndCursor(">src", 4)
	if got := s.CleanedQuery(); got != "src" {
		t.Errorf("CleanedQuery() = %q", got)
	}
}

func TestSelectedResultEmpty(t *testing.T) {
	s := NewUIState("/root")
	if _, ok := s.SelectedResult(); ok {
		t.Error("expected no selected result on empty list")
	}
}

func TestReplaceResultsResetsSelection(t *testing.T) {
	s := NewUIState("/root")
	s.Selected = 3
	s.ReplaceResults([]SearchResult{{Path: "a"}, {Path: "b"}})
	if s.Selected != 0 {
		t.Errorf("expected selection reset to 0, got %d", s.Selected)
	}
}
