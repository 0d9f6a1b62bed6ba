package symbolindex

import (
	"testing"

	"github.com/standardbeagle/lci-search/internal/model"
)

func rec(name string, kind model.SymbolKind) model.SymbolRecord {
	return model.SymbolRecord{Name: name, Kind: kind}
}

func TestQueryEmptyReturnsEmpty(t *testing.T) {
	ix := New()
	ix.Build([]Entry{{SymbolRecord: rec("Foo", model.SymbolFunction), RelPath: "a.go"}})

	if got := ix.Query("", 10); got != nil {
		t.Errorf("expected nil for empty query, got %+v", got)
	}
}

func TestQueryExactMatchOutscoresSubsequence(t *testing.T) {
	ix := New()
	ix.Build([]Entry{
		{SymbolRecord: rec("Widget", model.SymbolClass), RelPath: "a.go"},
		{SymbolRecord: rec("WidgetRendererDelegate", model.SymbolClass), RelPath: "b.go"},
	})

	matches := ix.Query("Widget", 10)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Name != "Widget" {
		t.Errorf("expected exact match 'Widget' first, got %q", matches[0].Name)
	}
}

func TestQueryIsSubsequenceAndCaseInsensitive(t *testing.T) {
	ix := New()
	ix.Build([]Entry{{SymbolRecord: rec("NewHttpClient", model.SymbolFunction), RelPath: "a.go"}})

	matches := ix.Query("nhc", 10)
	if len(matches) != 1 {
		t.Fatalf("expected subsequence 'nhc' to match NewHttpClient, got %d matches", len(matches))
	}

	if got := ix.Query("xyz123", 10); len(got) != 0 {
		t.Errorf("expected no match for non-subsequence query, got %+v", got)
	}
}

func TestQueryRespectsTopK(t *testing.T) {
	ix := New()
	var entries []Entry
	for _, n := range []string{"aaa", "aab", "aac", "aad"} {
		entries = append(entries, Entry{SymbolRecord: rec(n, model.SymbolVariable), RelPath: "a.go"})
	}
	ix.Build(entries)

	if got := ix.Query("a", 2); len(got) != 2 {
		t.Errorf("expected topK=2 to cap results, got %d", len(got))
	}
}

func TestReplaceFileIsAtomicPerPath(t *testing.T) {
	ix := New()
	ix.Build([]Entry{
		{SymbolRecord: rec("Old", model.SymbolFunction), RelPath: "a.go"},
		{SymbolRecord: rec("Other", model.SymbolFunction), RelPath: "b.go"},
	})

	ix.ReplaceFile("a.go", []model.SymbolRecord{rec("New", model.SymbolFunction)})

	snap := ix.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries after replace, got %d", len(snap))
	}
	names := map[string]bool{}
	for _, e := range snap {
		names[e.Name] = true
	}
	if names["Old"] || !names["New"] || !names["Other"] {
		t.Errorf("unexpected entries after replace: %+v", snap)
	}
}

func TestRemoveFileDropsOwnedEntries(t *testing.T) {
	ix := New()
	ix.Build([]Entry{
		{SymbolRecord: rec("A", model.SymbolFunction), RelPath: "a.go"},
		{SymbolRecord: rec("B", model.SymbolFunction), RelPath: "b.go"},
	})

	ix.RemoveFile("a.go")

	if got := ix.Len(); got != 1 {
		t.Fatalf("expected 1 entry remaining, got %d", got)
	}
	if ix.Snapshot()[0].Name != "B" {
		t.Errorf("expected only B to remain, got %+v", ix.Snapshot())
	}
}

func TestSnapshotIsSortedByName(t *testing.T) {
	ix := New()
	ix.Build([]Entry{
		{SymbolRecord: model.SymbolRecord{Name: "Zeta", Line: 1, Column: 1}, RelPath: "z.go"},
		{SymbolRecord: model.SymbolRecord{Name: "Alpha", Line: 1, Column: 1}, RelPath: "a.go"},
	})

	snap := ix.Snapshot()
	if snap[0].Name != "Alpha" || snap[1].Name != "Zeta" {
		t.Errorf("expected Alpha before Zeta, got %+v", snap)
	}
}

func TestSuggestOffersSimilarNames(t *testing.T) {
	ix := New()
	ix.Build([]Entry{{SymbolRecord: rec("HttpClient", model.SymbolClass), RelPath: "a.go"}})

	suggestions := ix.Suggest("HttpCIient", 5) // capital I instead of l
	found := false
	for _, s := range suggestions {
		if s == "HttpClient" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected HttpClient among suggestions, got %v", suggestions)
	}
}
