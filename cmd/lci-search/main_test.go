package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lci-search/internal/model"
)

// flagSetFor builds a flag.FlagSet carrying app's top-level flags, so
// loadConfig can be exercised directly against parsed values without
// running the full app.Run dispatch.
func flagSetFor(t *testing.T, app *cli.App) *flag.FlagSet {
	t.Helper()
	set := flag.NewFlagSet(app.Name, flag.ContinueOnError)
	for _, f := range app.Flags {
		if err := f.Apply(set); err != nil {
			t.Fatalf("apply flag: %v", err)
		}
	}
	return set
}

func contextFor(app *cli.App, set *flag.FlagSet) *cli.Context {
	return cli.NewContext(app, set, nil)
}

func writeTestFile(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveModeDetectsSigilByDefault(t *testing.T) {
	cases := []struct {
		raw      string
		wantMode model.SearchMode
		wantText string
	}{
		{"foo", model.ModeContent, "foo"},
		{"#Handler", model.ModeSymbol, "Handler"},
		{">main.go", model.ModeFile, "main.go"},
		{"/^func.*", model.ModeRegex, "^func.*"},
	}
	for _, c := range cases {
		mode, text := resolveMode("", c.raw)
		if mode != c.wantMode || text != c.wantText {
			t.Errorf("resolveMode(%q) = (%v, %q), want (%v, %q)", c.raw, mode, text, c.wantMode, c.wantText)
		}
	}
}

func TestResolveModeFlagOverridesSigil(t *testing.T) {
	mode, text := resolveMode("regex", "#notasymbol")
	if mode != model.ModeRegex {
		t.Fatalf("expected flag to force regex mode, got %v", mode)
	}
	if text != "#notasymbol" {
		t.Fatalf("expected raw query preserved when mode is forced, got %q", text)
	}
}

func TestAppHasExpectedCommands(t *testing.T) {
	app := newApp()
	names := map[string]bool{}
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"search", "watch", "interactive"} {
		if !names[want] {
			t.Errorf("expected command %q to be registered, got %v", want, names)
		}
	}
}

func TestAppNoArgsShowsHelpWithoutError(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	if err := app.Run([]string{"lci-search"}); err != nil {
		t.Fatalf("expected help with no error, got %v", err)
	}
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run([]string{"lci-search", "search"})
	if err == nil {
		t.Fatal("expected an error when search is run without a query")
	}
}

func TestSearchCommandRunsContentSearch(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "greeter.go", "package main\n\nfunc Greet() string {\n\treturn \"hello world\"\n}\n")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	if err := app.Run([]string{"lci-search", "--root", root, "search", "hello"}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
}

func TestLoadConfigAppliesIncludeExcludeOverrides(t *testing.T) {
	root := t.TempDir()
	app := newApp()

	set := flagSetFor(t, app)
	set.Parse([]string{"--root", root, "--include", "*.go", "--exclude", "vendor/**"})
	ctx := contextFor(app, set)

	cfg, err := loadConfig(ctx)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(cfg.Include) != 1 || cfg.Include[0] != "*.go" {
		t.Errorf("expected include override applied, got %v", cfg.Include)
	}
	found := false
	for _, e := range cfg.Exclude {
		if e == "vendor/**" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected exclude override appended, got %v", cfg.Exclude)
	}
}
