// Package config loads and holds project configuration: defaults
// assigned in Go, overridden by a project-scoped KDL file, then by CLI
// flags.
package config

const (
	// DefaultWatchDebounceMs is the watcher's debounce window.
	DefaultWatchDebounceMs = 150
	// DefaultPollFallbackMs is the default for Watch.PollMs. The watcher
	// relies on fsnotify alone and does not read PollMs; it never polls.
	DefaultPollFallbackMs = 100
	// DefaultTickMs is the event engine's repaint period (~60Hz).
	DefaultTickMs = 16
	// MaxFileBytes is the per-file size ceiling for indexing, search,
	// and display: files larger than this are skipped.
	MaxFileBytes = 1 << 20
	// DefaultFuzzyTopK bounds the symbol index's query result size.
	DefaultFuzzyTopK = 50
	// DefaultContentCacheEntries / Bytes bound the content cache's LRU.
	DefaultContentCacheEntries = 500
	DefaultContentCacheBytes   = 64 << 20
	// RegexCacheSize bounds the built-in fallback's compiled-pattern LRU.
	RegexCacheSize = 100
)

// Config is the fully-resolved project configuration.
type Config struct {
	Version int

	Project Project
	Index   Index
	Watch   Watch
	Search  Search

	Include []string
	Exclude []string
}

// Project identifies the root being indexed.
type Project struct {
	Root string
	Name string
}

// Index controls discovery and extraction limits.
type Index struct {
	MaxFileSize      int64
	FollowSymlinks   bool
	RespectGitignore bool
	CustomIgnoreFile string
}

// Watch controls the file-change watcher and realtime indexer.
type Watch struct {
	Enabled     bool
	DebounceMs  int
	PollMs      int
	Extensions  []string
}

// Search controls query execution defaults.
type Search struct {
	MaxResults  int
	FuzzyTopK   int
	TickMs      int
}

// Default returns a Config with built-in defaults, root as the project
// root.
func Default(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Index: Index{
			MaxFileSize:      MaxFileBytes,
			FollowSymlinks:   false,
			RespectGitignore: true,
		},
		Watch: Watch{
			Enabled:    true,
			DebounceMs: DefaultWatchDebounceMs,
			PollMs:     DefaultPollFallbackMs,
			Extensions: defaultWatchedExtensions,
		},
		Search: Search{
			MaxResults: 200,
			FuzzyTopK:  DefaultFuzzyTopK,
			TickMs:     DefaultTickMs,
		},
		Include: []string{},
		Exclude: []string{},
	}
}

// defaultWatchedExtensions matches at minimum the set the syntactic
// extractor supports.
var defaultWatchedExtensions = []string{
	".go", ".js", ".jsx", ".ts", ".tsx", ".py", ".rs",
	".java", ".c", ".cpp", ".cc", ".cxx", ".hpp", ".h", ".cs", ".php", ".phtml", ".zig",
}
