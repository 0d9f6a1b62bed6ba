// Package extractor implements the syntactic extractor: given a
// file's path and contents, return the SymbolRecord list a parsed
// tree-sitter query yields, via a per-language parser + query table
// and a capture→kind mapping narrowed to a closed SymbolKind set.
package extractor

import (
	"path/filepath"
	"strings"
	"unicode"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/lci-search/internal/logging"
	"github.com/standardbeagle/lci-search/internal/model"
)

// languageDef is the pluggable (extension predicate, parser handle,
// query, capture→kind) tuple. Adding a language means adding one of
// these to the registry below.
type languageDef struct {
	extensions []string
	newLang    func() *tree_sitter.Language
	querySrc   string
}

// Extractor holds lazily-constructed per-extension parsers and
// compiled queries, reused across files.
type Extractor struct {
	defs      []languageDef
	byExt     map[string]*languageDef
	parsers   map[string]*tree_sitter.Parser
	queries   map[string]*tree_sitter.Query
	captureNames map[string][]string
}

// New returns an Extractor with the full language registry. Parsers
// and queries are constructed lazily on first use of each extension.
func New() *Extractor {
	e := &Extractor{
		defs:    registry,
		byExt:   map[string]*languageDef{},
		parsers: map[string]*tree_sitter.Parser{},
		queries: map[string]*tree_sitter.Query{},
		captureNames: map[string][]string{},
	}
	for i := range e.defs {
		d := &e.defs[i]
		for _, ext := range d.extensions {
			e.byExt[ext] = d
		}
	}
	return e
}

// SupportsExtension reports whether ext has a registered language.
func (e *Extractor) SupportsExtension(ext string) bool {
	_, ok := e.byExt[ext]
	return ok
}

func (e *Extractor) ensure(ext string) (*tree_sitter.Parser, *tree_sitter.Query, bool) {
	if p, ok := e.parsers[ext]; ok {
		return p, e.queries[ext], true
	}
	def, ok := e.byExt[ext]
	if !ok {
		return nil, nil, false
	}

	parser := tree_sitter.NewParser()
	lang := def.newLang()
	if err := parser.SetLanguage(lang); err != nil {
		logging.Warnf("extractor: failed to set language for %s: %v", ext, err)
		return nil, nil, false
	}

	query, _ := tree_sitter.NewQuery(lang, def.querySrc)
	// The tree-sitter Go binding can return a typed-nil error on success;
	// treat a non-nil query as success regardless of err.
	for _, e2 := range def.extensions {
		e.parsers[e2] = parser
		e.queries[e2] = query
		if query != nil {
			e.captureNames[e2] = query.CaptureNames()
		}
	}
	return parser, query, true
}

// Extract returns the symbols found in content, whose path has
// extension ext. An unsupported extension, empty content, or a
// syntactically invalid file all yield an empty list, never an error;
// the extractor never panics.
func (e *Extractor) Extract(path string, content []byte) (records []model.SymbolRecord) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warnf("extractor: recovered panic parsing %s: %v", path, r)
			records = nil
		}
	}()

	ext := filepath.Ext(path)
	parser, query, ok := e.ensure(ext)
	if !ok || query == nil {
		return nil
	}
	if len(content) == 0 {
		return nil
	}

	// tree-sitter's C library mutates the buffer it's handed; give it
	// its own copy so callers' content slices stay immutable.
	buf := make([]byte, len(content))
	copy(buf, content)

	tree := parser.Parse(buf, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	matches := qc.Matches(query, tree.RootNode(), buf)
	captureNames := e.captureNames[ext]

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		var mainNode *tree_sitter.Node
		var mainCapture string
		var nameBytes []byte
		for _, c := range match.Captures {
			name := captureNames[c.Index]
			if strings.HasSuffix(name, ".name") {
				node := c.Node
				nameBytes = buf[node.StartByte():node.EndByte()]
				continue
			}
			if _, ok := captureKind(name); ok {
				node := c.Node
				mainNode = &node
				mainCapture = name
			}
		}
		if mainNode == nil {
			continue
		}
		kind, ok := captureKind(mainCapture)
		if !ok {
			continue
		}

		name := string(nameBytes)
		if !isValidIdentifier(name) {
			continue
		}

		start := mainNode.StartPosition()
		records = append(records, model.SymbolRecord{
			Name:   name,
			Line:   int(start.Row) + 1,
			Column: int(start.Column) + 1,
			Kind:   kind,
		})
	}
	return records
}

// captureKind maps a query's main capture name to a SymbolKind,
// narrowing a richer per-language capture set (method, constructor,
// field, property, event, struct, record, trait, delegate, ...) onto
// a closed SymbolKind sum. Captures with no symbolic meaning in that
// sum (import, package, namespace, using, module, annotation) are
// reported false and skipped.
func captureKind(capture string) (model.SymbolKind, bool) {
	switch capture {
	case "function", "method", "constructor":
		return model.SymbolFunction, true
	case "class", "struct", "record", "trait":
		return model.SymbolClass, true
	case "interface":
		return model.SymbolInterface, true
	case "type", "enum", "delegate":
		return model.SymbolType, true
	case "variable", "field", "property", "event":
		return model.SymbolVariable, true
	case "constant":
		return model.SymbolConstant, true
	default:
		return 0, false
	}
}

// isValidIdentifier rejects empty names and names not composed of
// identifier characters.
func isValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
