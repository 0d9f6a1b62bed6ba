package model

// SymbolKind is the closed sum of identifier kinds the extractor yields.
// The core only compares kinds for equality; presentation glyphs are the
// renderer's concern, but we keep a canonical glyph table here since it
// is cheap, pure data and every display formatter needs the same one.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolClass
	SymbolInterface
	SymbolType
	SymbolConstant
	SymbolVariable
	SymbolFilename
	SymbolDirname
)

var symbolKindGlyphs = map[SymbolKind]string{
	SymbolFunction:  "ƒ",
	SymbolClass:     "C",
	SymbolInterface: "I",
	SymbolType:      "T",
	SymbolConstant:  "k",
	SymbolVariable:  "v",
	SymbolFilename:  "f",
	SymbolDirname:   "d",
}

// Glyph returns the single-character presentation glyph for the kind.
func (k SymbolKind) Glyph() string {
	if g, ok := symbolKindGlyphs[k]; ok {
		return g
	}
	return "?"
}

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	case SymbolInterface:
		return "interface"
	case SymbolType:
		return "type"
	case SymbolConstant:
		return "constant"
	case SymbolVariable:
		return "variable"
	case SymbolFilename:
		return "filename"
	case SymbolDirname:
		return "dirname"
	default:
		return "unknown"
	}
}

// SymbolRecord is one identifier extracted from a file.
//
// Invariant: Name is non-empty and composed of identifier characters;
// FileID must reference a file present in the owning file table for the
// lifetime of the record.
type SymbolRecord struct {
	Name   string
	FileID FileID
	Line   int // 1-based
	Column int // 1-based
	Kind   SymbolKind
}
