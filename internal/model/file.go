// Package model holds the data types shared across the indexing and
// search subsystems: file records, symbol records, search results and
// the interactive UI state.
package model

import "time"

// FileID identifies a FileRecord. Records are referenced by ID rather
// than by pointer so SymbolRecord can be copied freely without aliasing
// file lifetime.
type FileID uint32

// FileRecord describes one file discovered under the project root.
// Immutable after creation; a path leaving the tree destroys its record.
type FileRecord struct {
	ID           FileID
	AbsPath      string
	RelPath      string
	ModifiedTime time.Time
	ContentHash  uint64
}
