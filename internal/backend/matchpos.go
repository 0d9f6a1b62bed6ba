package backend

import "strings"

// findMatchPositions implements a UTF-8-safe match-boundary algorithm:
// trust the backend-reported column when the line, case-folded, starts
// the query there; otherwise fall back to the first case-insensitive
// occurrence. Both endpoints returned are byte offsets that land on
// UTF-8 code-point boundaries.
func findMatchPositions(lineContent, query string, columnHint int) (int, int) {
	if query == "" {
		return 0, 0
	}

	runes := []rune(lineContent)
	lowerLine := strings.ToLower(lineContent)
	lowerQuery := strings.ToLower(query)

	hintIndex := columnHint - 1
	if hintIndex < 0 {
		hintIndex = 0
	}

	startCharIndex := 0
	found := false
	if hintIndex < len(runes) {
		remaining := strings.ToLower(string(runes[hintIndex:]))
		if strings.HasPrefix(remaining, lowerQuery) {
			startCharIndex = hintIndex
			found = true
		}
	}
	if !found {
		if bytePos := strings.Index(lowerLine, lowerQuery); bytePos >= 0 {
			startCharIndex = charIndexForBytePos(lineContent, bytePos)
		} else {
			startCharIndex = 0
		}
	}

	endCharIndex := startCharIndex + len([]rune(lowerQuery))

	startByte := byteOffsetForCharIndex(lineContent, startCharIndex)
	endByte := byteOffsetForCharIndex(lineContent, endCharIndex)
	return startByte, endByte
}

// charIndexForBytePos converts a byte offset into s to a character
// (rune) index.
func charIndexForBytePos(s string, bytePos int) int {
	count := 0
	for i := range s {
		if i >= bytePos {
			return count
		}
		count++
	}
	return count
}

// byteOffsetForCharIndex converts a character index into s to a byte
// offset, clamping to len(s) if the index runs past the end.
func byteOffsetForCharIndex(s string, charIndex int) int {
	if charIndex <= 0 {
		return 0
	}
	count := 0
	for i := range s {
		if count == charIndex {
			return i
		}
		count++
	}
	return len(s)
}
