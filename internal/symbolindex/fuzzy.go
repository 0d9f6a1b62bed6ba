package symbolindex

import "strings"

// Skim-style subsequence scoring: the query's runes must appear in
// target, in order, but not necessarily contiguously. A higher score
// means a better match. No available library implements ordered-
// subsequence scoring (go-edlib offers whole-string similarity
// metrics — Jaro-Winkler, Levenshtein, cosine — not this), so it is
// hand-written here, following the same "greedy forward scan with
// boundary bonuses" shape fzf/skim popularized.
const (
	bonusBoundary    = 10 // match starts right after a separator or camelCase transition
	bonusConsecutive = 8  // match immediately follows the previous match
	bonusFirstChar   = 6  // match is the very first rune of the target
	penaltyGap       = 1  // each skipped rune between consecutive matches
	exactMatchBonus  = 1000
)

// SkimScore is skimScore exported for the File search strategy, which
// applies the same ordered-subsequence scoring to relative paths
// instead of symbol names.
func SkimScore(query, target string) (int, bool) {
	return skimScore(query, target)
}

// skimScore returns (score, true) if query is a subsequence of target
// (case-insensitive); (0, false) if it is not a subsequence at all. An
// exact case-insensitive match always outscores every non-exact match.
func skimScore(query, target string) (int, bool) {
	if query == "" {
		return 0, true
	}

	lowerQuery := strings.ToLower(query)
	lowerTarget := strings.ToLower(target)

	if lowerQuery == lowerTarget {
		return exactMatchBonus + len(target), true
	}

	qr := []rune(lowerQuery)
	tr := []rune(lowerTarget)
	rawTarget := []rune(target)

	best, ok := bestAlignment(qr, tr, rawTarget)
	if !ok {
		return 0, false
	}
	return best, true
}

// bestAlignment tries every possible starting position for the query's
// first rune and greedily matches the remainder forward, keeping the
// highest-scoring alignment. Query names are short (identifiers), so
// the O(len(target) * len(query)) cost is negligible.
func bestAlignment(query, target, rawTarget []rune) (int, bool) {
	found := false
	bestScore := 0

	for start := 0; start < len(target); start++ {
		if target[start] != query[0] {
			continue
		}
		score, ok := greedyMatchFrom(query, target, rawTarget, start)
		if !ok {
			continue
		}
		found = true
		if score > bestScore {
			bestScore = score
		}
	}
	return bestScore, found
}

func greedyMatchFrom(query, target, rawTarget []rune, start int) (int, bool) {
	score := 0
	qi := 0
	lastMatched := -1

	for ti := start; ti < len(target) && qi < len(query); ti++ {
		if target[ti] != query[qi] {
			continue
		}

		if isBoundary(rawTarget, ti) {
			score += bonusBoundary
		}
		if ti == 0 {
			score += bonusFirstChar
		}
		if lastMatched == ti-1 {
			score += bonusConsecutive
		} else if lastMatched >= 0 {
			score -= penaltyGap * (ti - lastMatched - 1)
		}

		lastMatched = ti
		qi++
	}

	if qi != len(query) {
		return 0, false
	}
	return score, true
}

// isBoundary reports whether rawTarget[i] begins a "word": it follows a
// separator (_, -, ., space, /), or it is an uppercase letter following
// a lowercase one (camelCase transition), or it is the first rune.
func isBoundary(rawTarget []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := rawTarget[i-1]
	cur := rawTarget[i]
	switch prev {
	case '_', '-', '.', ' ', '/':
		return true
	}
	return isUpper(cur) && !isUpper(prev)
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
