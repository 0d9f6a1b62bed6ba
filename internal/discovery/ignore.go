package discovery

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// pattern is one ignore rule, scoped to the directory it was loaded
// from (gitignore semantics: a pattern only applies under its file's
// directory).
type pattern struct {
	glob    string
	negate  bool
	dirOnly bool
	base    string // absolute directory the pattern is scoped to
	anyDepth bool  // pattern had no "/" of its own: match at any depth
}

// IgnoreSet holds ignore rules collected in ascending-precedence order:
// later-added patterns win ties, matching git's "closer/later file
// overrides" rule (global ignore file, parent-directory ignore files,
// per-repo ignore files, then a user-supplied custom ignore filename
// last, i.e. highest precedence).
type IgnoreSet struct {
	patterns []pattern
}

// NewIgnoreSet returns an empty set.
func NewIgnoreSet() *IgnoreSet { return &IgnoreSet{} }

// LoadFile parses ignoreFile (if it exists) and appends its patterns,
// scoped to base (ignoreFile's directory). A missing file is not an
// error — most directories have none.
func (s *IgnoreSet) LoadFile(ignoreFile, base string) error {
	f, err := os.Open(ignoreFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.patterns = append(s.patterns, parseLine(line, base))
	}
	return scanner.Err()
}

func parseLine(line, base string) pattern {
	p := pattern{base: base}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		line = strings.TrimPrefix(line, "/")
	} else if !strings.Contains(line, "/") {
		p.anyDepth = true
	}
	p.glob = line
	return p
}

// Ignored reports whether absPath (a file or directory) is excluded.
// The last matching pattern (in addition order) decides, mirroring
// gitignore's later-wins-with-negation semantics.
func (s *IgnoreSet) Ignored(absPath string, isDir bool) bool {
	ignored := false
	for _, p := range s.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		rel, err := filepath.Rel(p.base, absPath)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)

		matched := false
		if p.anyDepth {
			matched, _ = doublestar.Match(p.glob, filepath.Base(rel))
			if !matched {
				matched, _ = doublestar.Match("**/"+p.glob, rel)
			}
		} else {
			matched, _ = doublestar.Match(p.glob, rel)
		}
		if matched {
			ignored = !p.negate
		}
	}
	return ignored
}
