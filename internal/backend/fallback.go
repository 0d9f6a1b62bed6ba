package backend

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/standardbeagle/lci-search/internal/config"
	"github.com/standardbeagle/lci-search/internal/contentcache"
	"github.com/standardbeagle/lci-search/internal/discovery"
	"github.com/standardbeagle/lci-search/internal/model"
)

// Fallback is the built-in backend used when no external tool is
// available: it walks the project (via internal/discovery), reads each
// file, and scans line-by-line with a compiled, cached, case-insensitive
// pattern. Always available and always lowest priority.
type Fallback struct {
	cfg        *config.Config
	regexCache *contentcache.Cache
}

// NewFallback returns a Fallback scanning under cfg.Project.Root,
// caching compiled patterns in a bounded LRU sized per
// config.RegexCacheSize.
func NewFallback(cfg *config.Config) *Fallback {
	return &Fallback{
		cfg:        cfg,
		regexCache: contentcache.New(config.RegexCacheSize, 0),
	}
}

func (f *Fallback) Name() string              { return "builtin" }
func (f *Fallback) Priority() int             { return 0 }
func (f *Fallback) IsAvailable(context.Context) bool { return true }

func (f *Fallback) SearchContent(ctx context.Context, root, query string) ([]model.SearchResult, error) {
	pattern, err := f.compiledPattern(regexp.QuoteMeta(query))
	if err != nil {
		return nil, err
	}
	return f.scan(root, query, pattern)
}

func (f *Fallback) SearchRegex(ctx context.Context, root, pattern string) ([]model.SearchResult, error) {
	re, err := f.compiledPattern(pattern)
	if err != nil {
		return nil, err
	}
	return f.scan(root, pattern, re)
}

// compiledPattern returns a compiled, case-insensitive regexp for
// source, reusing one from regexCache when present.
func (f *Fallback) compiledPattern(source string) (*regexp.Regexp, error) {
	key := "(?i)" + source
	if entry, ok := f.regexCache.Get(key); ok {
		return entry.Value.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(key)
	if err != nil {
		return nil, err
	}
	f.regexCache.Put(key, &contentcache.Entry{AbsPath: key, Value: re})
	return re, nil
}

func (f *Fallback) scan(root, queryForScore string, pattern *regexp.Regexp) ([]model.SearchResult, error) {
	records, err := discovery.Walk(f.cfg)
	if err != nil {
		return nil, err
	}

	var results []model.SearchResult
	lowerQuery := strings.ToLower(queryForScore)
	for _, rec := range records {
		// discovery.Walk already enforced the binary/size filters; a
		// read failure here means the file vanished mid-scan.
		content, err := os.ReadFile(rec.AbsPath)
		if err != nil {
			continue
		}
		var fileResults []model.SearchResult
		lineNo := 0
		scanner := bufio.NewScanner(bytes.NewReader(content))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lineNo++
			line := scanner.Text()
			loc := pattern.FindStringIndex(line)
			if loc == nil {
				continue
			}
			matched := line[loc[0]:loc[1]]
			score := scoreMatch(line, matched, lowerQuery, loc[0])
			fileResults = append(fileResults, model.SearchResult{
				Path:   rec.AbsPath,
				Line:   lineNo,
				Column: loc[0] + 1,
				Display: model.DisplayInfo{
					Kind:        model.DisplayContent,
					LineContent: line,
					MatchStart:  loc[0],
					MatchEnd:    loc[1],
				},
				Score: score,
			})
		}
		results = append(results, fileResults...)
	}
	return results, nil
}

// scoreMatch implements the built-in fallback's match scoring:
// 1.0 base, +2.0 exact case-insensitive line match, +1.0 exact case
// match, +0.5 word-boundary start, +0.1*(100/(len+1)) short-line bonus,
// +0.5*(matchLen/queryLen).
func scoreMatch(line, matched, lowerQuery string, matchStart int) float64 {
	score := 1.0
	lowerLine := strings.ToLower(line)

	if lowerLine == lowerQuery {
		score += 2.0
	}
	if line == matched {
		score += 1.0
	}
	if matchStart == 0 || !isIdentChar(rune(line[matchStart-1])) {
		score += 0.5
	}
	score += 0.1 * (100.0 / float64(len(line)+1))
	if len(lowerQuery) > 0 {
		score += 0.5 * (float64(len(matched)) / float64(len(lowerQuery)))
	}
	return score
}

func isIdentChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
