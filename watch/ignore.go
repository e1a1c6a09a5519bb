package watch

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/cadre-tools/autocheck/errors"
)

// IgnoreFileName is the ignore-rules file loaded from the watch root.
const IgnoreFileName = ".gitignore"

// vcsMetaDir is always ignored regardless of the ignore file.
const vcsMetaDir = ".git"

// MatchResult is the tri-state answer of the ignore filter. Whitelist
// and None are both "not ignored" from the aggregator's point of view;
// the distinction exists because a later negation pattern ("!keep.log")
// must override an earlier ignore.
type MatchResult int

const (
	MatchNone MatchResult = iota
	MatchIgnore
	MatchWhitelist
)

// IgnoreFilter answers whether a path relative to the watch root is
// excluded from change detection. Built once at startup; rules do not
// reload while watching.
type IgnoreFilter struct {
	patterns []gitignore.Pattern
}

// NewIgnoreFilter loads ignore rules for baseDir: a synthetic rule for
// the version-control metadata directory, then the patterns from
// baseDir/ignoreFile when present. A missing ignore file is fine; one
// that exists but cannot be read is a setup error.
func NewIgnoreFilter(baseDir, ignoreFile string) (*IgnoreFilter, error) {
	patterns := []gitignore.Pattern{
		gitignore.ParsePattern(vcsMetaDir+"/", nil),
	}

	path := filepath.Join(baseDir, ignoreFile)
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read ignore file %s", path)
		}
		return &IgnoreFilter{patterns: patterns}, nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read ignore file %s", path)
	}

	return &IgnoreFilter{patterns: patterns}, nil
}

// Match evaluates rel, a slash-separated path relative to the watch
// root. Ancestor directories are checked first: a path inside an
// ignored directory is ignored and cannot be whitelisted back, the
// same pruning a gitignore-aware tree walk performs.
func (f *IgnoreFilter) Match(rel string) MatchResult {
	segs := strings.Split(filepath.ToSlash(rel), "/")
	result := MatchNone
	for i := 1; i <= len(segs); i++ {
		isDir := i < len(segs)
		switch f.matchSegments(segs[:i], isDir) {
		case MatchIgnore:
			return MatchIgnore
		case MatchWhitelist:
			result = MatchWhitelist
		}
	}
	return result
}

// matchSegments runs all patterns over one path prefix, last match wins.
func (f *IgnoreFilter) matchSegments(path []string, isDir bool) MatchResult {
	result := MatchNone
	for _, p := range f.patterns {
		switch p.Match(path, isDir) {
		case gitignore.Exclude:
			result = MatchIgnore
		case gitignore.Include:
			result = MatchWhitelist
		}
	}
	return result
}
