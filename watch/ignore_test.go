package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIgnoreFile(t *testing.T, dir, rules string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreFileName), []byte(rules), 0o644))
}

func TestMissingIgnoreFileIsFine(t *testing.T) {
	f, err := NewIgnoreFilter(t.TempDir(), IgnoreFileName)
	require.NoError(t, err)

	assert.Equal(t, MatchNone, f.Match("src/main.go"))
}

func TestVersionControlDirAlwaysIgnored(t *testing.T) {
	f, err := NewIgnoreFilter(t.TempDir(), IgnoreFileName)
	require.NoError(t, err)

	assert.Equal(t, MatchIgnore, f.Match(".git/config"))
	assert.Equal(t, MatchIgnore, f.Match(".git/objects/ab/cdef"))
	// The rule matches the directory, not similarly named files.
	assert.Equal(t, MatchNone, f.Match(".gitignore"))
}

func TestIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	writeIgnoreFile(t, dir, `
# build output
target/
*.log
!keep.log
`)
	f, err := NewIgnoreFilter(dir, IgnoreFileName)
	require.NoError(t, err)

	tests := []struct {
		rel  string
		want MatchResult
	}{
		{"src/a.rs", MatchNone},
		{"target/debug/x", MatchIgnore},
		{"target/release/deep/nested/y", MatchIgnore},
		{"debug.log", MatchIgnore},
		{"sub/dir/other.log", MatchIgnore},
		{"keep.log", MatchWhitelist},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Match(tt.rel), "path %s", tt.rel)
	}
}

func TestWhitelistInsideIgnoredDirStaysIgnored(t *testing.T) {
	dir := t.TempDir()
	writeIgnoreFile(t, dir, "build/\n!build/keep.txt\n")

	f, err := NewIgnoreFilter(dir, IgnoreFileName)
	require.NoError(t, err)

	// Gitignore semantics: files inside an excluded directory cannot be
	// re-included.
	assert.Equal(t, MatchIgnore, f.Match("build/keep.txt"))
}

func TestUnreadableIgnoreFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the ignore file should be: opening succeeds but
	// reading fails.
	require.NoError(t, os.Mkdir(filepath.Join(dir, IgnoreFileName), 0o755))

	_, err := NewIgnoreFilter(dir, IgnoreFileName)
	assert.Error(t, err)
}
