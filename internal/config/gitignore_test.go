package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGitignoreLoadMissingFileIsNotError(t *testing.T) {
	dir := t.TempDir()
	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))
	require.False(t, gp.ShouldIgnore("anything.go", false))
}

func TestGitignoreExactAndSuffixPatterns(t *testing.T) {
	dir := t.TempDir()
	content := "secrets.env\n*.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	require.True(t, gp.ShouldIgnore("secrets.env", false))
	require.True(t, gp.ShouldIgnore("nested/secrets.env", false))
	require.True(t, gp.ShouldIgnore("debug.log", false))
	require.False(t, gp.ShouldIgnore("debug.logx", false))
	require.False(t, gp.ShouldIgnore("keep.txt", false))
}

func TestGitignorePrefixPattern(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("tmp*\n"), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	require.True(t, gp.ShouldIgnore("tmpfile", false))
	require.True(t, gp.ShouldIgnore("tmp-data.json", false))
	require.False(t, gp.ShouldIgnore("temp.txt", false))
}

func TestGitignoreGlobPatternDelegatesToDoublestar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("**/*.generated.go\n"), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	require.True(t, gp.ShouldIgnore("internal/api/client.generated.go", false))
	require.False(t, gp.ShouldIgnore("internal/api/client.go", false))
}

func TestGitignoreDirectoryOnlyPattern(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("cache/\n"), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	require.True(t, gp.ShouldIgnore("cache", true))
	require.True(t, gp.ShouldIgnore("cache/entry.json", false))
	require.False(t, gp.ShouldIgnore("other", false))
}

func TestGitignoreAbsolutePatternAnchoredAtRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("/build\n"), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	require.True(t, gp.ShouldIgnore("build", false))
	require.False(t, gp.ShouldIgnore("vendor/build", false))
}

func TestGitignoreNegationReincludesPath(t *testing.T) {
	dir := t.TempDir()
	content := "*.log\n!important.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	require.True(t, gp.ShouldIgnore("debug.log", false))
	require.False(t, gp.ShouldIgnore("important.log", false))
}

func TestGitignoreLaterPatternWinsOnConflict(t *testing.T) {
	dir := t.TempDir()
	content := "!keep.txt\nkeep.txt\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	require.True(t, gp.ShouldIgnore("keep.txt", false))
}

func TestGitignoreSkipsBlankLinesAndComments(t *testing.T) {
	dir := t.TempDir()
	content := "\n# comment\n\n*.tmp\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	require.True(t, gp.ShouldIgnore("scratch.tmp", false))
	require.False(t, gp.ShouldIgnore("# comment", false))
}

func TestGitignoreAddPatternForManualConstruction(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("*.bak")
	require.True(t, gp.ShouldIgnore("old.bak", false))
	require.False(t, gp.ShouldIgnore("old.txt", false))
}
