package walk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/blockscan/internal/config"
	"github.com/standardbeagle/blockscan/internal/language"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDiscoverFiltersByExtensionAndExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "README.md", "# hi\n")
	writeFile(t, dir, "vendor/dep.go", "package dep\n")

	cfg := config.Default()
	cfg.Root = dir
	cfg.Exclude = append(cfg.Exclude, "vendor/**")

	w := New(cfg, language.NewRegistry())
	require.NoError(t, w.LoadGitignore())

	paths, err := w.Discover()
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Equal(t, filepath.Join(dir, "main.go"), paths[0])
}

func TestReadAllPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n")
	writeFile(t, dir, "b.go", "package b\n")

	paths := []string{filepath.Join(dir, "a.go"), filepath.Join(dir, "b.go")}
	files, err := ReadAll(context.Background(), language.NewRegistry(), paths)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "package a\n", string(files[0].Content))
	require.Equal(t, "package b\n", string(files[1].Content))
}
