package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/blockscan/internal/config"
)

func TestRunSearchFindsMatchingBlock(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nfunc NeedleFunc() int {\n\treturn 1\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0644))

	cfg := config.Default()
	cfg.Root = dir

	s, err := New(cfg)
	require.NoError(t, err)

	results, err := s.runSearch(context.Background(), "Needle", false)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Contains(t, results[0].Code, "NeedleFunc")
}
