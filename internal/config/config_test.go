package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.MergeGap)
	require.Equal(t, 100, cfg.Budgets.MaxResults)
}

func TestLoadKDLTakesPrecedenceOverTOML(t *testing.T) {
	dir := t.TempDir()
	kdl := "merge_gap 7\ninclude \"**/*.go\"\nlanguage \"rs\" {\n  allow_tests true\n}\n"
	toml := "merge_gap = 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".blockscan.kdl"), []byte(kdl), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".blockscan.toml"), []byte(toml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.MergeGap)
	require.Contains(t, cfg.Include, "**/*.go")
	require.NotNil(t, cfg.LanguageOverrides["rs"].AllowTests)
	require.True(t, *cfg.LanguageOverrides["rs"].AllowTests)
}

func TestLoadTOMLWhenNoKDL(t *testing.T) {
	dir := t.TempDir()
	toml := "merge_gap = 9\nexclude = [\"**/fixtures/**\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".blockscan.toml"), []byte(toml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 9, cfg.MergeGap)
	require.Contains(t, cfg.Exclude, "**/fixtures/**")
}

func TestAllowTestsForFallsBackToCallerDefault(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.AllowTestsFor(".go", true))
	require.False(t, cfg.AllowTestsFor(".go", false))

	no := false
	cfg.LanguageOverrides[".go"] = LanguageOverride{AllowTests: &no}
	require.False(t, cfg.AllowTestsFor(".go", true))
}

func TestValidateAndSetDefaultsRejectsEmptyRoot(t *testing.T) {
	cfg := Default()
	cfg.Root = ""
	err := ValidateConfig(cfg)
	require.Error(t, err)
}
