package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectJavaScriptOutputsFromTsconfig(t *testing.T) {
	dir := t.TempDir()
	tsconfig := `{"compilerOptions": {"outDir": "lib"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsconfig.json"), []byte(tsconfig), 0o644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	require.Contains(t, patterns, "**/lib/**")
}

func TestDetectJavaScriptOutputsFromViteConfig(t *testing.T) {
	dir := t.TempDir()
	vite := "export default { build: { outDir: 'public-dist' } }"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vite.config.js"), []byte(vite), 0o644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	require.Contains(t, patterns, "**/public-dist/**")
}

func TestDetectRustOutputsFromCargoToml(t *testing.T) {
	dir := t.TempDir()
	cargo := "[profile.release]\ntarget-dir = \"out/release\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(cargo), 0o644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	require.Contains(t, patterns, "**/out/release/**")
}

func TestDetectPythonOutputsFromPoetryPyproject(t *testing.T) {
	dir := t.TempDir()
	pyproject := "[tool.poetry.build]\ntarget-dir = \"staging\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(pyproject), 0o644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	require.Contains(t, patterns, "**/staging/**")
}

func TestDetectCSharpOutputsFromCsproj(t *testing.T) {
	dir := t.TempDir()
	csproj := `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <BaseOutputPath>artifacts</BaseOutputPath>
  </PropertyGroup>
</Project>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "App.csproj"), []byte(csproj), 0o644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	require.Contains(t, patterns, "**/artifacts/**")
}

func TestDetectZigOutputsOnlyWhenBuildZigPresent(t *testing.T) {
	dir := t.TempDir()

	// No build.zig: zig-out/zig-cache aren't assumed.
	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	require.NotContains(t, patterns, "**/zig-out/**")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.zig"), []byte(""), 0o644))
	patterns = NewBuildArtifactDetector(dir).DetectOutputDirectories()
	require.Contains(t, patterns, "**/zig-out/**")
	require.Contains(t, patterns, "**/zig-cache/**")
}

func TestDetectOutputDirectoriesEmptyWhenNoManifests(t *testing.T) {
	dir := t.TempDir()
	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()
	require.Empty(t, patterns)
}

func TestEnrichExclusionsWithBuildArtifactsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	cargo := "[profile.release]\ntarget-dir = \"target\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(cargo), 0o644))

	cfg := Default()
	cfg.Root = dir
	cfg.Exclude = append(cfg.Exclude, "**/target/**")
	cfg.EnrichExclusionsWithBuildArtifacts()

	count := 0
	for _, p := range cfg.Exclude {
		if p == "**/target/**" {
			count++
		}
	}
	require.Equal(t, 1, count, "duplicate exclude pattern should be deduplicated")
}
