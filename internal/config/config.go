// Package config loads blockscan's project settings: root path,
// include/exclude globs, per-language test-node overrides, the Block
// Merger's gap threshold, and the output formatters' result/byte/token
// budgets. Modeled on the teacher's internal/config, narrowed to what
// blockscan's collaborators (internal/walk, internal/rank,
// internal/format) actually need — no indexing, memory, or semantic
// scoring knobs, since this repo does none of that (spec.md §1 non-goals).
package config

import (
	"os"
	"path/filepath"
)

// Budgets caps how much output the formatters produce (SPEC_FULL's
// domain stack item 6).
type Budgets struct {
	MaxResults int
	MaxBytes   int
	MaxTokens  int
}

// LanguageOverride lets a project force allow_tests on or off for one
// extension regardless of the CLI/MCP caller's default.
type LanguageOverride struct {
	AllowTests *bool
}

type Config struct {
	Root    string
	Include []string
	Exclude []string

	MergeGap int

	LanguageOverrides map[string]LanguageOverride

	Budgets Budgets
}

// Default returns the configuration blockscan runs with when no
// .blockscan.kdl/.blockscan.toml is found.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Root:              cwd,
		Include:           []string{},
		Exclude:           defaultExclusions(),
		MergeGap:          5,
		LanguageOverrides: map[string]LanguageOverride{},
		Budgets: Budgets{
			MaxResults: 100,
			MaxBytes:   1 << 20,
			MaxTokens:  20000,
		},
	}
}

// Load resolves configuration for root: .blockscan.kdl takes precedence
// over .blockscan.toml when both are present (documented precedence per
// SPEC_FULL's Configuration section), falling back to Default() when
// neither exists.
func Load(root string) (*Config, error) {
	kdlPath := filepath.Join(root, ".blockscan.kdl")
	if _, err := os.Stat(kdlPath); err == nil {
		cfg, err := loadKDL(kdlPath)
		if err != nil {
			return nil, err
		}
		cfg.Root = resolveRoot(root, cfg.Root)
		cfg.EnrichExclusionsWithBuildArtifacts()
		return cfg, nil
	}

	tomlPath := filepath.Join(root, ".blockscan.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		cfg, err := loadTOML(tomlPath)
		if err != nil {
			return nil, err
		}
		cfg.Root = resolveRoot(root, cfg.Root)
		cfg.EnrichExclusionsWithBuildArtifacts()
		return cfg, nil
	}

	cfg := Default()
	cfg.Root = resolveRoot(root, "")
	cfg.EnrichExclusionsWithBuildArtifacts()
	return cfg, nil
}

func resolveRoot(projectDir, configuredRoot string) string {
	if configuredRoot == "" {
		if abs, err := filepath.Abs(projectDir); err == nil {
			return abs
		}
		return projectDir
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(projectDir, configuredRoot))
}

// EnrichExclusionsWithBuildArtifacts folds language-specific build output
// directories (detected from package.json/Cargo.toml/etc.) into Exclude.
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if c.Root == "" {
		return
	}
	detected := NewBuildArtifactDetector(c.Root).DetectOutputDirectories()
	if len(detected) == 0 {
		return
	}
	c.Exclude = DeduplicatePatterns(append(c.Exclude, detected...))
}

// AllowTestsFor resolves the effective allow_tests default for extension,
// falling back to callerDefault when no override is configured.
func (c *Config) AllowTestsFor(extension string, callerDefault bool) bool {
	if c == nil {
		return callerDefault
	}
	if o, ok := c.LanguageOverrides[extension]; ok && o.AllowTests != nil {
		return *o.AllowTests
	}
	return callerDefault
}

func defaultExclusions() []string {
	return []string{
		"**/.git/**",
		"**/.*/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/target/**",
		"**/bin/**",
		"**/obj/**",
		"**/*.min.js",
		"**/*.min.css",
	}
}

// DeduplicatePatterns removes duplicate glob patterns while preserving
// first-seen order.
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
