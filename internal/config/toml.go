package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// tomlDoc mirrors Config's shape for CI environments that prefer TOML over
// KDL (SPEC_FULL's Configuration section: "an alternate/override format...
// same schema, resolved with KDL taking precedence when both exist").
type tomlDoc struct {
	Project struct {
		Root string `toml:"root"`
	} `toml:"project"`
	Include  []string `toml:"include"`
	Exclude  []string `toml:"exclude"`
	MergeGap int      `toml:"merge_gap"`
	Language map[string]struct {
		AllowTests *bool `toml:"allow_tests"`
	} `toml:"language"`
	Budgets struct {
		MaxResults int `toml:"max_results"`
		MaxBytes   int `toml:"max_bytes"`
		MaxTokens  int `toml:"max_tokens"`
	} `toml:"budgets"`
}

func loadTOML(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc tomlDoc
	if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := Default()
	cfg.Root = doc.Project.Root

	if len(doc.Include) > 0 {
		cfg.Include = append(cfg.Include, doc.Include...)
	}
	if len(doc.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, doc.Exclude...)
	}
	if doc.MergeGap != 0 {
		cfg.MergeGap = doc.MergeGap
	}
	for ext, lang := range doc.Language {
		cfg.LanguageOverrides[ext] = LanguageOverride{AllowTests: lang.AllowTests}
	}
	if doc.Budgets.MaxResults != 0 {
		cfg.Budgets.MaxResults = doc.Budgets.MaxResults
	}
	if doc.Budgets.MaxBytes != 0 {
		cfg.Budgets.MaxBytes = doc.Budgets.MaxBytes
	}
	if doc.Budgets.MaxTokens != 0 {
		cfg.Budgets.MaxTokens = doc.Budgets.MaxTokens
	}

	return cfg, nil
}
