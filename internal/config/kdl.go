package config

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// loadKDL parses a .blockscan.kdl file. Grounded on the teacher's
// internal/config/kdl_config.go document-walking style (sblinch/kdl-go),
// narrowed to this repo's smaller schema:
//
//	project {
//	    root "."
//	}
//	include "**/*.go"
//	exclude "**/vendor/**"
//	merge_gap 5
//	language ".rs" {
//	    allow_tests true
//	}
//	budgets {
//	    max_results 100
//	    max_bytes 1048576
//	    max_tokens 20000
//	}
func loadKDL(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := Default()
	cfg.Root = ""

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Root = v })
			}
		case "include":
			if s, ok := firstStringArg(n); ok {
				cfg.Include = append(cfg.Include, s)
			}
		case "exclude":
			if s, ok := firstStringArg(n); ok {
				cfg.Exclude = append(cfg.Exclude, s)
			}
		case "merge_gap":
			if v, ok := firstIntArg(n); ok {
				cfg.MergeGap = v
			}
		case "language":
			if ext, ok := firstStringArg(n); ok {
				applyLanguageOverride(cfg, ext, n.Children)
			}
		case "budgets":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_results":
					if v, ok := firstIntArg(cn); ok {
						cfg.Budgets.MaxResults = v
					}
				case "max_bytes":
					if v, ok := firstIntArg(cn); ok {
						cfg.Budgets.MaxBytes = v
					}
				case "max_tokens":
					if v, ok := firstIntArg(cn); ok {
						cfg.Budgets.MaxTokens = v
					}
				}
			}
		}
	}

	return cfg, nil
}

func applyLanguageOverride(cfg *Config, ext string, children []*document.Node) {
	override := cfg.LanguageOverrides[ext]
	for _, cn := range children {
		if nodeName(cn) == "allow_tests" {
			if b, ok := firstBoolArg(cn); ok {
				override.AllowTests = &b
			}
		}
	}
	cfg.LanguageOverrides[ext] = override
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
