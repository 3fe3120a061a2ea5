// Build artifact detection for JavaScript/TypeScript, Rust, Python, C# and
// Zig projects; the other languages the Language Registry parses (Go, Java,
// C++, PHP) have no detector here. Detected output directories are folded
// into Config.Exclude as doublestar glob patterns (internal/walk matches
// Exclude with doublestar.Match), the same schema defaultExclusions() uses.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ArtifactGlobDetector inspects a project root's build-tool manifests for
// configured output directories that defaultExclusions() can't know about
// up front (a custom tsconfig outDir, a relocated Cargo target-dir, ...).
type ArtifactGlobDetector struct {
	root string
}

// NewBuildArtifactDetector creates a detector rooted at projectRoot.
func NewBuildArtifactDetector(projectRoot string) *ArtifactGlobDetector {
	return &ArtifactGlobDetector{root: projectRoot}
}

// DetectOutputDirectories scans for build configuration files and returns
// doublestar exclude globs (e.g. "**/dist/**") from JavaScript/TypeScript,
// Rust, Python, C# and Zig build manifests.
func (d *ArtifactGlobDetector) DetectOutputDirectories() []string {
	var patterns []string
	patterns = append(patterns, d.detectJavaScriptOutputs()...)
	patterns = append(patterns, d.detectRustOutputs()...)
	patterns = append(patterns, d.detectPythonOutputs()...)
	patterns = append(patterns, d.detectCSharpOutputs()...)
	patterns = append(patterns, d.detectZigOutputs()...)
	return patterns
}

// detectJavaScriptOutputs covers blockscan's .js/.ts languages: package.json
// build config, tsconfig.json's compilerOptions.outDir, and the common
// vite.config.{js,ts} build.outDir convention.
func (d *ArtifactGlobDetector) detectJavaScriptOutputs() []string {
	var patterns []string

	if pkg, ok := readJSON(filepath.Join(d.root, "package.json")); ok {
		if buildConfig, ok := pkg["build"].(map[string]interface{}); ok {
			if outDir, ok := buildConfig["outDir"].(string); ok {
				patterns = append(patterns, globFor(outDir))
			}
		}
	}

	if tsconfig, ok := readJSON(filepath.Join(d.root, "tsconfig.json")); ok {
		if compilerOptions, ok := tsconfig["compilerOptions"].(map[string]interface{}); ok {
			if outDir, ok := compilerOptions["outDir"].(string); ok {
				patterns = append(patterns, globFor(outDir))
			}
		}
	}

	for _, viteConfig := range []string{"vite.config.js", "vite.config.ts"} {
		data, err := os.ReadFile(filepath.Join(d.root, viteConfig))
		if err != nil {
			continue
		}
		if dir, ok := extractQuotedValueAfterKey(string(data), "outDir"); ok {
			patterns = append(patterns, globFor(dir))
		}
	}

	return patterns
}

// detectRustOutputs covers blockscan's Rust language: a relocated
// [profile.release] target-dir in Cargo.toml. The default target/ directory
// is already covered by defaultExclusions().
func (d *ArtifactGlobDetector) detectRustOutputs() []string {
	var patterns []string

	data, err := os.ReadFile(filepath.Join(d.root, "Cargo.toml"))
	if err != nil {
		return nil
	}
	var cargo map[string]interface{}
	if toml.Unmarshal(data, &cargo) != nil {
		return nil
	}
	if profile, ok := cargo["profile"].(map[string]interface{}); ok {
		if release, ok := profile["release"].(map[string]interface{}); ok {
			if targetDir, ok := release["target-dir"].(string); ok {
				patterns = append(patterns, globFor(targetDir))
			}
		}
	}
	return patterns
}

// detectPythonOutputs covers blockscan's Python language: a Poetry
// build.target-dir override in pyproject.toml.
func (d *ArtifactGlobDetector) detectPythonOutputs() []string {
	var patterns []string

	data, err := os.ReadFile(filepath.Join(d.root, "pyproject.toml"))
	if err != nil {
		return nil
	}
	var pyproject map[string]interface{}
	if toml.Unmarshal(data, &pyproject) != nil {
		return nil
	}
	tool, ok := pyproject["tool"].(map[string]interface{})
	if !ok {
		return nil
	}
	poetry, ok := tool["poetry"].(map[string]interface{})
	if !ok {
		return nil
	}
	if build, ok := poetry["build"].(map[string]interface{}); ok {
		if targetDir, ok := build["target-dir"].(string); ok {
			patterns = append(patterns, globFor(targetDir))
		}
	}
	return patterns
}

// detectCSharpOutputs covers blockscan's C# language: a relocated
// <BaseOutputPath>/<OutputPath> in a .csproj. bin/ and obj/ are already
// covered by defaultExclusions().
func (d *ArtifactGlobDetector) detectCSharpOutputs() []string {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil
	}
	var patterns []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csproj") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(d.root, entry.Name()))
		if err != nil {
			continue
		}
		content := string(data)
		for _, tag := range []string{"<BaseOutputPath>", "<OutputPath>"} {
			if dir, ok := extractXMLTagValue(content, tag); ok {
				patterns = append(patterns, globFor(dir))
			}
		}
	}
	return patterns
}

// detectZigOutputs covers blockscan's Zig language: zig build always emits
// zig-out/ and zig-cache/ at the project root regardless of build.zig
// contents, neither of which defaultExclusions() names.
func (d *ArtifactGlobDetector) detectZigOutputs() []string {
	if _, err := os.Stat(filepath.Join(d.root, "build.zig")); err != nil {
		return nil
	}
	return []string{globFor("zig-out"), globFor("zig-cache")}
}

func readJSON(path string) (map[string]interface{}, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var m map[string]interface{}
	if json.Unmarshal(data, &m) != nil {
		return nil, false
	}
	return m, true
}

// globFor turns a raw directory name/path into the "**/dir/**" doublestar
// pattern defaultExclusions() and internal/walk's matcher both expect.
func globFor(dir string) string {
	dir = strings.Trim(strings.TrimSpace(dir), "/")
	return "**/" + dir + "/**"
}

// extractQuotedValueAfterKey finds key in content and returns the first
// quoted string following its next colon (a simple regex-free parse for
// JS config files that aren't valid JSON, e.g. vite.config.ts).
func extractQuotedValueAfterKey(content, key string) (string, bool) {
	idx := strings.Index(content, key)
	if idx == -1 {
		return "", false
	}
	rest := content[idx+len(key):]
	colonIdx := strings.Index(rest, ":")
	if colonIdx == -1 {
		return "", false
	}
	rest = rest[colonIdx+1:]
	for _, quote := range []string{"'", "\""} {
		parts := strings.SplitN(rest, quote, 3)
		if len(parts) >= 3 {
			value := strings.TrimSpace(parts[1])
			if value != "" {
				return value, true
			}
		}
	}
	return "", false
}

// extractXMLTagValue returns the text content of the first <tag>...</tag>
// occurrence in content.
func extractXMLTagValue(content, openTag string) (string, bool) {
	idx := strings.Index(content, openTag)
	if idx == -1 {
		return "", false
	}
	rest := content[idx+len(openTag):]
	closeIdx := strings.Index(rest, "<")
	if closeIdx == -1 {
		return "", false
	}
	value := strings.TrimSpace(rest[:closeIdx])
	if value == "" {
		return "", false
	}
	return value, true
}
