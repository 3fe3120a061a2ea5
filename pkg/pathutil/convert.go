// Package pathutil provides utilities for converting between absolute and relative paths.
//
// Architecture Pattern:
// blockscan's walker and façade operate on absolute paths internally for
// consistency and to avoid ambiguity. However, user-facing output should
// use relative paths for readability and portability. This package
// provides the conversion layer between internal (absolute) and
// external (relative) representations.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/blockscan/internal/format"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	// Handle empty inputs
	if absPath == "" || rootDir == "" {
		return absPath
	}

	// If path is already relative, return as-is
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	// Clean both paths to normalize separators and remove redundant elements
	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	// Try to make relative
	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// If the relative path starts with ".." it means the file is outside the root
	// In this case, return the absolute path as it's clearer
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// ToRelativeResults converts the File field of each format.Result from
// absolute to relative. Creates a new slice without modifying the
// original results.
//
// This function is designed for use at output boundaries where results
// are displayed to users: CLI output, JSON/XML serialization, MCP
// server responses.
func ToRelativeResults(results []format.Result, rootDir string) []format.Result {
	if len(results) == 0 {
		return results
	}

	converted := make([]format.Result, len(results))
	copy(converted, results)

	for i := range converted {
		converted[i].File = ToRelative(converted[i].File, rootDir)
	}

	return converted
}
