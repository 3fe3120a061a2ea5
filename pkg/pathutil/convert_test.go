package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/standardbeagle/blockscan/internal/format"
)

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{
			name:     "simple relative path",
			absPath:  "/home/user/project/src/main.go",
			rootDir:  "/home/user/project",
			expected: "src/main.go",
		},
		{
			name:     "nested relative path",
			absPath:  "/home/user/project/internal/core/search.go",
			rootDir:  "/home/user/project",
			expected: "internal/core/search.go",
		},
		{
			name:     "root level file",
			absPath:  "/home/user/project/README.md",
			rootDir:  "/home/user/project",
			expected: "README.md",
		},
		{
			name:     "same directory",
			absPath:  "/home/user/project",
			rootDir:  "/home/user/project",
			expected: ".",
		},
		{
			name:     "already relative path",
			absPath:  "src/main.go",
			rootDir:  "/home/user/project",
			expected: "src/main.go",
		},
		{
			name:     "path outside root - fallback to absolute",
			absPath:  "/other/location/file.go",
			rootDir:  "/home/user/project",
			expected: "/other/location/file.go",
		},
		{
			name:     "empty root directory",
			absPath:  "/home/user/project/file.go",
			rootDir:  "",
			expected: "/home/user/project/file.go",
		},
		{
			name:     "empty absolute path",
			absPath:  "",
			rootDir:  "/home/user/project",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToRelative(tt.absPath, tt.rootDir)

			if runtime.GOOS == "windows" {
				result = filepath.ToSlash(result)
				expected := filepath.ToSlash(tt.expected)
				if result != expected {
					t.Errorf("ToRelative() = %v, want %v", result, expected)
				}
			} else {
				if result != tt.expected {
					t.Errorf("ToRelative() = %v, want %v", result, tt.expected)
				}
			}
		})
	}
}

func TestToRelativeResults(t *testing.T) {
	rootDir := "/home/user/project"

	input := []format.Result{
		{File: "/home/user/project/src/main.go", StartLine: 10, EndLine: 12, NodeType: "function_declaration"},
		{File: "/home/user/project/internal/core/search.go", StartLine: 42, EndLine: 50, NodeType: "method_declaration"},
		{File: "/home/user/project/README.md", StartLine: 1, EndLine: 1, NodeType: "file"},
	}

	results := ToRelativeResults(input, rootDir)

	expected := []string{
		"src/main.go",
		"internal/core/search.go",
		"README.md",
	}

	if len(results) != len(expected) {
		t.Fatalf("Expected %d results, got %d", len(expected), len(results))
	}

	for i, result := range results {
		gotPath := result.File
		wantPath := expected[i]
		if runtime.GOOS == "windows" {
			gotPath = filepath.ToSlash(gotPath)
			wantPath = filepath.ToSlash(wantPath)
		}

		if gotPath != wantPath {
			t.Errorf("Result %d: File = %v, want %v", i, gotPath, wantPath)
		}
		if result.StartLine != input[i].StartLine {
			t.Errorf("Result %d: StartLine changed", i)
		}
		if result.NodeType != input[i].NodeType {
			t.Errorf("Result %d: NodeType changed", i)
		}
	}
}

func TestToRelativeResultsEmptySlice(t *testing.T) {
	rootDir := "/home/user/project"

	empty := []format.Result{}
	got := ToRelativeResults(empty, rootDir)
	if len(got) != 0 {
		t.Errorf("Expected empty slice, got %d elements", len(got))
	}
}
