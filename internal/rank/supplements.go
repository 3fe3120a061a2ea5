package rank

import (
	"bytes"

	"github.com/standardbeagle/blockscan/internal/blocks"
)

// ResultForFilenameMatch implements SPEC_FULL supplement 2
// (process_file_by_filename in the original): when a file matches by
// filename alone with no content match, return the whole file as one
// result with node_type "file" rather than calling into the block
// extractor at all.
func ResultForFilenameMatch(content []byte) blocks.CodeBlock {
	lines := bytes.Count(content, []byte("\n")) + 1
	return blocks.CodeBlock{
		StartRow:  0,
		EndRow:    lines - 1,
		StartByte: 0,
		EndByte:   len(content),
		NodeType:  "file",
	}
}

// FallbackContextLines is the ±N window the original uses when a parse
// fails or a requested line is out of bounds (SPEC_FULL supplement 3).
const FallbackContextLines = 20

// FallbackContext returns a ±FallbackContextLines window (1-based,
// inclusive, clamped to [1, totalLines]) around line, for callers that
// choose to fall back to raw context per spec §7's ParseFailure/
// OutOfBounds table.
func FallbackContext(line, totalLines int) (start, end int) {
	start = line - FallbackContextLines
	if start < 1 {
		start = 1
	}
	end = line + FallbackContextLines
	if end > totalLines {
		end = totalLines
	}
	return start, end
}
