// Package blocks implements the Block Extractor (spec §4.4) and Block
// Merger (spec §4.5). Both operate solely on linemap.CachedNodeInfo
// projections — never on live tree-bound NodeInfo — so that the cache-hit
// and cache-miss façade paths run the exact same extraction code and are
// guaranteed byte-identical (spec §8 invariant 2). Grounded on
// process_cached_line_map and the priority/dedup passes in
// original_source/src/language/parser.rs.
package blocks

import (
	"sort"

	"github.com/standardbeagle/blockscan/internal/debug"
	"github.com/standardbeagle/blockscan/internal/linemap"
)

// CodeBlock is the output unit (spec §3).
type CodeBlock struct {
	StartRow, EndRow   int
	StartByte, EndByte int
	NodeType           string
	ParentNodeType     string
	ParentStartRow     int
	ParentEndRow       int
	HasParent          bool
}

// nodeTypePriority mirrors NODE_TYPE_PRIORITY from original_source's
// parser.rs verbatim: higher index wins on a priority tie-break.
var nodeTypePriority = []string{
	"compilation_unit",
	"function_declaration",
	"method_declaration",
	"function_item",
	"impl_item",
	"type_declaration",
	"struct_item",
	"class",
	"class_declaration",
	"global_attribute",
}

// importantKinds is exempt from containment-based suppression (spec §4.4).
var importantKinds = map[string]bool{
	"function_declaration": true,
	"method_declaration":   true,
	"function_item":        true,
	"impl_item":            true,
	"type_declaration":     true,
	"struct_item":          true,
	"block_comment":        true,
	"compilation_unit":     true,
	"global_attribute":     true,
}

func priorityOf(nodeType string) int {
	for i, t := range nodeTypePriority {
		if t == nodeType {
			return i
		}
	}
	return -1
}

// higherPriority reports whether a should win over b: by the priority
// table, falling back to lexicographic order when neither is in the table
// (spec §4.4: "For unknown kinds, lexicographic ordering is the final
// tiebreaker").
func higherPriority(a, b string) bool {
	pa, pb := priorityOf(a), priorityOf(b)
	if pa == -1 && pb == -1 {
		return a < b
	}
	return pa > pb
}

func isImportant(nodeType string) bool {
	return importantKinds[nodeType]
}

// Extractor implements the Block Extractor. It is stateless.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// Extract consumes a line map and a set of requested (1-based) lines,
// producing a sorted, deduplicated list of CodeBlocks per spec §4.4.
func (e *Extractor) Extract(lineMap map[int]linemap.CachedNodeInfo, lines []int, allowTests bool) []CodeBlock {
	sortedLines := append([]int(nil), lines...)
	sort.Ints(sortedLines)

	emitted := make([]CodeBlock, 0, len(sortedLines))
	spans := make(map[[2]int]int) // (start_row,end_row) -> index into emitted

	emit := func(block CodeBlock) {
		key := [2]int{block.StartRow, block.EndRow}
		if idx, ok := spans[key]; ok {
			existing := emitted[idx]
			if higherPriority(block.NodeType, existing.NodeType) {
				emitted[idx] = block
			}
			return
		}
		spans[key] = len(emitted)
		emitted = append(emitted, block)
	}

	for _, line := range sortedLines {
		row := line - 1 // internal rows are 0-based
		if row < 0 {
			continue
		}
		info, ok := lineMap[row]
		if !ok {
			debug.LogBlocks("line %d has no line-map entry, skipping (out of bounds)\n", line)
			continue
		}

		switch {
		case info.IsComment:
			if info.HasContext && (!info.ContextNodeIsTest || allowTests) {
				emit(CodeBlock{
					StartRow:  min(info.StartRow, info.ContextStartRow),
					EndRow:    max(info.EndRow, info.ContextEndRow),
					StartByte: min(info.StartByte, info.ContextStartByte),
					EndByte:   max(info.EndByte, info.ContextEndByte),
					NodeType:  info.ContextNodeKind,
				})
			} else {
				emit(CodeBlock{
					StartRow: info.StartRow, EndRow: info.EndRow,
					StartByte: info.StartByte, EndByte: info.EndByte,
					NodeType: info.NodeKind,
				})
			}

		case info.IsTest && !allowTests:
			debug.LogBlocks("line %d excluded: test node %q\n", line, info.NodeKind)
			continue

		case info.HasContext && (!info.ContextNodeIsTest || allowTests):
			b := CodeBlock{
				StartRow: info.ContextStartRow, EndRow: info.ContextEndRow,
				StartByte: info.ContextStartByte, EndByte: info.ContextEndByte,
				NodeType: info.ContextNodeKind,
			}
			if info.HasParentFunction {
				b.HasParent = true
				b.ParentNodeType = info.ParentNodeType
				b.ParentStartRow = info.ParentStartRow
				b.ParentEndRow = info.ParentEndRow
			}
			emit(attachLeadingComment(lineMap, b, allowTests))

		case info.HasContext && info.ContextNodeIsTest && !allowTests:
			// The nearest acceptable ancestor is a test node: drop the
			// candidate outright rather than falling through to emit the
			// raw, non-acceptable original node (spec §7's test-node
			// exclusion policy — "do not substitute a parent" cuts both
			// ways: never substitute the child either).
			debug.LogBlocks("line %d excluded: context %q is a test node\n", line, info.ContextNodeKind)
			continue

		case info.OriginalNodeIsAcceptable:
			b := CodeBlock{
				StartRow: info.StartRow, EndRow: info.EndRow,
				StartByte: info.StartByte, EndByte: info.EndByte,
				NodeType: info.NodeKind,
			}
			if info.HasParentFunction {
				b.HasParent = true
				b.ParentNodeType = info.ParentNodeType
				b.ParentStartRow = info.ParentStartRow
				b.ParentEndRow = info.ParentEndRow
			}
			emit(attachLeadingComment(lineMap, b, allowTests))

		default:
			emit(CodeBlock{
				StartRow: info.StartRow, EndRow: info.EndRow,
				StartByte: info.StartByte, EndByte: info.EndByte,
				NodeType: info.NodeKind,
			})
		}
	}

	result := dedupeOverlaps(emitted)
	sort.Slice(result, func(i, j int) bool { return result[i].StartRow < result[j].StartRow })
	return result
}

// attachLeadingComment extends a declaration block backward to absorb any
// contiguous run of comment lines immediately above it that are bound to
// this exact node (spec §4.3's comment->context binding is symmetric: a
// query against either the comment's line or the declaration's line must
// resolve to the same merged span — invariant 7, "comment binding").
func attachLeadingComment(lineMap map[int]linemap.CachedNodeInfo, b CodeBlock, allowTests bool) CodeBlock {
	declStartRow, declEndRow := b.StartRow, b.EndRow
	row := declStartRow - 1
	for {
		info, ok := lineMap[row]
		if !ok || !info.IsComment || !info.HasContext {
			break
		}
		if info.ContextStartRow != declStartRow || info.ContextEndRow != declEndRow {
			break
		}
		if info.ContextNodeIsTest && !allowTests {
			break
		}
		b.StartRow = info.StartRow
		if info.StartByte < b.StartByte {
			b.StartByte = info.StartByte
		}
		row--
	}
	return b
}

// dedupeOverlaps implements spec §4.4's second-pass overlap resolution:
// comments pass through unchanged; non-comment blocks are compared pairwise
// against the accepted set using the containment/important/priority table.
func dedupeOverlaps(blocks []CodeBlock) []CodeBlock {
	var comments, rest []CodeBlock
	for _, b := range blocks {
		if isCommentNodeType(b.NodeType) {
			comments = append(comments, b)
		} else {
			rest = append(rest, b)
		}
	}

	accepted := make([]CodeBlock, 0, len(rest))
	for _, incoming := range rest {
		accepted = acceptOrDrop(accepted, incoming)
	}

	return append(comments, accepted...)
}

func isCommentNodeType(nodeType string) bool {
	switch nodeType {
	case "comment", "line_comment", "block_comment", "doc_comment", "//":
		return true
	default:
		return false
	}
}

func acceptOrDrop(accepted []CodeBlock, incoming CodeBlock) []CodeBlock {
	for i, existing := range accepted {
		switch {
		case contains(incoming, existing) && contains(existing, incoming):
			// Identical span: priority table decides, ties keep existing.
			if higherPriority(incoming.NodeType, existing.NodeType) {
				accepted[i] = incoming
			}
			return accepted

		case contains(existing, incoming):
			// incoming subseteq existing
			if isImportant(incoming.NodeType) && !isImportant(existing.NodeType) {
				continue // keep both
			}
			if isImportant(existing.NodeType) && !isImportant(incoming.NodeType) {
				return accepted // drop incoming
			}
			// Equal priority keeps the more specific (contained) incoming block.
			if !higherPriority(existing.NodeType, incoming.NodeType) {
				accepted[i] = incoming
				return accepted
			}
			return accepted // existing outranks incoming

		case contains(incoming, existing):
			// existing subseteq incoming
			if isImportant(existing.NodeType) && !isImportant(incoming.NodeType) {
				continue // keep both
			}
			if isImportant(incoming.NodeType) && !isImportant(existing.NodeType) {
				accepted[i] = incoming
				return accepted
			}
			if higherPriority(incoming.NodeType, existing.NodeType) {
				accepted[i] = incoming
				return accepted
			}
			return accepted

		case overlapsPartially(incoming, existing):
			return accepted // drop incoming
		}
	}
	return append(accepted, incoming)
}

// contains reports whether b's row span is fully within a's.
func contains(a, b CodeBlock) bool {
	return a.StartRow <= b.StartRow && a.EndRow >= b.EndRow
}

func overlapsPartially(a, b CodeBlock) bool {
	overlaps := a.StartRow <= b.EndRow && b.StartRow <= a.EndRow
	return overlaps && !contains(a, b) && !contains(b, a)
}
