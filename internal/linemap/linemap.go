// Package linemap implements the Line-Map Builder (spec §4.3): a single-pass
// recursive AST walk producing, for each source line, the most specific
// node covering it plus its resolved context. Grounded line-by-line on
// process_node / find_comment_context_node in original_source's
// src/language/parser.rs (the Rust implementation this spec was distilled
// from), translated into Go idiom.
package linemap

import (
	"sort"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/blockscan/internal/debug"
	"github.com/standardbeagle/blockscan/internal/language"
)

// ContextBuffer is the default window radius (in lines) around each
// requested line for the range-filtered build path (SPEC_FULL supplement 1,
// grounded on parser.rs's CONTEXT_BUFFER = 10).
const ContextBuffer = 10

// NodeInfo is the per-line record tied to the lifetime of the parsed tree
// it was built from (spec §3).
type NodeInfo struct {
	Node        *tree_sitter.Node
	IsComment   bool
	IsTest      bool
	ContextNode *tree_sitter.Node // nil when the node has no resolved context
	Specificity int
}

// LineWindow is an inclusive, 0-based row range.
type LineWindow struct {
	Start, End int
}

// WindowsForLines builds the merged ±buffer windows around a set of 0-based
// target lines (SPEC_FULL supplement 1: "merging windows that come within
// 2*buffer of each other"). Pass a nil/empty lines slice together with a
// Build call that wants the whole file (BuildFull).
func WindowsForLines(lines []int, buffer int) []LineWindow {
	if len(lines) == 0 {
		return nil
	}
	sorted := append([]int(nil), lines...)
	sort.Ints(sorted)

	windows := make([]LineWindow, 0, len(sorted))
	start := saturatingSub(sorted[0], buffer)
	end := sorted[0] + buffer

	for _, line := range sorted[1:] {
		bufStart := saturatingSub(line, buffer)
		bufEnd := line + buffer
		if bufStart <= end+buffer {
			if bufEnd > end {
				end = bufEnd
			}
			continue
		}
		windows = append(windows, LineWindow{Start: start, End: end})
		start, end = bufStart, bufEnd
	}
	windows = append(windows, LineWindow{Start: start, End: end})
	return windows
}

func saturatingSub(a, b int) int {
	if a < b {
		return 0
	}
	return a - b
}

func intersectsAny(windows []LineWindow, startRow, endRow int) bool {
	if windows == nil {
		return true
	}
	for _, w := range windows {
		if startRow <= w.End && endRow >= w.Start {
			return true
		}
	}
	return false
}

// Builder implements the Line-Map Builder. It is stateless and safe for
// concurrent use across distinct Build calls.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// BuildFull walks the entire tree with no range filter — the escape hatch
// SPEC_FULL supplement 1 calls for, used by callers and tests that want the
// whole-file map rather than the default windowed build.
func (b *Builder) BuildFull(root *tree_sitter.Node, source []byte, impl language.Impl, allowTests bool) map[int]*NodeInfo {
	return b.Build(root, source, impl, allowTests, nil)
}

// Build walks root once, producing a map from 0-based row number to the
// most specific NodeInfo covering it. When windows is non-nil, subtrees
// that don't intersect any window are skipped entirely (spec §4.3 step 1);
// this is an optimization — correctness without it still holds, since every
// write-path decision below is identical regardless of windowing.
func (b *Builder) Build(root *tree_sitter.Node, source []byte, impl language.Impl, allowTests bool, windows []LineWindow) map[int]*NodeInfo {
	out := make(map[int]*NodeInfo)
	b.processNode(root, out, impl, source, allowTests, nil, windows)
	return out
}

func (b *Builder) processNode(
	node *tree_sitter.Node,
	out map[int]*NodeInfo,
	impl language.Impl,
	source []byte,
	allowTests bool,
	inheritedContext *tree_sitter.Node,
	windows []LineWindow,
) {
	startRow := int(node.StartPosition().Row)
	endRow := int(node.EndPosition().Row)

	if !intersectsAny(windows, startRow, endRow) {
		debug.LogLineMap("skipping node %q at rows %d-%d (no window intersection)\n", node.Kind(), startRow, endRow)
		return
	}

	isComment := language.IsCommentKind(node.Kind())
	isTest := !allowTests && impl.IsTestNode(node, source)

	lineCoverage := endRow - startRow + 1
	byteCoverage := int(node.EndByte() - node.StartByte())
	specificity := lineCoverage*1000 + byteCoverage/100

	var contextNode *tree_sitter.Node
	if isComment {
		contextNode = findCommentContext(node, impl, source)
	} else if !impl.IsAcceptableParent(node) {
		contextNode = inheritedContext
	}

	info := &NodeInfo{
		Node:        node,
		IsComment:   isComment,
		IsTest:      isTest,
		ContextNode: contextNode,
		Specificity: specificity,
	}

	for row := startRow; row <= endRow; row++ {
		if windows != nil && !intersectsAny(windows, row, row) {
			continue
		}
		if shouldUpdate(out[row], info) {
			out[row] = info
		}
	}

	nextAncestor := inheritedContext
	if impl.IsAcceptableParent(node) {
		nextAncestor = node
	}

	children := sortedChildren(node)
	for _, child := range children {
		b.processNode(child, out, impl, source, allowTests, nextAncestor, windows)
	}
}

// shouldUpdate implements spec §4.3 step 4's replacement rules in order.
func shouldUpdate(existing, incoming *NodeInfo) bool {
	if existing == nil {
		return true
	}
	if existing.IsComment && existing.ContextNode != nil && sameNode(existing.ContextNode, incoming.Node) {
		return false
	}
	if incoming.IsComment && incoming.ContextNode != nil && sameNode(incoming.ContextNode, existing.Node) {
		return true
	}
	return incoming.Specificity < existing.Specificity
}

func sameNode(a, b *tree_sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// sortedChildren returns node's children sorted by (start_byte, end_byte),
// the determinism requirement of spec §4.3 step 5 / §5.
func sortedChildren(node *tree_sitter.Node) []*tree_sitter.Node {
	count := node.ChildCount()
	children := make([]*tree_sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := node.Child(i); child != nil {
			children = append(children, child)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.StartByte() != b.StartByte() {
			return a.StartByte() < b.StartByte()
		}
		return a.EndByte() < b.EndByte()
	})
	return children
}
