package linemap

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/blockscan/internal/language"
)

// findCommentContext resolves the declaration a comment documents, trying
// each strategy of spec §4.3's find_comment_context in order; the first
// success wins. Grounded on find_comment_context_node in
// original_source/src/language/parser.rs.
func findCommentContext(comment *tree_sitter.Node, impl language.Impl, source []byte) *tree_sitter.Node {
	// Strategy 1: first non-comment next sibling that is acceptable, else
	// the first acceptable descendant of it. Skip over further comment
	// siblings (a run of doc-comment lines) while searching.
	for sib := comment.NextSibling(); sib != nil; sib = sib.NextSibling() {
		if language.IsCommentKind(sib.Kind()) {
			continue
		}
		if impl.IsAcceptableParent(sib) {
			return sib
		}
		if child := findAcceptableChild(sib, impl); child != nil {
			return child
		}
		break
	}

	// Strategy 2: no next sibling at all — try the previous sibling
	// (trailing comments), else its first acceptable descendant.
	if comment.NextSibling() == nil {
		if prev := comment.PrevSibling(); prev != nil {
			if impl.IsAcceptableParent(prev) {
				return prev
			}
			if child := findAcceptableChild(prev, impl); child != nil {
				return child
			}
		}
	}

	// Strategy 3: first acceptable ancestor.
	for p := comment.Parent(); p != nil; p = p.Parent() {
		if impl.IsAcceptableParent(p) {
			return p
		}
	}

	// Strategy 4: immediate next node (sibling, or parent's next sibling),
	// or its first acceptable descendant.
	if next := findImmediateNextNode(comment); next != nil {
		if impl.IsAcceptableParent(next) {
			return next
		}
		if child := findAcceptableChild(next, impl); child != nil {
			return child
		}
	}

	return nil
}

// findAcceptableChild does a depth-first search for the first descendant
// satisfying impl.IsAcceptableParent.
func findAcceptableChild(node *tree_sitter.Node, impl language.Impl) *tree_sitter.Node {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if impl.IsAcceptableParent(child) {
			return child
		}
		if found := findAcceptableChild(child, impl); found != nil {
			return found
		}
	}
	return nil
}

// findImmediateNextNode returns node's next sibling, or its parent's next
// sibling if node has none.
func findImmediateNextNode(node *tree_sitter.Node) *tree_sitter.Node {
	if next := node.NextSibling(); next != nil {
		return next
	}
	if parent := node.Parent(); parent != nil {
		if next := parent.NextSibling(); next != nil {
			return next
		}
	}
	return nil
}
