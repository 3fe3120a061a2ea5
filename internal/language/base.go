package language

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// kindSet is a small fixed vocabulary of AST node kinds, used both for the
// "acceptable parent" halting set and for the "function-like" subset that
// FindParentFunction walks toward.
type kindSet map[string]bool

func newKindSet(kinds ...string) kindSet {
	s := make(kindSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

func (s kindSet) has(kind string) bool { return s[kind] }

// base implements the mechanical parts of Impl shared by every language:
// acceptable-parent membership test and walking up the parent chain to the
// nearest function-like ancestor for FindParentFunction. Each concrete
// language supplies its own acceptable/function kind sets and its own
// IsTestNode (test detection is too language-specific to share).
type base struct {
	name          string
	lang          *tree_sitter.Language
	acceptable    kindSet
	nestedKinds   kindSet // kinds that can have an enclosing function (e.g. Go's struct_type)
	functionKinds kindSet // acceptable kinds FindParentFunction searches for
}

func (b *base) Name() string { return b.name }

func (b *base) Language() *tree_sitter.Language { return b.lang }

func (b *base) IsAcceptableParent(node *tree_sitter.Node) bool {
	if node == nil {
		return false
	}
	return b.acceptable.has(node.Kind())
}

func (b *base) FindParentFunction(node *tree_sitter.Node) *tree_sitter.Node {
	if node == nil || !b.nestedKinds.has(node.Kind()) {
		return nil
	}
	for p := node.Parent(); p != nil; p = p.Parent() {
		if b.functionKinds.has(p.Kind()) {
			return p
		}
	}
	return nil
}

// NearestAcceptableAncestor walks the parent chain looking for the first
// node satisfying impl.IsAcceptableParent. Used by the Line-Map Builder to
// resolve the inherited context for nodes that are not themselves
// acceptable parents (spec §4.3 step 3).
func NearestAcceptableAncestor(impl Impl, node *tree_sitter.Node) *tree_sitter.Node {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if impl.IsAcceptableParent(p) {
			return p
		}
	}
	return nil
}
