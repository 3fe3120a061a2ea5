package language

import (
	"bytes"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

func newRust() Impl {
	languagePtr := tree_sitter_rust.Language()
	lang := tree_sitter.NewLanguage(languagePtr)
	return &rustImpl{base: base{
		name: "rust",
		lang: lang,
		acceptable: newKindSet(
			"source_file",
			"function_item",
			"struct_item",
			"enum_item",
			"trait_item",
			"impl_item",
			"type_item",
			"mod_item",
		),
		nestedKinds:   newKindSet("struct_item", "enum_item"),
		functionKinds: newKindSet("function_item"),
	}}
}

type rustImpl struct{ base }

// IsTestNode covers spec Scenario D: a `#[test] fn foo() { ... }` is
// recognized by the #[test] (or #[tokio::test], #[rstest]) attribute on the
// preceding attribute_item sibling.
func (r *rustImpl) IsTestNode(node *tree_sitter.Node, source []byte) bool {
	if node == nil || node.Kind() != "function_item" {
		return false
	}
	for sib := node.PrevSibling(); sib != nil; sib = sib.PrevSibling() {
		if sib.Kind() != "attribute_item" {
			break
		}
		text := source[sib.StartByte():sib.EndByte()]
		if bytes.Contains(text, []byte("test")) {
			return true
		}
	}
	return false
}
