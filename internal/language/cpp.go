package language

import (
	"bytes"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

func newCpp() Impl {
	languagePtr := tree_sitter_cpp.Language()
	lang := tree_sitter.NewLanguage(languagePtr)
	return &cppImpl{base: base{
		name: "cpp",
		lang: lang,
		acceptable: newKindSet(
			"translation_unit",
			"function_definition",
			"class_specifier",
			"struct_specifier",
			"enum_specifier",
			"namespace_definition",
		),
		nestedKinds:   newKindSet("class_specifier", "struct_specifier"),
		functionKinds: newKindSet("function_definition"),
	}}
}

type cppImpl struct{ base }

// IsTestNode recognizes GoogleTest's TEST/TEST_F/TEST_P macro-expansion
// shape, which tree-sitter parses as a function_definition whose name
// matches the macro's generated identifier pattern. Grammars without macro
// expansion surface this as an unexpanded call, so this is a best-effort
// heuristic over the node's source text rather than a structural match.
func (c *cppImpl) IsTestNode(node *tree_sitter.Node, source []byte) bool {
	if node == nil || node.Kind() != "function_definition" {
		return false
	}
	declarator := node.Child(1)
	if declarator == nil {
		return false
	}
	text := source[declarator.StartByte():declarator.EndByte()]
	return bytes.Contains(text, []byte("_Test_")) || bytes.Contains(text, []byte("Test_"))
}
