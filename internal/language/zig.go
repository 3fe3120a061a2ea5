package language

import (
	"bytes"

	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func newZig() Impl {
	languagePtr := tree_sitter_zig.Language()
	lang := tree_sitter.NewLanguage(languagePtr)
	return &zigImpl{base: base{
		name: "zig",
		lang: lang,
		acceptable: newKindSet(
			"source_file",
			"function_declaration",
			"struct_declaration",
			"union_declaration",
		),
		nestedKinds:   newKindSet("struct_declaration", "union_declaration"),
		functionKinds: newKindSet("function_declaration"),
	}}
}

type zigImpl struct{ base }

// IsTestNode recognizes Zig's `test "name" { ... }` blocks, which
// tree-sitter-zig surfaces as a dedicated test_declaration kind rather than
// a regular function_declaration.
func (z *zigImpl) IsTestNode(node *tree_sitter.Node, source []byte) bool {
	if node == nil {
		return false
	}
	return node.Kind() == "test_declaration" || bytes.HasPrefix(
		source[node.StartByte():node.EndByte()], []byte("test "),
	)
}
