package language

import (
	"bytes"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
)

func newCSharp() Impl {
	languagePtr := tree_sitter_csharp.Language()
	lang := tree_sitter.NewLanguage(languagePtr)
	return &csharpImpl{base: base{
		name: "c-sharp",
		lang: lang,
		acceptable: newKindSet(
			"compilation_unit",
			"method_declaration",
			"constructor_declaration",
			"class_declaration",
			"interface_declaration",
			"struct_declaration",
			"record_declaration",
			"enum_declaration",
			"namespace_declaration",
		),
		nestedKinds: newKindSet(
			"class_declaration", "interface_declaration", "struct_declaration",
			"record_declaration", "enum_declaration",
		),
		functionKinds: newKindSet("method_declaration", "constructor_declaration"),
	}}
}

type csharpImpl struct{ base }

// IsTestNode recognizes xUnit/NUnit/MSTest attribute-decorated methods
// ([Fact], [Test], [TestMethod]) via the preceding attribute_list sibling.
func (c *csharpImpl) IsTestNode(node *tree_sitter.Node, source []byte) bool {
	if node == nil || node.Kind() != "method_declaration" {
		return false
	}
	for sib := node.PrevSibling(); sib != nil; sib = sib.PrevSibling() {
		if sib.Kind() != "attribute_list" {
			break
		}
		text := source[sib.StartByte():sib.EndByte()]
		if bytes.Contains(text, []byte("Fact")) ||
			bytes.Contains(text, []byte("Test")) {
			return true
		}
	}
	return false
}
