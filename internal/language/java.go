package language

import (
	"bytes"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

func newJava() Impl {
	languagePtr := tree_sitter_java.Language()
	lang := tree_sitter.NewLanguage(languagePtr)
	return &javaImpl{base: base{
		name: "java",
		lang: lang,
		acceptable: newKindSet(
			"program",
			"method_declaration",
			"constructor_declaration",
			"class_declaration",
			"record_declaration",
			"interface_declaration",
			"enum_declaration",
		),
		nestedKinds:   newKindSet("class_declaration", "interface_declaration", "enum_declaration", "record_declaration"),
		functionKinds: newKindSet("method_declaration", "constructor_declaration"),
	}}
}

type javaImpl struct{ base }

// IsTestNode recognizes JUnit-style @Test annotated methods via the
// preceding modifiers node.
func (j *javaImpl) IsTestNode(node *tree_sitter.Node, source []byte) bool {
	if node == nil || node.Kind() != "method_declaration" {
		return false
	}
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "modifiers" {
			continue
		}
		text := source[child.StartByte():child.EndByte()]
		if bytes.Contains(text, []byte("@Test")) {
			return true
		}
	}
	return false
}
