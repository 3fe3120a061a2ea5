package language

import (
	"bytes"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

func newPHP() Impl {
	languagePtr := tree_sitter_php.LanguagePHP()
	lang := tree_sitter.NewLanguage(languagePtr)
	return &phpImpl{base: base{
		name: "php",
		lang: lang,
		acceptable: newKindSet(
			"program",
			"function_definition",
			"method_declaration",
			"class_declaration",
			"interface_declaration",
			"trait_declaration",
			"enum_declaration",
			"namespace_definition",
		),
		nestedKinds:   newKindSet("class_declaration", "interface_declaration", "trait_declaration"),
		functionKinds: newKindSet("method_declaration", "function_definition"),
	}}
}

type phpImpl struct{ base }

// IsTestNode recognizes PHPUnit convention: a method whose name starts with
// "test". The enclosing class name is not checked.
func (p *phpImpl) IsTestNode(node *tree_sitter.Node, source []byte) bool {
	if node == nil || node.Kind() != "method_declaration" {
		return false
	}
	name := defNodeNameByKind(node, source, "name")
	return bytes.HasPrefix(name, []byte("test"))
}

func defNodeNameByKind(node *tree_sitter.Node, source []byte, kind string) []byte {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return source[child.StartByte():child.EndByte()]
		}
	}
	return nil
}
