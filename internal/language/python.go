package language

import (
	"bytes"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

func newPython() Impl {
	languagePtr := tree_sitter_python.Language()
	lang := tree_sitter.NewLanguage(languagePtr)
	return &pyImpl{base: base{
		name: "python",
		lang: lang,
		acceptable: newKindSet(
			"module",
			"function_definition",
			"class_definition",
		),
		nestedKinds:   newKindSet("class_definition"),
		functionKinds: newKindSet("function_definition"),
	}}
}

type pyImpl struct{ base }

func (p *pyImpl) IsTestNode(node *tree_sitter.Node, source []byte) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "function_definition":
		name := defNodeName(node, source)
		if bytes.HasPrefix(name, []byte("test_")) {
			return true
		}
		return hasPytestDecorator(node, source)
	case "class_definition":
		name := defNodeName(node, source)
		return bytes.HasPrefix(name, []byte("Test"))
	default:
		return false
	}
}

func defNodeName(node *tree_sitter.Node, source []byte) []byte {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "identifier" {
			return source[child.StartByte():child.EndByte()]
		}
	}
	return nil
}

// hasPytestDecorator reports whether node's parent is a decorated_definition
// wrapper whose text contains a pytest.mark decorator.
func hasPytestDecorator(node *tree_sitter.Node, source []byte) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return false
	}
	text := source[parent.StartByte():parent.EndByte()]
	return bytes.Contains(text, []byte("pytest.mark"))
}
