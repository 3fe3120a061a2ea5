package language

import (
	"bytes"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

// newGo grounds its acceptable/function kind sets in the teacher's Go query
// (parser_language_setup.go: function_declaration, method_declaration,
// type_declaration, func_literal).
func newGo() Impl {
	languagePtr := tree_sitter_go.Language()
	lang := tree_sitter.NewLanguage(languagePtr)
	return &goImpl{base: base{
		name: "go",
		lang: lang,
		acceptable: newKindSet(
			"source_file",
			"function_declaration",
			"method_declaration",
			"type_declaration",
			"func_literal",
		),
		nestedKinds: newKindSet("struct_type", "interface_type"),
		functionKinds: newKindSet(
			"type_declaration", "function_declaration", "method_declaration", "func_literal",
		),
	}}
}

type goImpl struct{ base }

// IsAcceptableParent overrides base: struct_type/interface_type are only
// acceptable (and thus independently extractable, per the nested-struct-type
// scenario) when they are NOT the immediate type of a type_spec — that case
// is already represented by the enclosing type_declaration. A struct_type
// nested as a field's anonymous type (parent is field_declaration, not
// type_spec) is acceptable on its own.
func (g *goImpl) IsAcceptableParent(node *tree_sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "struct_type", "interface_type":
		parent := node.Parent()
		return parent == nil || parent.Kind() != "type_spec"
	default:
		return g.base.IsAcceptableParent(node)
	}
}

func (g *goImpl) IsTestNode(node *tree_sitter.Node, source []byte) bool {
	if node == nil {
		return false
	}
	if node.Kind() != "function_declaration" {
		return false
	}
	name := functionDeclarationName(node, source)
	if name == nil {
		return false
	}
	return bytes.HasPrefix(name, []byte("Test")) ||
		bytes.HasPrefix(name, []byte("Benchmark")) ||
		bytes.HasPrefix(name, []byte("Example")) ||
		bytes.HasPrefix(name, []byte("Fuzz"))
}

// functionDeclarationName returns the identifier child's source bytes for a
// Go function_declaration node, or nil if it has none.
func functionDeclarationName(node *tree_sitter.Node, source []byte) []byte {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "identifier" {
			return source[child.StartByte():child.EndByte()]
		}
	}
	return nil
}
