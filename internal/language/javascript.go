package language

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

func newJavaScript() Impl {
	languagePtr := tree_sitter_javascript.Language()
	lang := tree_sitter.NewLanguage(languagePtr)
	return &jsImpl{base: base{
		name: "javascript",
		lang: lang,
		acceptable: newKindSet(
			"program",
			"function_declaration",
			"generator_function_declaration",
			"method_definition",
			"class_declaration",
			"arrow_function",
			"function_expression",
		),
		nestedKinds:   newKindSet("class_declaration"),
		functionKinds: newKindSet("function_declaration", "generator_function_declaration", "method_definition"),
	}}
}

type jsImpl struct{ base }

var jsTestCallees = newKindSet("describe", "it", "test", "beforeEach", "afterEach", "beforeAll", "afterAll")

func (j *jsImpl) IsTestNode(node *tree_sitter.Node, source []byte) bool {
	return isTestCallbackArgument(node, source, jsTestCallees)
}

// isTestCallbackArgument reports whether node is (or is the value attached
// to) a function expression passed directly as an argument to a call whose
// callee identifier is in testCallees — the common
// describe(...)/it(...)/test(...) shape shared by JS and TS test runners.
func isTestCallbackArgument(node *tree_sitter.Node, source []byte, testCallees kindSet) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "function_declaration", "function_expression", "arrow_function", "generator_function_declaration":
	default:
		return false
	}
	parent := node.Parent()
	if parent == nil || parent.Kind() != "arguments" {
		return false
	}
	call := parent.Parent()
	if call == nil || call.Kind() != "call_expression" {
		return false
	}
	callee := call.Child(0)
	if callee == nil {
		return false
	}
	name := string(source[callee.StartByte():callee.EndByte()])
	return testCallees.has(name)
}
