package language

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

func newTypeScript() Impl {
	languagePtr := tree_sitter_typescript.LanguageTypescript()
	lang := tree_sitter.NewLanguage(languagePtr)
	return &tsImpl{base: base{
		name: "typescript",
		lang: lang,
		acceptable: newKindSet(
			"program",
			"function_declaration",
			"generator_function_declaration",
			"method_definition",
			"class_declaration",
			"interface_declaration",
			"type_alias_declaration",
			"enum_declaration",
			"arrow_function",
			"function_expression",
		),
		nestedKinds:   newKindSet("class_declaration", "interface_declaration"),
		functionKinds: newKindSet("function_declaration", "generator_function_declaration", "method_definition"),
	}}
}

type tsImpl struct{ base }

func (t *tsImpl) IsTestNode(node *tree_sitter.Node, source []byte) bool {
	return isTestCallbackArgument(node, source, jsTestCallees)
}
