// Package language implements the Language Registry (spec §4.1): mapping a
// file extension to a LanguageImpl capability bundle. Grounded on the
// per-language setup functions in the teacher's internal/parser package
// (parser_language_setup.go), which enumerates the same tree-sitter grammar
// bindings this registry wires.
package language

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Impl is the capability bundle spec §4.1 requires of every supported
// language. Implementations are immutable value objects; registry lookup is
// pure and holds no mutable state.
type Impl interface {
	// Name is the language's canonical name, used in debug tracing.
	Name() string

	// Language returns the concrete tree-sitter grammar for parsing.
	Language() *tree_sitter.Language

	// IsAcceptableParent reports whether node is a block-forming construct
	// for this language (function, method, class/struct/impl/type
	// declaration, or top-level compilation unit for some grammars). Used
	// as the halting condition for ancestor searches.
	IsAcceptableParent(node *tree_sitter.Node) bool

	// IsTestNode reports whether node is a test function, test module, or
	// test-annotated declaration. May inspect node attributes and the
	// surrounding source bytes.
	IsTestNode(node *tree_sitter.Node, source []byte) bool

	// FindParentFunction returns the enclosing function/method declaration
	// for a nested type node (e.g. Go's struct_type), or nil if the node
	// has no such enclosing declaration or isn't a nested-type kind this
	// language cares about.
	FindParentFunction(node *tree_sitter.Node) *tree_sitter.Node
}

// IsCommentKind reports whether kind is one of the language-neutral comment
// kinds spec §3 names: "comment, line_comment, block_comment, doc_comment, //".
func IsCommentKind(kind string) bool {
	switch kind {
	case "comment", "line_comment", "block_comment", "doc_comment", "//":
		return true
	default:
		return false
	}
}

// Registry maps file extensions to LanguageImpl instances. Registration is
// static; lookups never mutate state, so a Registry is safe for concurrent
// use without locking.
type Registry struct {
	byExt map[string]Impl
}

// NewRegistry builds a registry with every LanguageImpl this repository
// ships (spec §4.1's "registration is static at startup").
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Impl)}
	for _, impl := range allImpls() {
		for _, ext := range impl.extensions {
			r.byExt[ext] = impl.Impl
		}
	}
	return r
}

// Lookup returns the LanguageImpl for extension (including the leading
// dot, e.g. ".go"), or false if the Language Registry has no entry —
// the UnsupportedExtension condition of spec §7.
func (r *Registry) Lookup(extension string) (Impl, bool) {
	impl, ok := r.byExt[extension]
	return impl, ok
}

type registration struct {
	Impl
	extensions []string
}

func allImpls() []registration {
	return []registration{
		{Impl: newGo(), extensions: []string{".go"}},
		{Impl: newJavaScript(), extensions: []string{".js", ".jsx", ".mjs", ".cjs"}},
		{Impl: newTypeScript(), extensions: []string{".ts", ".tsx"}},
		{Impl: newPython(), extensions: []string{".py"}},
		{Impl: newRust(), extensions: []string{".rs"}},
		{Impl: newJava(), extensions: []string{".java"}},
		{Impl: newCSharp(), extensions: []string{".cs"}},
		{Impl: newCpp(), extensions: []string{".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"}},
		{Impl: newPHP(), extensions: []string{".php", ".phtml"}},
		{Impl: newZig(), extensions: []string{".zig"}},
	}
}
