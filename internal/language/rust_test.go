package language

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func rustImplFor(t *testing.T) Impl {
	t.Helper()
	impl, ok := NewRegistry().Lookup(".rs")
	require.True(t, ok)
	return impl
}

func TestRustIsAcceptableParent(t *testing.T) {
	impl := rustImplFor(t)

	source := []byte(`struct Outer {
    field: i32,
}

enum Color {
    Red,
    Blue,
}

trait Greeter {
    fn greet(&self);
}

impl Greeter for Outer {
    fn greet(&self) {}
}

mod util {
    fn helper() {}
}

type Alias = Outer;
`)
	tree := parseWith(t, impl, source)
	defer tree.Close()
	root := tree.RootNode()

	require.True(t, impl.IsAcceptableParent(root), "source_file is acceptable")

	for _, kind := range []string{"struct_item", "enum_item", "trait_item", "impl_item", "mod_item", "type_item"} {
		node := findFirst(root, kind)
		require.NotNil(t, node, "expected to find a %s", kind)
		require.True(t, impl.IsAcceptableParent(node), "%s should be acceptable", kind)
	}

	// A field_declaration is not itself an acceptable parent kind.
	field := findFirst(root, "field_declaration")
	require.NotNil(t, field)
	require.False(t, impl.IsAcceptableParent(field))
}

func TestRustIsTestNode(t *testing.T) {
	impl := rustImplFor(t)

	source := []byte(`#[test]
fn test_addition() {
    assert_eq!(1 + 1, 2);
}

#[tokio::test]
async fn test_async_thing() {}

fn regular_helper() {}

#[derive(Debug)]
#[test]
fn stacked_attributes() {}
`)
	tree := parseWith(t, impl, source)
	defer tree.Close()
	root := tree.RootNode()

	fns := findAll(root, "function_item")
	require.Len(t, fns, 4)

	require.True(t, impl.IsTestNode(fns[0], source), "test_addition")
	require.True(t, impl.IsTestNode(fns[1], source), "test_async_thing under #[tokio::test]")
	require.False(t, impl.IsTestNode(fns[2], source), "regular_helper")
	require.True(t, impl.IsTestNode(fns[3], source), "stacked_attributes, #[test] immediately precedes it")
}

func TestRustIsTestNodeStopsAtNonAttributeSibling(t *testing.T) {
	impl := rustImplFor(t)

	// The #[test] attribute here decorates stray_helper, not
	// detached_from_test; IsTestNode must not look past a non-attribute
	// sibling to find it.
	source := []byte(`#[test]
fn stray_helper() {}

fn detached_from_test() {}
`)
	tree := parseWith(t, impl, source)
	defer tree.Close()
	root := tree.RootNode()

	fns := findAll(root, "function_item")
	require.Len(t, fns, 2)
	require.True(t, impl.IsTestNode(fns[0], source))
	require.False(t, impl.IsTestNode(fns[1], source))
}

func TestRustFindParentFunction(t *testing.T) {
	impl := rustImplFor(t)

	source := []byte(`fn outer_fn() {
    struct LocalHelper {
        value: i32,
    }
}
`)
	tree := parseWith(t, impl, source)
	defer tree.Close()
	root := tree.RootNode()

	fnDecl := findFirst(root, "function_item")
	require.NotNil(t, fnDecl)

	localStruct := findFirst(root, "struct_item")
	require.NotNil(t, localStruct)

	parent := impl.FindParentFunction(localStruct)
	require.NotNil(t, parent)
	require.Equal(t, "function_item", parent.Kind())
	require.Equal(t, fnDecl.StartByte(), parent.StartByte())

	// function_item itself is not a nested kind, so it has no parent function.
	require.Nil(t, impl.FindParentFunction(fnDecl))
}
