package treecache

import (
	"sync"
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/blockscan/internal/language"
)

func goImpl(t *testing.T) language.Impl {
	t.Helper()
	impl, ok := language.NewRegistry().Lookup(".go")
	require.True(t, ok)
	return impl
}

func TestGetOrParseCachesByKey(t *testing.T) {
	impl := goImpl(t)
	c := New()
	content := []byte("package main\n\nfunc main() {}\n")
	key := Key{FileKey: "a.go", Hash: 1}

	tree1, err := c.GetOrParse(key, content, impl)
	require.NoError(t, err)
	require.NotNil(t, tree1)
	require.Equal(t, 1, c.Len())

	tree2, err := c.GetOrParse(key, content, impl)
	require.NoError(t, err)
	require.Same(t, tree1, tree2, "second call with the same key must return the cached tree, not reparse")
}

func TestGetOrParseDistinctHashesDontCollide(t *testing.T) {
	impl := goImpl(t)
	c := New()
	content := []byte("package main\n\nfunc main() {}\n")

	tree1, err := c.GetOrParse(Key{FileKey: "a.go", Hash: 1}, content, impl)
	require.NoError(t, err)
	tree2, err := c.GetOrParse(Key{FileKey: "a.go", Hash: 2}, content, impl)
	require.NoError(t, err)

	require.NotSame(t, tree1, tree2)
	require.Equal(t, 2, c.Len())
}

func TestGetOrParseConcurrentCallsParseOnce(t *testing.T) {
	impl := goImpl(t)
	c := New()
	content := []byte("package main\n\nfunc main() {}\n")
	key := Key{FileKey: "concurrent.go", Hash: 42}

	const goroutines = 16
	results := make(chan *tree_sitter.Tree, goroutines)
	errs := make(chan error, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := c.GetOrParse(key, content, impl)
			results <- tree
			errs <- err
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var first *tree_sitter.Tree
	count := 0
	for tree := range results {
		if count == 0 {
			first = tree
		} else {
			require.Same(t, first, tree, "all goroutines must observe the same parsed tree")
		}
		count++
	}
	require.Equal(t, goroutines, count)
	require.Equal(t, 1, c.Len())
}

func TestDeleteForcesReparse(t *testing.T) {
	impl := goImpl(t)
	c := New()
	content := []byte("package main\n\nfunc main() {}\n")
	key := Key{FileKey: "a.go", Hash: 1}

	tree1, err := c.GetOrParse(key, content, impl)
	require.NoError(t, err)

	c.Delete(key)
	require.Equal(t, 0, c.Len())

	tree2, err := c.GetOrParse(key, content, impl)
	require.NoError(t, err)
	require.NotSame(t, tree1, tree2)
}
