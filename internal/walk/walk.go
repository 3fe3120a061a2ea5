// Package walk discovers candidate files for a search and hands
// (path, content, extension) to the façade. Out of scope for the core
// per spec.md §1; grounded on the teacher's internal/indexing file
// discovery (pipeline_types.go/watcher.go's doublestar matching) but
// trimmed to blockscan's needs: no indexing state, just glob+gitignore
// filtering and concurrent content reads.
package walk

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/blockscan/internal/config"
	"github.com/standardbeagle/blockscan/internal/language"
)

// File is a discovered, read candidate ready for the façade.
type File struct {
	Path      string
	Extension string
	Content   []byte
}

// Walker discovers files under a root matching a registry-supported
// extension, subject to include/exclude globs and .gitignore rules.
type Walker struct {
	cfg       *config.Config
	registry  *language.Registry
	gitignore *config.GitignoreParser
}

// New constructs a Walker for cfg. When cfg.Root has a .gitignore and
// respecting it is desired, callers load it via LoadGitignore.
func New(cfg *config.Config, registry *language.Registry) *Walker {
	return &Walker{cfg: cfg, registry: registry, gitignore: config.NewGitignoreParser()}
}

// LoadGitignore loads cfg.Root's .gitignore, if any, into the walker.
func (w *Walker) LoadGitignore() error {
	return w.gitignore.LoadGitignore(w.cfg.Root)
}

// Discover walks cfg.Root and returns every regular file whose extension
// the language registry supports, matching Include (when non-empty) and
// not matching Exclude or the loaded .gitignore.
func (w *Walker) Discover() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(w.cfg.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(w.cfg.Root, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if rel != "." && (w.matchesExclude(rel+"/") || w.gitignore.ShouldIgnore(rel, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := w.registry.Lookup(filepath.Ext(path)); !ok {
			return nil
		}
		if len(w.cfg.Include) > 0 && !w.matchesAny(w.cfg.Include, rel) {
			return nil
		}
		if w.matchesExclude(rel) {
			return nil
		}
		if w.gitignore.ShouldIgnore(rel, false) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func (w *Walker) matchesExclude(rel string) bool {
	return w.matchesAny(w.cfg.Exclude, rel)
}

func (w *Walker) matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// ReadAll reads every path concurrently via an errgroup, returning each
// as a File paired with its filepath.Ext extension (the registry is not
// consulted). Order matches paths (not completion order).
func ReadAll(ctx context.Context, registry *language.Registry, paths []string) ([]File, error) {
	files := make([]File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			content, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			ext := filepath.Ext(p)
			files[i] = File{Path: p, Extension: ext, Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	_ = registry
	return files, nil
}
