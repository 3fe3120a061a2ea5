// Command blockscan is the CLI surface for the block extractor (SPEC_FULL
// domain stack item 7). Grounded on the teacher's cmd/lci CLI — same
// library (urfave/cli/v2), same config-load-then-override flag pattern —
// narrowed to this repo's four subcommands: search, watch, serve-mcp,
// version.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/blockscan/internal/config"
	"github.com/standardbeagle/blockscan/internal/debug"
	"github.com/standardbeagle/blockscan/internal/facade"
	"github.com/standardbeagle/blockscan/internal/format"
	"github.com/standardbeagle/blockscan/internal/language"
	"github.com/standardbeagle/blockscan/internal/mcpserver"
	"github.com/standardbeagle/blockscan/internal/query"
	"github.com/standardbeagle/blockscan/internal/rank"
	"github.com/standardbeagle/blockscan/internal/version"
	"github.com/standardbeagle/blockscan/internal/walk"
	"github.com/standardbeagle/blockscan/pkg/pathutil"
)

func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Root = absRoot

	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}
	if gap := c.Int("merge-gap"); c.IsSet("merge-gap") {
		cfg.MergeGap = gap
	}

	return cfg, config.ValidateConfig(cfg)
}

func main() {
	app := &cli.App{
		Name:                   "blockscan",
		Usage:                  "AST-aware code block search for polyglot codebases",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "Project root", Value: "."},
			&cli.StringSliceFlag{Name: "include", Usage: "Include glob patterns"},
			&cli.StringSliceFlag{Name: "exclude", Usage: "Exclude glob patterns"},
			&cli.IntFlag{Name: "merge-gap", Usage: "Block Merger adjacency threshold in lines"},
			&cli.BoolFlag{Name: "allow-tests", Usage: "Include test-node matches"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "text|markdown|json|xml", Value: "text"},
		},
		Commands: []*cli.Command{
			searchCommand(),
			watchCommand(),
			serveMCPCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the project for a pattern and print matching code blocks",
		ArgsUsage: "<pattern>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("search requires a pattern argument", 1)
			}
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			return runSearch(c.Context, cfg, c.Args().First(), c.Bool("allow-tests"), c.String("output"))
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Re-run a search whenever a watched file changes",
		ArgsUsage: "<pattern>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("watch requires a pattern argument", 1)
			}
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			pattern := c.Args().First()
			allowTests := c.Bool("allow-tests")
			output := c.String("output")

			stop := make(chan struct{})
			defer close(stop)
			return walk.Watch(cfg.Root, 300*time.Millisecond, func(path string) {
				debug.Printf("watch: re-running search after change to %s\n", path)
				if err := runSearch(c.Context, cfg, pattern, allowTests, output); err != nil {
					fmt.Fprintln(os.Stderr, "error:", err)
				}
			}, stop)
		},
	}
}

func serveMCPCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve-mcp",
		Usage: "Start the MCP server exposing code block search as a tool",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			return mcpserver.Serve(c.Context, cfg)
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the blockscan version",
		Action: func(c *cli.Context) error {
			fmt.Println(version.FullInfo())
			return nil
		},
	}
}

func runSearch(ctx context.Context, cfg *config.Config, pattern string, allowTests bool, output string) error {
	registry := language.NewRegistry()
	w := walk.New(cfg, registry)
	if err := w.LoadGitignore(); err != nil {
		return fmt.Errorf("load .gitignore: %w", err)
	}

	paths, err := w.Discover()
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}

	files, err := walk.ReadAll(ctx, registry, paths)
	if err != nil {
		return fmt.Errorf("read files: %w", err)
	}

	q, err := query.Compile(pattern)
	if err != nil {
		return fmt.Errorf("compile query: %w", err)
	}

	f := facade.New()
	opts := facade.DefaultOptions()
	opts.MergeGap = cfg.MergeGap

	var results []format.Result
	for _, file := range files {
		lines := query.MatchingLines(file.Content, q.Regex)
		if len(lines) == 0 {
			continue
		}

		allow := cfg.AllowTestsFor(file.Extension, allowTests)
		blocksFound, err := f.ParseFileForCodeBlocks(file.Path, file.Content, file.Extension, lines, allow, opts)
		if err != nil {
			debug.Printf("search: %s: %v\n", file.Path, err)
			continue
		}

		scored := rank.BM25(blocksFound, file.Content, q.Terms)
		for _, sb := range scored {
			results = append(results, format.FromBlock(file.Path, file.Content, sb.CodeBlock))
		}
	}

	results = pathutil.ToRelativeResults(results, cfg.Root)
	kept, dropped := format.Apply(results, cfg.Budgets)
	if dropped > 0 {
		debug.Printf("search: dropped %d results over budget\n", dropped)
	}

	rendered, err := format.Format(output, kept)
	if err != nil {
		return fmt.Errorf("format results: %w", err)
	}
	fmt.Print(rendered)
	return nil
}
