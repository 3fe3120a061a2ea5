// Package mcpserver exposes the block search pipeline as an MCP tool
// (SPEC_FULL domain stack item 8). Grounded on the teacher's
// internal/mcp: same mcp.NewServer/AddTool/StdioTransport shape, same
// createErrorResponse convention, stripped of the
// teacher's MasterIndex/auto-indexing/semantic-scoring machinery since
// this repo has no persisted index (spec.md §1 non-goals).
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/blockscan/internal/config"
	"github.com/standardbeagle/blockscan/internal/debug"
	"github.com/standardbeagle/blockscan/internal/facade"
	"github.com/standardbeagle/blockscan/internal/format"
	"github.com/standardbeagle/blockscan/internal/language"
	"github.com/standardbeagle/blockscan/internal/query"
	"github.com/standardbeagle/blockscan/internal/rank"
	"github.com/standardbeagle/blockscan/internal/version"
	"github.com/standardbeagle/blockscan/internal/walk"
	"github.com/standardbeagle/blockscan/pkg/pathutil"
)

// Server wires one Facade/Registry pair (process-wide caches, spec §5)
// behind the MCP tool surface.
type Server struct {
	cfg    *config.Config
	server *mcp.Server
	facade *facade.Facade
	reg    *language.Registry
	walker *walk.Walker
}

// SearchParams is the "search" tool's input schema.
type SearchParams struct {
	Pattern    string `json:"pattern"`
	AllowTests bool   `json:"allow_tests,omitempty"`
	Output     string `json:"output,omitempty"`
}

// New constructs a Server bound to cfg's project root.
func New(cfg *config.Config) (*Server, error) {
	reg := language.NewRegistry()
	w := walk.New(cfg, reg)
	if err := w.LoadGitignore(); err != nil {
		return nil, fmt.Errorf("load .gitignore: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		facade: facade.New(),
		reg:    reg,
		walker: w,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "blockscan-mcp-server",
		Version: version.Version,
	}, nil)
	s.registerTools()

	return s, nil
}

// Serve starts the MCP server over stdio and blocks until ctx is done.
// DEBUG tracing must never reach stdout once stdio carries JSON-RPC, so
// MCP mode is latched before the transport starts.
func Serve(ctx context.Context, cfg *config.Config) error {
	debug.SetMCPMode(true)
	s, err := New(cfg)
	if err != nil {
		return err
	}
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "search",
		Description: "Search the project for a pattern and return the AST-aware code blocks that contain matching lines, ranked by relevance.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"pattern":     {Type: "string", Description: "Search pattern (regex or plain text)"},
				"allow_tests": {Type: "boolean", Description: "Include matches inside test functions"},
				"output":      {Type: "string", Description: "text|markdown|json|xml (default: json)"},
			},
			Required: []string{"pattern"},
		},
	}, s.handleSearch)
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params SearchParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("search", fmt.Errorf("invalid parameters: %w", err))
	}
	if params.Pattern == "" {
		return createErrorResponse("search", fmt.Errorf("pattern is required"))
	}
	if params.Output == "" {
		params.Output = "json"
	}

	results, err := s.runSearch(ctx, params.Pattern, params.AllowTests)
	if err != nil {
		return createErrorResponse("search", err)
	}

	rendered, err := format.Format(params.Output, results)
	if err != nil {
		return createErrorResponse("search", fmt.Errorf("format results: %w", err))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: rendered}},
	}, nil
}

func (s *Server) runSearch(ctx context.Context, pattern string, allowTests bool) ([]format.Result, error) {
	paths, err := s.walker.Discover()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	files, err := walk.ReadAll(ctx, s.reg, paths)
	if err != nil {
		return nil, fmt.Errorf("read files: %w", err)
	}

	q, err := query.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	opts := facade.DefaultOptions()
	opts.MergeGap = s.cfg.MergeGap

	var results []format.Result
	for _, file := range files {
		lines := query.MatchingLines(file.Content, q.Regex)
		if len(lines) == 0 {
			continue
		}

		allow := s.cfg.AllowTestsFor(file.Extension, allowTests)
		blocksFound, err := s.facade.ParseFileForCodeBlocks(file.Path, file.Content, file.Extension, lines, allow, opts)
		if err != nil {
			debug.LogMCP("search: %s: %v\n", file.Path, err)
			continue
		}

		scored := rank.BM25(blocksFound, file.Content, q.Terms)
		for _, sb := range scored {
			results = append(results, format.FromBlock(file.Path, file.Content, sb.CodeBlock))
		}
	}

	results = pathutil.ToRelativeResults(results, s.cfg.Root)
	kept, dropped := format.Apply(results, s.cfg.Budgets)
	if dropped > 0 {
		debug.LogMCP("search: dropped %d results over budget\n", dropped)
	}
	return kept, nil
}

// createErrorResponse mirrors the teacher's response.go convention: errors
// are reported inside the result with IsError=true, not as a protocol-level
// error, so the caller can see and self-correct.
func createErrorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	payload, marshalErr := json.Marshal(map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
		IsError: true,
	}, nil
}
