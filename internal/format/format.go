// Package format renders extracted code blocks for a human or agent
// consumer: text, markdown, JSON, or XML, each enforcing the
// results/bytes/tokens budgets from internal/config. Out of scope for
// the core per spec.md §1 ("output formatters... thin or well
// understood"). Dispatch style grounded on the teacher's
// internal/display.FormatterOptions{Format string} switch.
package format

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/standardbeagle/blockscan/internal/blocks"
	"github.com/standardbeagle/blockscan/internal/config"
)

// Result is the §6 schema: {file, lines, node_type, code, parent_*}.
type Result struct {
	File           string `json:"file" xml:"file"`
	StartLine      int    `json:"start_line" xml:"start_line"`
	EndLine        int    `json:"end_line" xml:"end_line"`
	NodeType       string `json:"node_type" xml:"node_type"`
	Code           string `json:"code" xml:"code"`
	HasParent      bool   `json:"-" xml:"-"`
	ParentNodeType string `json:"parent_node_type,omitempty" xml:"parent_node_type,omitempty"`
	ParentStartLine int   `json:"parent_start_line,omitempty" xml:"parent_start_line,omitempty"`
	ParentEndLine  int    `json:"parent_end_line,omitempty" xml:"parent_end_line,omitempty"`
}

// FromBlock builds a Result from a façade CodeBlock, slicing code out of
// the original file content and converting to 1-based inclusive lines.
func FromBlock(file string, content []byte, b blocks.CodeBlock) Result {
	r := Result{
		File:      file,
		StartLine: b.StartRow + 1,
		EndLine:   b.EndRow + 1,
		NodeType:  b.NodeType,
		Code:      string(content[b.StartByte:b.EndByte]),
		HasParent: b.HasParent,
	}
	if b.HasParent {
		r.ParentNodeType = b.ParentNodeType
		r.ParentStartLine = b.ParentStartRow + 1
		r.ParentEndLine = b.ParentEndRow + 1
	}
	return r
}

// approxTokens matches SPEC_FULL's documented simplification: token
// budgeting approximates tokens as len(code)/4 rather than wiring a real
// tokenizer, since no example repo in the pack provides one.
func approxTokens(s string) int {
	return len(s) / 4
}

// Apply truncates results to fit cfg's result/byte/token budgets,
// preserving ranked order, and reports how many were dropped.
func Apply(results []Result, budgets config.Budgets) (kept []Result, dropped int) {
	bytes, tokens := 0, 0
	for i, r := range results {
		if budgets.MaxResults > 0 && i >= budgets.MaxResults {
			dropped = len(results) - i
			break
		}
		rb := len(r.Code)
		rt := approxTokens(r.Code)
		if budgets.MaxBytes > 0 && bytes+rb > budgets.MaxBytes {
			dropped = len(results) - i
			break
		}
		if budgets.MaxTokens > 0 && tokens+rt > budgets.MaxTokens {
			dropped = len(results) - i
			break
		}
		bytes += rb
		tokens += rt
		kept = append(kept, r)
	}
	return kept, dropped
}

// Format renders results in the named format: "text", "markdown",
// "json", or "xml". Unknown names fall back to "text".
func Format(name string, results []Result) (string, error) {
	switch name {
	case "markdown", "md":
		return Markdown(results), nil
	case "json":
		return JSON(results)
	case "xml":
		return XML(results)
	default:
		return Text(results), nil
	}
}

const (
	ansiBold  = "\033[1m"
	ansiCyan  = "\033[36m"
	ansiReset = "\033[0m"
)

// Text renders results as plain, ANSI-highlighted text, matching the
// teacher's dependency-light internal/display style (raw ANSI codes, no
// terminal library).
func Text(results []Result) string {
	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "%s%s:%d-%d%s %s(%s)%s\n", ansiBold, r.File, r.StartLine, r.EndLine, ansiReset, ansiCyan, r.NodeType, ansiReset)
		if r.HasParent {
			fmt.Fprintf(&sb, "  in %s %d-%d\n", r.ParentNodeType, r.ParentStartLine, r.ParentEndLine)
		}
		sb.WriteString(r.Code)
		if !strings.HasSuffix(r.Code, "\n") {
			sb.WriteByte('\n')
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Markdown renders results as fenced code blocks with a file:line header.
func Markdown(results []Result) string {
	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "### %s:%d-%d (%s)\n\n", r.File, r.StartLine, r.EndLine, r.NodeType)
		if r.HasParent {
			fmt.Fprintf(&sb, "_in %s %d-%d_\n\n", r.ParentNodeType, r.ParentStartLine, r.ParentEndLine)
		}
		sb.WriteString("```\n")
		sb.WriteString(r.Code)
		if !strings.HasSuffix(r.Code, "\n") {
			sb.WriteByte('\n')
		}
		sb.WriteString("```\n\n")
	}
	return sb.String()
}

func JSON(results []Result) (string, error) {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type xmlResults struct {
	XMLName xml.Name `xml:"results"`
	Results []Result `xml:"result"`
}

func XML(results []Result) (string, error) {
	b, err := xml.MarshalIndent(xmlResults{Results: results}, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(b), nil
}
