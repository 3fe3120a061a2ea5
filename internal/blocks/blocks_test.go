package blocks

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/blockscan/internal/linemap"
)

// TestScenarioE_PriorityOverContainment covers spec §8 Scenario E: a
// compilation_unit (rows 0-49) and a function_declaration (rows 9-19) both
// cover line 15; the function_declaration wins by priority and the
// compilation_unit is dropped by containment-plus-priority.
func TestScenarioE_PriorityOverContainment(t *testing.T) {
	// Exercises the dedup pass directly against a pre-built emission list,
	// mirroring the two candidates a query against line 15 would have
	// produced (one entry per competing node, per spec §8 Scenario E).
	compilationUnit := CodeBlock{StartRow: 0, EndRow: 49, NodeType: "compilation_unit"}
	functionDecl := CodeBlock{StartRow: 9, EndRow: 19, NodeType: "function_declaration"}

	result := dedupeOverlaps([]CodeBlock{compilationUnit, functionDecl})
	require.Len(t, result, 1)
	require.Equal(t, "function_declaration", result[0].NodeType)

	// With a global_attribute (priority 10, highest) also covering the same
	// span as function_declaration, it replaces the winner.
	globalAttr := CodeBlock{StartRow: 9, EndRow: 19, NodeType: "global_attribute"}
	result = dedupeOverlaps([]CodeBlock{compilationUnit, functionDecl, globalAttr})
	require.Len(t, result, 1)
	require.Equal(t, "global_attribute", result[0].NodeType)
}

func TestPartialOverlapDropsIncoming(t *testing.T) {
	a := CodeBlock{StartRow: 0, EndRow: 10, NodeType: "function_declaration"}
	b := CodeBlock{StartRow: 5, EndRow: 15, NodeType: "method_declaration"}

	result := dedupeOverlaps([]CodeBlock{a, b})
	require.Len(t, result, 1)
	require.Equal(t, "function_declaration", result[0].NodeType)
}

func TestImportantKindsSurviveContainment(t *testing.T) {
	// outer is an unrecognized, non-important kind; inner is an important
	// kind fully contained within it. Per spec §4.4's containment table,
	// "important wins" when only one side is important: both survive.
	outer := CodeBlock{StartRow: 0, EndRow: 20, NodeType: "some_unknown_block"}
	inner := CodeBlock{StartRow: 5, EndRow: 10, NodeType: "function_declaration"}

	result := dedupeOverlaps([]CodeBlock{outer, inner})
	require.Len(t, result, 2)
}

func TestContainmentBothImportantUsesPriority(t *testing.T) {
	// When both sides are important, priority still breaks the tie rather
	// than keeping both (important only protects against an unimportant
	// competitor).
	outer := CodeBlock{StartRow: 0, EndRow: 20, NodeType: "compilation_unit"}
	inner := CodeBlock{StartRow: 5, EndRow: 10, NodeType: "function_declaration"}

	result := dedupeOverlaps([]CodeBlock{outer, inner})
	require.Len(t, result, 1)
	require.Equal(t, "function_declaration", result[0].NodeType)
}

func TestNoPartialOverlapInvariant(t *testing.T) {
	blocks := []CodeBlock{
		{StartRow: 0, EndRow: 5, NodeType: "function_declaration"},
		{StartRow: 3, EndRow: 8, NodeType: "method_declaration"},
		{StartRow: 20, EndRow: 25, NodeType: "struct_item"},
	}
	result := dedupeOverlaps(blocks)
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			a, b := result[i], result[j]
			disjoint := a.EndRow < b.StartRow || b.EndRow < a.StartRow
			oneContainsOther := contains(a, b) || contains(b, a)
			require.True(t, disjoint || oneContainsOther, "blocks %v and %v partially overlap", a, b)
		}
	}
}

func TestExtractSortsByStartRow(t *testing.T) {
	lineMap := map[int]linemap.CachedNodeInfo{
		9: {StartRow: 9, EndRow: 9, NodeKind: "function_declaration", OriginalNodeIsAcceptable: true},
		1: {StartRow: 1, EndRow: 1, NodeKind: "function_declaration", OriginalNodeIsAcceptable: true},
		5: {StartRow: 5, EndRow: 5, NodeKind: "function_declaration", OriginalNodeIsAcceptable: true},
	}
	e := NewExtractor()
	result := e.Extract(lineMap, []int{10, 2, 6}, true)
	require.Len(t, result, 3)
	require.Equal(t, 1, result[0].StartRow)
	require.Equal(t, 5, result[1].StartRow)
	require.Equal(t, 9, result[2].StartRow)
}

func TestExtractSkipsOutOfBoundsLine(t *testing.T) {
	lineMap := map[int]linemap.CachedNodeInfo{
		0: {StartRow: 0, EndRow: 0, NodeKind: "function_declaration", OriginalNodeIsAcceptable: true},
	}
	e := NewExtractor()
	result := e.Extract(lineMap, []int{1, 1000}, true)
	require.Len(t, result, 1)
}

func TestExtractDropsTestNodeWhenDisallowed(t *testing.T) {
	lineMap := map[int]linemap.CachedNodeInfo{
		3: {StartRow: 0, EndRow: 5, NodeKind: "function_item", IsTest: true, OriginalNodeIsAcceptable: true},
	}
	e := NewExtractor()

	result := e.Extract(lineMap, []int{4}, false)
	require.Empty(t, result)

	result = e.Extract(lineMap, []int{4}, true)
	require.Len(t, result, 1)
}

func TestExtractDropsCandidateWhenContextIsTest(t *testing.T) {
	// A non-acceptable leaf node whose nearest acceptable ancestor is a test
	// function: the candidate must be dropped, not substituted by the raw
	// leaf node (spec §7's test-node exclusion).
	lineMap := map[int]linemap.CachedNodeInfo{
		4: {
			StartRow: 4, EndRow: 4, NodeKind: "identifier",
			HasContext: true, ContextStartRow: 3, ContextEndRow: 6,
			ContextNodeKind: "function_item", ContextNodeIsTest: true,
		},
	}
	e := NewExtractor()

	result := e.Extract(lineMap, []int{5}, false)
	require.Empty(t, result)

	result = e.Extract(lineMap, []int{5}, true)
	require.Len(t, result, 1)
	require.Equal(t, "function_item", result[0].NodeType)
}

func TestCommentMergesWithContext(t *testing.T) {
	lineMap := map[int]linemap.CachedNodeInfo{
		2: {
			StartRow: 2, EndRow: 2, StartByte: 20, EndByte: 40, NodeKind: "comment",
			IsComment: true, HasContext: true,
			ContextStartRow: 3, ContextEndRow: 6, ContextStartByte: 41, ContextEndByte: 100,
			ContextNodeKind: "type_declaration",
		},
	}
	e := NewExtractor()
	result := e.Extract(lineMap, []int{3}, true)
	require.Len(t, result, 1)
	require.Equal(t, "type_declaration", result[0].NodeType)
	require.Equal(t, 2, result[0].StartRow)
	require.Equal(t, 6, result[0].EndRow)
	require.Equal(t, 20, result[0].StartByte)
	require.Equal(t, 100, result[0].EndByte)
}

func TestAttachLeadingCommentAbsorbsContiguousRun(t *testing.T) {
	lineMap := map[int]linemap.CachedNodeInfo{
		2: {
			StartRow: 2, EndRow: 2, StartByte: 10, EndByte: 20, NodeKind: "comment",
			IsComment: true, HasContext: true,
			ContextStartRow: 4, ContextEndRow: 6, ContextNodeKind: "type_declaration",
		},
		3: {
			StartRow: 3, EndRow: 3, StartByte: 30, EndByte: 40, NodeKind: "comment",
			IsComment: true, HasContext: true,
			ContextStartRow: 4, ContextEndRow: 6, ContextNodeKind: "type_declaration",
		},
	}
	b := CodeBlock{StartRow: 4, EndRow: 6, StartByte: 50, EndByte: 90, NodeType: "type_declaration"}

	got := attachLeadingComment(lineMap, b, true)
	require.Equal(t, 2, got.StartRow)
	require.Equal(t, 6, got.EndRow)
	require.Equal(t, 10, got.StartByte)
}

func TestAttachLeadingCommentStopsAtUnboundComment(t *testing.T) {
	lineMap := map[int]linemap.CachedNodeInfo{
		// A comment immediately above the block, but bound to a different
		// declaration entirely — must not be absorbed.
		3: {
			StartRow: 3, EndRow: 3, NodeKind: "comment",
			IsComment: true, HasContext: true,
			ContextStartRow: 10, ContextEndRow: 12, ContextNodeKind: "function_declaration",
		},
	}
	b := CodeBlock{StartRow: 4, EndRow: 6, NodeType: "type_declaration"}
	got := attachLeadingComment(lineMap, b, true)
	require.Equal(t, 4, got.StartRow)
}

func TestAttachLeadingCommentRespectsTestExclusion(t *testing.T) {
	lineMap := map[int]linemap.CachedNodeInfo{
		2: {
			StartRow: 2, EndRow: 2, NodeKind: "comment",
			IsComment: true, HasContext: true,
			ContextStartRow: 4, ContextEndRow: 6, ContextNodeKind: "function_item",
			ContextNodeIsTest: true,
		},
	}
	b := CodeBlock{StartRow: 4, EndRow: 6, NodeType: "function_item"}

	got := attachLeadingComment(lineMap, b, false)
	require.Equal(t, 4, got.StartRow, "a test-bound comment must not be absorbed when tests are excluded")

	got = attachLeadingComment(lineMap, b, true)
	require.Equal(t, 2, got.StartRow)
}
