// Package query compiles a user's search input and tokenizes it into
// terms the ranker can score against. Out of scope for the core per
// spec.md §1 ("no query-language front end"); grounded on the teacher's
// internal/semantic stemmer/fuzzy_matcher for the stemming/fuzzy-match
// pieces and internal/analysis's go-fAST usage for expression-shaped
// queries.
package query

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/parser"
)

// Query is a compiled, tokenized search input.
type Query struct {
	Raw     string
	Regex   *regexp.Regexp
	Terms   []string // stemmed, lower-cased terms used for ranking/should_include
}

var wordPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// Compile builds a Query from raw input: raw is compiled as a regex
// (case-insensitive) for line matching, and tokenized into stemmed terms
// for ranking. If raw parses as a JavaScript/TypeScript expression (e.g.
// "foo.bar("), its identifier tokens are taken from the AST instead of
// whitespace/regex splitting.
func Compile(raw string) (*Query, error) {
	re, err := regexp.Compile("(?i)" + raw)
	if err != nil {
		return nil, err
	}

	tokens := tokenizeAsExpression(raw)
	if tokens == nil {
		tokens = wordPattern.FindAllString(raw, -1)
	}

	terms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		terms = append(terms, Stem(t))
	}

	return &Query{Raw: raw, Regex: re, Terms: terms}, nil
}

// tokenizeAsExpression returns raw's identifier tokens when it parses as
// a JS/TS expression, or nil when it doesn't (falls back to regex split).
func tokenizeAsExpression(raw string) []string {
	program, err := parser.ParseFile(raw)
	if err != nil || program == nil {
		return nil
	}

	var idents []string
	seen := map[string]bool{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			idents = append(idents, name)
		}
	}

	var visitExpr func(e ast.Expr)
	visit := func(e *ast.Expression) {
		if e != nil && e.Expr != nil {
			visitExpr(e.Expr)
		}
	}
	visitExpr = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.Identifier:
			add(n.Name)
		case *ast.CallExpression:
			visit(n.Callee)
			for _, a := range n.ArgumentList {
				if a.Expr != nil {
					visitExpr(a.Expr)
				}
			}
		case *ast.MemberExpression:
			if n.Property != nil && n.Property.Prop != nil {
				visitExpr(n.Property.Prop)
			}
		}
	}

	for _, stmt := range program.Body {
		if es, ok := stmt.Stmt.(*ast.ExpressionStatement); ok && es.Expression != nil {
			visit(es.Expression)
		}
	}

	if len(idents) == 0 {
		return nil
	}
	return idents
}

// Stem normalizes a term with the Porter2/Snowball stemmer, matching the
// teacher's own choice for its ranking work.
func Stem(term string) string {
	return porter2.Stem(strings.ToLower(term))
}

// StemAll stems every term in terms.
func StemAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = Stem(t)
	}
	return out
}

// FuzzyCandidates returns the entries of candidates whose Jaro-Winkler
// similarity to term meets or exceeds threshold (0..1), for typo-tolerant
// expansion of a query term against known identifiers.
func FuzzyCandidates(term string, candidates []string, threshold float64) []string {
	var out []string
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(term, c, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) >= threshold {
			out = append(out, c)
		}
	}
	return out
}

// MatchingLines returns the 1-based line numbers in content where re
// matches, in ascending order.
func MatchingLines(content []byte, re *regexp.Regexp) []int {
	var lines []int
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	row := 0
	for scanner.Scan() {
		row++
		if re.Match(scanner.Bytes()) {
			lines = append(lines, row)
		}
	}
	return lines
}

// MatchingLinesPerTerm builds the query_index → matched-lines map §6's
// should_include contract needs: one regex per term, each matched
// independently against content.
func MatchingLinesPerTerm(content []byte, terms []*regexp.Regexp) map[int][]int {
	out := make(map[int][]int, len(terms))
	for i, re := range terms {
		out[i] = MatchingLines(content, re)
	}
	return out
}
