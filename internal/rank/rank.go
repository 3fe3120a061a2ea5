// Package rank scores and filters the core's extracted blocks. Out of
// scope for the core per spec.md §1/§6 ("BM25 ranking over extracted
// blocks... thin or well-understood; rewriting them is uninteresting").
// Grounded on the teacher's internal/search ranking/BM25 shape, narrowed
// to operate on blockscan's []blocks.CodeBlock rather than a persisted
// index.
package rank

import (
	"math"
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/blockscan/internal/blocks"
)

// ScoredBlock pairs a CodeBlock with its BM25(+fuzzy bonus) score.
type ScoredBlock struct {
	blocks.CodeBlock
	Score float64
}

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// BM25 scores each block against terms (already stemmed by
// internal/query), using term frequency within the block's own text and
// inverse document frequency across all blocks, with go-edlib's
// Jaro-Winkler similarity contributing a small bonus for near-miss
// identifier terms found in the block but not an exact stem match.
func BM25(blockList []blocks.CodeBlock, content []byte, terms []string) []ScoredBlock {
	if len(blockList) == 0 || len(terms) == 0 {
		return nil
	}

	docs := make([][]string, len(blockList))
	totalLen := 0
	for i, b := range blockList {
		docs[i] = tokenize(content[b.StartByte:b.EndByte])
		totalLen += len(docs[i])
	}
	avgLen := float64(totalLen) / float64(len(blockList))

	df := make(map[string]int, len(terms))
	for _, term := range terms {
		for _, doc := range docs {
			if containsTerm(doc, term) {
				df[term]++
			}
		}
	}

	n := float64(len(blockList))
	out := make([]ScoredBlock, len(blockList))
	for i, b := range blockList {
		doc := docs[i]
		score := 0.0
		for _, term := range terms {
			tf := float64(termFrequency(doc, term))
			idf := math.Log(1 + (n-float64(df[term])+0.5)/(float64(df[term])+0.5))
			denom := tf + bm25K1*(1-bm25B+bm25B*float64(len(doc))/avgLen)
			if denom > 0 {
				score += idf * tf * (bm25K1 + 1) / denom
			}
			score += fuzzyBonus(term, doc)
		}
		out[i] = ScoredBlock{CodeBlock: b, Score: score}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func fuzzyBonus(term string, doc []string) float64 {
	best := 0.0
	for _, word := range doc {
		if word == term {
			continue
		}
		score, err := edlib.StringsSimilarity(term, word, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) > best {
			best = float64(score)
		}
	}
	if best >= 0.9 {
		return 0.1 * best
	}
	return 0
}

func termFrequency(doc []string, term string) int {
	count := 0
	for _, w := range doc {
		if w == term {
			count++
		}
	}
	return count
}

func containsTerm(doc []string, term string) bool {
	for _, w := range doc {
		if w == term {
			return true
		}
	}
	return false
}

func tokenize(content []byte) []string {
	var words []string
	start := -1
	isWord := func(b byte) bool {
		return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
	}
	for i := 0; i <= len(content); i++ {
		if i < len(content) && isWord(content[i]) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			words = append(words, string(lower(content[start:i])))
			start = -1
		}
	}
	return words
}

func lower(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}

// ShouldInclude implements spec §6's should_include block filter:
// all-terms mode requires every query index to be matched either inside
// the block's line range or via a filename match; any-term mode
// requires at least one in-range match (filename matches do not count,
// preserving precision).
func ShouldInclude(blockStartRow, blockEndRow int, termMatches map[int][]int, anyTerm bool, numQueries int, filenameMatches map[int]bool) bool {
	inRange := func(lines []int) bool {
		for _, l := range lines {
			if l-1 >= blockStartRow && l-1 <= blockEndRow {
				return true
			}
		}
		return false
	}

	if anyTerm {
		for q := 0; q < numQueries; q++ {
			if inRange(termMatches[q]) {
				return true
			}
		}
		return false
	}

	for q := 0; q < numQueries; q++ {
		if inRange(termMatches[q]) || filenameMatches[q] {
			continue
		}
		return false
	}
	return true
}
