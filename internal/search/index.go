package search

import (
	"sort"
	"strings"

	"github.com/petrarca/techstack-lens/internal/types"
)

// gram is a pair of consecutive lower-cased runes
type gram [2]rune

// Index is an inverted index from rune bigrams to entry positions.
// It is immutable after construction and safe for concurrent use.
type Index struct {
	entries  []entry
	lowered  []string
	postings map[gram][]int
}

// NewIndex builds the index over categories
func NewIndex(categories []types.Category) *Index {
	idx := &Index{postings: make(map[gram][]int)}

	walk(categories, func(e entry) bool {
		pos := len(idx.entries)
		lower := strings.ToLower(e.value)
		idx.entries = append(idx.entries, e)
		idx.lowered = append(idx.lowered, lower)

		for _, g := range grams(lower) {
			idx.postings[g] = append(idx.postings[g], pos)
		}
		return true
	})

	return idx
}

// Len returns the number of indexed entries
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Grams returns the number of distinct bigrams
func (idx *Index) Grams() int {
	return len(idx.postings)
}

// Search returns up to MaxResults matches in traversal order
func (idx *Index) Search(query string) []types.SearchResult {
	q, ok := normalizeQuery(query)
	if !ok {
		return []types.SearchResult{}
	}

	lists := make([][]int, 0, len(q))
	for _, g := range grams(q) {
		list, ok := idx.postings[g]
		if !ok {
			return []types.SearchResult{}
		}
		lists = append(lists, list)
	}

	results := []types.SearchResult{}
	for _, pos := range intersect(lists) {
		if !strings.Contains(idx.lowered[pos], q) {
			continue
		}
		results = append(results, idx.entries[pos].result())
		if len(results) == MaxResults {
			break
		}
	}
	return results
}

// grams returns the distinct bigrams of s in first-seen order
func grams(s string) []gram {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}

	seen := make(map[gram]bool, len(runes)-1)
	out := make([]gram, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		g := gram{runes[i], runes[i+1]}
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}

// intersect merges ascending posting lists, shortest first
func intersect(lists [][]int) []int {
	if len(lists) == 0 {
		return nil
	}
	sort.Slice(lists, func(i, j int) bool { return len(lists[i]) < len(lists[j]) })

	out := lists[0]
	for _, list := range lists[1:] {
		merged := make([]int, 0, len(out))
		i, j := 0, 0
		for i < len(out) && j < len(list) {
			switch {
			case out[i] == list[j]:
				merged = append(merged, out[i])
				i++
				j++
			case out[i] < list[j]:
				i++
			default:
				j++
			}
		}
		out = merged
		if len(out) == 0 {
			break
		}
	}
	return out
}
