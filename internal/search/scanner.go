package search

import (
	"strings"

	"github.com/petrarca/techstack-lens/internal/types"
)

// Scanner rescans the categories on every query
type Scanner struct {
	categories []types.Category
}

// NewScanner creates a scanner over categories
func NewScanner(categories []types.Category) *Scanner {
	return &Scanner{categories: categories}
}

// Search returns up to MaxResults matches in traversal order
func (s *Scanner) Search(query string) []types.SearchResult {
	q, ok := normalizeQuery(query)
	if !ok {
		return []types.SearchResult{}
	}

	results := []types.SearchResult{}
	walk(s.categories, func(e entry) bool {
		if strings.Contains(strings.ToLower(e.value), q) {
			results = append(results, e.result())
		}
		return len(results) < MaxResults
	})
	return results
}
