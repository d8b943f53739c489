// Package search implements case-insensitive substring search over the dataset.
//
// Two implementations return identical results: Scanner walks the whole tree on
// every query, Index answers from rune-bigram postings built once at load time.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/petrarca/techstack-lens/internal/types"
)

const (
	// MinQueryLength is the shortest query, in runes, that produces results
	MinQueryLength = 2

	// MaxResults caps the number of results, first matches in traversal order win
	MaxResults = 20

	// TechnologyField is the match field reported for technology name matches
	TechnologyField = "Technology"
)

// Searcher answers search queries
type Searcher interface {
	Search(query string) []types.SearchResult
}

// New returns an Index when indexed is set and a Scanner otherwise
func New(categories []types.Category, indexed bool) Searcher {
	if indexed {
		return NewIndex(categories)
	}
	return NewScanner(categories)
}

// entry is one searchable string of the dataset
type entry struct {
	category string
	tech     string
	field    string
	value    string
}

func (e entry) result() types.SearchResult {
	return types.SearchResult{
		Category:   e.category,
		TechName:   e.tech,
		MatchField: e.field,
		MatchValue: e.value,
	}
}

// walk visits every searchable string in traversal order until fn returns false.
// Technology names come first, then every value of every list attribute.
// Text attributes are not searchable.
func walk(categories []types.Category, fn func(e entry) bool) {
	for _, cat := range categories {
		for _, tech := range cat.Technologies {
			if !fn(entry{category: cat.Name, tech: tech.Name, field: TechnologyField, value: tech.Name}) {
				return
			}
			for _, attr := range tech.Details.Attributes() {
				if !attr.Value.IsList {
					continue
				}
				label := types.FieldLabel(attr.Name)
				for _, v := range attr.Value.List {
					if !fn(entry{category: cat.Name, tech: tech.Name, field: label, value: v}) {
						return
					}
				}
			}
		}
	}
}

// normalizeQuery lower-cases the query and reports whether it is long enough
func normalizeQuery(query string) (string, bool) {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return "", false
	}
	return strings.ToLower(query), true
}
