// Package browser holds the state of an interactive browsing session and the
// line-mode shell that drives it.
package browser

import (
	"fmt"

	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/petrarca/techstack-lens/internal/nav"
	"github.com/petrarca/techstack-lens/internal/presenter"
	"github.com/petrarca/techstack-lens/internal/search"
	"github.com/petrarca/techstack-lens/internal/types"
	"github.com/petrarca/techstack-lens/internal/view"
)

// Session is the browsing state: the current view, the history, the search
// surface with its query, and the collapse flags of the current detail view.
// State changes only through the methods below.
type Session struct {
	ds       *catalog.Dataset
	searcher search.Searcher

	current nav.Target
	history []nav.Target

	searchOpen bool
	query      string
	results    []types.SearchResult

	collapsed map[string]bool
}

// NewSession starts a session on the home view
func NewSession(ds *catalog.Dataset, searcher search.Searcher) *Session {
	if searcher == nil {
		searcher = search.NewScanner(ds.Categories())
	}
	return &Session{
		ds:        ds,
		searcher:  searcher,
		current:   nav.Home(),
		collapsed: make(map[string]bool),
	}
}

// Dataset returns the dataset being browsed
func (s *Session) Dataset() *catalog.Dataset {
	return s.ds
}

// Current returns the current view target
func (s *Session) Current() nav.Target {
	return s.current
}

// Navigate moves to t if it exists. Collapse flags reset on every move.
func (s *Session) Navigate(t nav.Target) error {
	if err := s.check(t); err != nil {
		return err
	}
	if t != s.current {
		s.history = append(s.history, s.current)
	}
	s.current = t
	s.collapsed = make(map[string]bool)
	return nil
}

// Open navigates to a location such as /category/Databases
func (s *Session) Open(location string) error {
	t, err := nav.Parse(location)
	if err != nil {
		return err
	}
	return s.Navigate(t)
}

// Back returns to the previous view. It reports false when there is none.
func (s *Session) Back() bool {
	if len(s.history) == 0 {
		return false
	}
	s.current = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.collapsed = make(map[string]bool)
	return true
}

func (s *Session) check(t nav.Target) error {
	switch t.Kind {
	case nav.KindCategory:
		_, err := s.ds.Category(t.Category)
		return err
	case nav.KindTechnology:
		_, err := s.ds.Technology(t.Category, t.Tech)
		return err
	}
	return nil
}

// SearchOpen reports whether the search surface is open
func (s *Session) SearchOpen() bool {
	return s.searchOpen
}

// OpenSearch opens the search surface
func (s *Session) OpenSearch() {
	s.searchOpen = true
}

// CloseSearch closes the search surface and clears its query
func (s *Session) CloseSearch() {
	s.searchOpen = false
	s.query = ""
	s.results = nil
}

// ToggleSearch flips the search surface and reports whether it is now open
func (s *Session) ToggleSearch() bool {
	if s.searchOpen {
		s.CloseSearch()
	} else {
		s.OpenSearch()
	}
	return s.searchOpen
}

// SetQuery opens the search surface if needed and runs query
func (s *Session) SetQuery(query string) []types.SearchResult {
	s.searchOpen = true
	s.query = query
	s.results = s.searcher.Search(query)
	return s.results
}

// Query returns the current search query
func (s *Session) Query() string {
	return s.query
}

// Results returns the results of the current query
func (s *Session) Results() []types.SearchResult {
	return s.results
}

// Pick navigates to the technology of the n-th result (1-based) and closes the search surface
func (s *Session) Pick(n int) (nav.Target, error) {
	if !s.searchOpen {
		return nav.Target{}, fmt.Errorf("search is not open")
	}
	t, err := presenter.Select(s.results, n)
	if err != nil {
		return nav.Target{}, err
	}
	if err := s.Navigate(t); err != nil {
		return nav.Target{}, err
	}
	s.CloseSearch()
	return t, nil
}

// ToggleSection flips the collapse flag of a detail section given by field
// name or label, and reports whether it is now collapsed
func (s *Session) ToggleSection(name string) (bool, error) {
	if s.current.Kind != nav.KindTechnology {
		return false, fmt.Errorf("sections exist only on technology views")
	}
	v, err := view.Detail(s.ds, s.current.Category, s.current.Tech)
	if err != nil {
		return false, err
	}
	sec, ok := v.Section(name)
	if !ok {
		return false, fmt.Errorf("no section %q", name)
	}
	s.collapsed[sec.Field] = !s.collapsed[sec.Field]
	return s.collapsed[sec.Field], nil
}

// IsCollapsed reports whether the section with the given field name is collapsed
func (s *Session) IsCollapsed(field string) bool {
	return s.collapsed[field]
}
