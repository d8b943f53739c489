// Package presenter renders search results and views as text.
package presenter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/petrarca/techstack-lens/internal/nav"
	"github.com/petrarca/techstack-lens/internal/types"
	"github.com/petrarca/techstack-lens/internal/view"
)

const (
	// SearchHint is shown while the query is empty
	SearchHint = "Start typing to search across all stacks..."

	// CollapsedMarker replaces the items of a collapsed section
	CollapsedMarker = "(collapsed)"
)

// NoResults returns the message for a query without matches
func NoResults(query string) string {
	return `No results found for "` + query + `"`
}

// Presenter writes views and result lists
type Presenter struct {
	styles *Styles
}

// New creates a presenter. Nil styles means plain output.
func New(styles *Styles) *Presenter {
	if styles == nil {
		styles = PlainStyles()
	}
	return &Presenter{styles: styles}
}

// Render writes a numbered result list for query, styled when w is a terminal
func Render(w io.Writer, query string, results []types.SearchResult) {
	New(NewStyles(w)).Results(w, query, results)
}

// Select maps the 1-based result number n to the technology it points at
func Select(results []types.SearchResult, n int) (nav.Target, error) {
	if n < 1 || n > len(results) {
		return nav.Target{}, fmt.Errorf("no result %d (have %d)", n, len(results))
	}
	r := results[n-1]
	return nav.Technology(r.Category, r.TechName), nil
}

// Results writes the result list. Results are expected to be already truncated.
func (p *Presenter) Results(w io.Writer, query string, results []types.SearchResult) {
	s := p.styles
	if query == "" {
		fmt.Fprintln(w, s.Muted(SearchHint))
		return
	}
	if len(results) == 0 {
		fmt.Fprintln(w, NoResults(query))
		return
	}

	width := len(strconv.Itoa(len(results)))
	for i, r := range results {
		fmt.Fprintf(w, "%*d. %s  %s\n", width, i+1, s.Tech(r.TechName), s.Category("["+r.Category+"]"))
		fmt.Fprintf(w, "%*s  %s %s\n", width, "", s.Field(r.MatchField+":"), r.MatchValue)
	}
}

// Home writes the category list
func (p *Presenter) Home(w io.Writer, v view.HomeView) {
	s := p.styles
	fmt.Fprintln(w, s.Title("Categories"))
	for _, c := range v.Categories {
		fmt.Fprintf(w, "\n%s  %s\n", s.Tech(c.Name), s.Muted(fmt.Sprintf("%d technologies listed", c.Count)))
		if c.Description != "" {
			fmt.Fprintf(w, "  %s\n", c.Description)
		}
		preview := strings.Join(c.Preview, ", ")
		if c.More {
			preview += ", + more"
		}
		if preview != "" {
			fmt.Fprintf(w, "  %s\n", preview)
		}
	}
}

// Category writes the technologies of a category
func (p *Presenter) Category(w io.Writer, v view.CategoryView) {
	s := p.styles
	fmt.Fprintln(w, s.Muted(nav.RenderCrumbs(v.Breadcrumbs)))
	fmt.Fprintln(w, s.Title(v.Name))
	if v.Description != "" {
		fmt.Fprintln(w, v.Description)
	}
	for _, t := range v.Technologies {
		fmt.Fprintf(w, "\n%s\n", s.Tech(t.Name))
		if len(t.Includes) > 0 {
			fmt.Fprintf(w, "  %s %s\n", s.Field("Includes:"), strings.Join(t.Includes, ", "))
		}
	}
}

// Detail writes a technology record. collapsed reports whether a section,
// identified by its field name, hides its items. A nil collapsed expands all.
func (p *Presenter) Detail(w io.Writer, v view.DetailView, collapsed func(field string) bool) {
	s := p.styles
	fmt.Fprintln(w, s.Muted(nav.RenderCrumbs(v.Breadcrumbs)))
	fmt.Fprintf(w, "%s  %s\n", s.Title(v.Tech), s.Category(v.Category))
	if v.KnownRisk != "" {
		fmt.Fprintf(w, "\n%s %s\n", s.Risk("Known Risk:"), v.KnownRisk)
	}
	for _, n := range v.Notes {
		fmt.Fprintf(w, "%s %s\n", s.Field(n.Label+":"), n.Text)
	}

	for _, sec := range v.Sections {
		fmt.Fprintf(w, "\n%s %s\n", s.Field(sec.Label), s.Count("("+strconv.Itoa(sec.Count())+")"))
		if collapsed != nil && collapsed(sec.Field) {
			fmt.Fprintf(w, "  %s\n", s.Muted(CollapsedMarker))
			continue
		}
		for _, item := range sec.Items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}

	if len(v.Stats) > 0 {
		fmt.Fprintf(w, "\n%s\n", s.Title("Quick Stats"))
		width := 0
		for _, st := range v.Stats {
			if len(st.Label) > width {
				width = len(st.Label)
			}
		}
		for _, st := range v.Stats {
			fmt.Fprintf(w, "  %-*s %s\n", width, st.Label, s.Count(strconv.Itoa(st.Count)))
		}
	}

	fmt.Fprintf(w, "\n%s\n", s.Muted(v.Tip))
	fmt.Fprintf(w, "%s %s\n", s.Muted("Export:"), v.ExportFileName)
}

// NotFound writes the not-found state of a view
func (p *Presenter) NotFound(w io.Writer, err error) {
	fmt.Fprintln(w, p.styles.Risk(err.Error()))
}
