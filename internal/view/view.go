// Package view builds the display models of the home, category and detail views.
package view

import (
	"fmt"

	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/petrarca/techstack-lens/internal/nav"
	"github.com/petrarca/techstack-lens/internal/types"
)

const (
	// HomePreview is the number of technology names shown per category on the home view
	HomePreview = 3

	// IncludesPreview is the number of attribute labels shown per technology on the category view
	IncludesPreview = 4
)

// CategorySummary is one category card of the home view
type CategorySummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Count       int      `json:"count"`
	Preview     []string `json:"preview"`
	More        bool     `json:"more"`
	Location    string   `json:"location"`
}

// HomeView lists every category in declaration order
type HomeView struct {
	Categories []CategorySummary `json:"categories"`
}

// TechSummary is one technology card of the category view
type TechSummary struct {
	Name     string   `json:"name"`
	Includes []string `json:"includes"`
	Location string   `json:"location"`
}

// CategoryView lists the technologies of one category
type CategoryView struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Technologies []TechSummary `json:"technologies"`
	Breadcrumbs  []nav.Crumb   `json:"breadcrumbs"`
}

// Section is a non-empty list attribute of the detail view
type Section struct {
	Field string   `json:"field"`
	Label string   `json:"label"`
	Items []string `json:"items"`
}

// Count returns the number of items in the section
func (s Section) Count() int {
	return len(s.Items)
}

// Stat is a quick-stats line: the item count of a list attribute
type Stat struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Note is a text attribute other than KnownRisk
type Note struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// DetailView is the full record of one technology
type DetailView struct {
	Category       string      `json:"category"`
	Tech           string      `json:"tech"`
	KnownRisk      string      `json:"known_risk,omitempty"`
	Sections       []Section   `json:"sections"`
	Stats          []Stat      `json:"stats"`
	Notes          []Note      `json:"notes,omitempty"`
	Tip            string      `json:"tip"`
	ExportFileName string      `json:"export_file_name"`
	Breadcrumbs    []nav.Crumb `json:"breadcrumbs"`
}

// Home builds the home view
func Home(ds *catalog.Dataset) HomeView {
	var v HomeView
	for _, cat := range ds.Categories() {
		summary := CategorySummary{
			Name:        cat.Name,
			Description: cat.Description,
			Count:       len(cat.Technologies),
			Preview:     []string{},
			More:        len(cat.Technologies) > HomePreview,
			Location:    nav.Category(cat.Name).Location(),
		}
		for i, tech := range cat.Technologies {
			if i == HomePreview {
				break
			}
			summary.Preview = append(summary.Preview, tech.Name)
		}
		v.Categories = append(v.Categories, summary)
	}
	return v
}

// Category builds the view of the named category
func Category(ds *catalog.Dataset, name string) (CategoryView, error) {
	cat, err := ds.Category(name)
	if err != nil {
		return CategoryView{}, err
	}

	v := CategoryView{
		Name:         cat.Name,
		Description:  cat.Description,
		Technologies: []TechSummary{},
		Breadcrumbs:  nav.Breadcrumbs(nav.Category(cat.Name)),
	}
	for _, tech := range cat.Technologies {
		includes := []string{}
		for i, key := range tech.Details.Keys() {
			if i == IncludesPreview {
				break
			}
			includes = append(includes, types.FieldLabel(key))
		}
		v.Technologies = append(v.Technologies, TechSummary{
			Name:     tech.Name,
			Includes: includes,
			Location: nav.Technology(cat.Name, tech.Name).Location(),
		})
	}
	return v, nil
}

// Detail builds the detail view of a technology
func Detail(ds *catalog.Dataset, category, tech string) (DetailView, error) {
	t, err := ds.Technology(category, tech)
	if err != nil {
		return DetailView{}, err
	}

	v := DetailView{
		Category:       category,
		Tech:           t.Name,
		KnownRisk:      t.Details.KnownRisk,
		Sections:       []Section{},
		Stats:          []Stat{},
		Tip:            fmt.Sprintf("Understanding the directory structure and default configuration files of %s is crucial for both security auditing and operational maintenance.", t.Name),
		ExportFileName: catalog.ExportFileName(t.Name),
		Breadcrumbs:    nav.Breadcrumbs(nav.Technology(category, t.Name)),
	}

	for _, attr := range t.Details.Attributes() {
		label := types.FieldLabel(attr.Name)
		if !attr.Value.IsList {
			if !types.IsKnownField(attr.Name) {
				v.Notes = append(v.Notes, Note{Label: label, Text: attr.Value.Text})
			}
			continue
		}

		v.Stats = append(v.Stats, Stat{Label: label, Count: len(attr.Value.List)})
		if len(attr.Value.List) > 0 {
			v.Sections = append(v.Sections, Section{Field: attr.Name, Label: label, Items: attr.Value.List})
		}
	}
	return v, nil
}

// Section returns the section with the given field name or label
func (v DetailView) Section(name string) (Section, bool) {
	for _, s := range v.Sections {
		if s.Field == name || s.Label == name {
			return s, true
		}
	}
	return Section{}, false
}
