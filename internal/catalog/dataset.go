package catalog

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/petrarca/techstack-lens/internal/types"
	"github.com/petrarca/techstack-lens/internal/version"
)

// Dataset is the immutable, loaded category tree.
// It is safe for concurrent reads. Callers must not modify returned slices.
type Dataset struct {
	source     string
	version    string
	categories []types.Category
	byName     map[string]int
	techs      []map[string]int
}

// Stats holds dataset totals
type Stats struct {
	Categories   int `json:"categories" yaml:"categories"`
	Technologies int `json:"technologies" yaml:"technologies"`
	Attributes   int `json:"attributes" yaml:"attributes"`
	ListValues   int `json:"list_values" yaml:"list_values"`
}

// New builds a dataset from categories, checking names for presence and uniqueness
func New(source, formatVersion string, categories []types.Category) (*Dataset, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("dataset has no categories")
	}
	if formatVersion == "" {
		formatVersion = version.DatasetFormat
	}

	ds := &Dataset{
		source:     source,
		version:    formatVersion,
		categories: categories,
		byName:     make(map[string]int, len(categories)),
		techs:      make([]map[string]int, len(categories)),
	}

	for i, cat := range categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("category %d: name is required", i)
		}
		if _, dup := ds.byName[cat.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		ds.byName[cat.Name] = i

		names := make(map[string]int, len(cat.Technologies))
		for j, tech := range cat.Technologies {
			if strings.TrimSpace(tech.Name) == "" {
				return nil, fmt.Errorf("category %q: technology %d: name is required", cat.Name, j)
			}
			if _, dup := names[tech.Name]; dup {
				return nil, fmt.Errorf("category %q: duplicate technology %q", cat.Name, tech.Name)
			}
			names[tech.Name] = j
		}
		ds.techs[i] = names
	}

	return ds, nil
}

// Source returns where the dataset was loaded from
func (d *Dataset) Source() string { return d.source }

// Version returns the dataset format version
func (d *Dataset) Version() string { return d.version }

// Categories returns all categories in declaration order
func (d *Dataset) Categories() []types.Category {
	return d.categories
}

// CategoryNames returns the category names in declaration order
func (d *Dataset) CategoryNames() []string {
	names := make([]string, len(d.categories))
	for i, cat := range d.categories {
		names[i] = cat.Name
	}
	return names
}

// Category looks up a category by its exact name
func (d *Dataset) Category(name string) (types.Category, error) {
	i, ok := d.byName[name]
	if !ok {
		return types.Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	return d.categories[i], nil
}

// Technologies returns the technologies of a category in declaration order
func (d *Dataset) Technologies(category string) ([]types.Technology, error) {
	cat, err := d.Category(category)
	if err != nil {
		return nil, err
	}
	return cat.Technologies, nil
}

// Technology looks up a technology by category and technology name
func (d *Dataset) Technology(category, tech string) (types.Technology, error) {
	i, ok := d.byName[category]
	if !ok {
		return types.Technology{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	j, ok := d.techs[i][tech]
	if !ok {
		return types.Technology{}, fmt.Errorf("%w: %s in category %s", ErrTechnologyNotFound, tech, category)
	}
	return d.categories[i].Technologies[j], nil
}

// Select returns the categories whose names match any of the glob patterns,
// in declaration order. No patterns selects every category.
func (d *Dataset) Select(patterns []string) ([]types.Category, error) {
	if len(patterns) == 0 {
		return d.categories, nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid category pattern %q", p)
		}
	}

	var selected []types.Category
	for _, cat := range d.categories {
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, cat.Name); ok {
				selected = append(selected, cat)
				break
			}
		}
	}
	return selected, nil
}

// Stats counts categories, technologies, attributes and list values
func (d *Dataset) Stats() Stats {
	var s Stats
	s.Categories = len(d.categories)
	for _, cat := range d.categories {
		s.Technologies += len(cat.Technologies)
		for _, tech := range cat.Technologies {
			for _, attr := range tech.Details.Attributes() {
				s.Attributes++
				if attr.Value.IsList {
					s.ListValues += len(attr.Value.List)
				}
			}
		}
	}
	return s
}
