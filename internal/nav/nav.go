// Package nav maps between browser views and their addressable locations.
package nav

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind identifies one of the three views
type Kind int

const (
	KindHome Kind = iota
	KindCategory
	KindTechnology
)

func (k Kind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindCategory:
		return "category"
	case KindTechnology:
		return "technology"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Target is a view together with the names it needs
type Target struct {
	Kind     Kind   `json:"kind"`
	Category string `json:"category,omitempty"`
	Tech     string `json:"tech,omitempty"`
}

// Home returns the home view target
func Home() Target {
	return Target{Kind: KindHome}
}

// Category returns the target of a category view
func Category(category string) Target {
	return Target{Kind: KindCategory, Category: category}
}

// Technology returns the target of a technology details view
func Technology(category, tech string) Target {
	return Target{Kind: KindTechnology, Category: category, Tech: tech}
}

// Location returns the address of the view, e.g. /category/Databases/tech/Redis
func (t Target) Location() string {
	switch t.Kind {
	case KindCategory:
		return "/category/" + Escape(t.Category)
	case KindTechnology:
		return "/category/" + Escape(t.Category) + "/tech/" + Escape(t.Tech)
	}
	return "/"
}

func (t Target) String() string {
	return t.Location()
}

// Parse maps a location back to its target
func Parse(location string) (Target, error) {
	if location == "" || location == "/" {
		return Home(), nil
	}
	if !strings.HasPrefix(location, "/") {
		return Target{}, fmt.Errorf("invalid location %q: must start with /", location)
	}

	parts := strings.Split(strings.TrimSuffix(location[1:], "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "category":
		cat, err := unescapePart(location, parts[1])
		if err != nil {
			return Target{}, err
		}
		return Category(cat), nil

	case len(parts) == 4 && parts[0] == "category" && parts[2] == "tech":
		cat, err := unescapePart(location, parts[1])
		if err != nil {
			return Target{}, err
		}
		tech, err := unescapePart(location, parts[3])
		if err != nil {
			return Target{}, err
		}
		return Technology(cat, tech), nil
	}

	return Target{}, fmt.Errorf("unknown location %q", location)
}

func unescapePart(location, part string) (string, error) {
	if part == "" {
		return "", fmt.Errorf("invalid location %q: empty name", location)
	}
	name, err := Unescape(part)
	if err != nil {
		return "", fmt.Errorf("invalid location %q: %w", location, err)
	}
	return name, nil
}

// Escape makes a name safe to use as one location segment
func Escape(name string) string {
	return url.PathEscape(name)
}

// Unescape reverses Escape
func Unescape(segment string) (string, error) {
	return url.PathUnescape(segment)
}
