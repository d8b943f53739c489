package nav

// Separator is placed between rendered crumbs
const Separator = " › "

// Crumb is one step of the breadcrumb trail. Location is empty for the current view.
type Crumb struct {
	Label    string `json:"label"`
	Location string `json:"location,omitempty"`
}

// Breadcrumbs returns the trail from home to t
func Breadcrumbs(t Target) []Crumb {
	crumbs := []Crumb{{Label: "Home", Location: Home().Location()}}
	if t.Kind == KindCategory || t.Kind == KindTechnology {
		crumbs = append(crumbs, Crumb{Label: t.Category, Location: Category(t.Category).Location()})
	}
	if t.Kind == KindTechnology {
		crumbs = append(crumbs, Crumb{Label: t.Tech})
	}
	crumbs[len(crumbs)-1].Location = ""
	return crumbs
}

// RenderCrumbs joins crumb labels with Separator
func RenderCrumbs(crumbs []Crumb) string {
	var out string
	for i, c := range crumbs {
		if i > 0 {
			out += Separator
		}
		out += c.Label
	}
	return out
}
