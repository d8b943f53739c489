package types

// Technology is a named stack component with its attribute record
type Technology struct {
	Name    string  `yaml:"name" json:"name"`
	Details Details `yaml:"details" json:"details"`
}

// Category is a named group of technologies in declaration order
type Category struct {
	Name         string       `yaml:"name" json:"name"`
	Description  string       `yaml:"description,omitempty" json:"description,omitempty"`
	Technologies []Technology `yaml:"technologies" json:"technologies"`
}

// DatasetFile represents the on-disk dataset document
type DatasetFile struct {
	Version    string     `yaml:"version,omitempty" json:"version,omitempty"`
	Categories []Category `yaml:"categories" json:"categories"`
}
