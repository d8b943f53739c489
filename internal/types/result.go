package types

// SearchResult is one match of a query against a technology name or attribute value
type SearchResult struct {
	Category   string `json:"category" yaml:"category"`
	TechName   string `json:"techName" yaml:"techName"`
	MatchField string `json:"matchField" yaml:"matchField"`
	MatchValue string `json:"matchValue" yaml:"matchValue"`
}
