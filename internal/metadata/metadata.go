package metadata

import (
	"time"

	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/petrarca/techstack-lens/internal/version"
)

// DatasetMetadata describes a loaded dataset
type DatasetMetadata struct {
	Source        string `json:"source" yaml:"source"`
	FormatVersion string `json:"format_version" yaml:"format_version"` // Version declared by the document
	AppVersion    string `json:"app_version" yaml:"app_version"`
	Timestamp     string `json:"timestamp" yaml:"timestamp"`
	LoadMs        int64  `json:"load_ms,omitempty" yaml:"load_ms,omitempty"`
	Categories    int    `json:"categories" yaml:"categories"`
	Technologies  int    `json:"technologies" yaml:"technologies"`
	Attributes    int    `json:"attributes" yaml:"attributes"`
	ListValues    int    `json:"list_values" yaml:"list_values"`
	SearchIndex   bool   `json:"search_index" yaml:"search_index"`
	IndexEntries  int    `json:"index_entries,omitempty" yaml:"index_entries,omitempty"`
}

// NewDatasetMetadata creates metadata for ds stamped with the current time.
// An undeclared format version is reported as the current one.
func NewDatasetMetadata(ds *catalog.Dataset) *DatasetMetadata {
	stats := ds.Stats()
	formatVersion := ds.Version()
	if formatVersion == "" {
		formatVersion = version.DatasetFormat
	}

	return &DatasetMetadata{
		Source:        ds.Source(),
		FormatVersion: formatVersion,
		AppVersion:    version.App,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Categories:    stats.Categories,
		Technologies:  stats.Technologies,
		Attributes:    stats.Attributes,
		ListValues:    stats.ListValues,
	}
}

// SetLoadDuration sets the dataset load duration in milliseconds
func (m *DatasetMetadata) SetLoadDuration(duration time.Duration) {
	m.LoadMs = duration.Milliseconds()
}

// SetIndex records that searches are served from an index of the given size
func (m *DatasetMetadata) SetIndex(entries int) {
	m.SearchIndex = true
	m.IndexEntries = entries
}
