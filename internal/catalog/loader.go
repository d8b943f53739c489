package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/petrarca/techstack-lens/internal/progress"
	"github.com/petrarca/techstack-lens/internal/types"
	"github.com/petrarca/techstack-lens/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed data/techstack.yaml
var embeddedDataset []byte

// EmbeddedSource is the source name reported for the built-in dataset
const EmbeddedSource = "embedded:techstack.yaml"

// Loader reads dataset documents and builds a Dataset from them
type Loader struct {
	progress *progress.Progress
}

// NewLoader creates a loader that reports to p. A nil p reports nothing.
func NewLoader(p *progress.Progress) *Loader {
	if p == nil {
		p = progress.Disabled()
	}
	return &Loader{progress: p}
}

// LoadEmbedded loads the built-in dataset without progress reporting
func LoadEmbedded() (*Dataset, error) {
	return NewLoader(nil).Load("")
}

// EmbeddedContent returns the raw built-in dataset document
func EmbeddedContent() []byte {
	return embeddedDataset
}

// Load loads the dataset at path, or the built-in dataset when path is empty
func (l *Loader) Load(path string) (*Dataset, error) {
	if path == "" {
		return l.Parse(EmbeddedSource, embeddedDataset)
	}
	return l.LoadFile(path)
}

// LoadFile loads an external YAML or JSON dataset file
func (l *Loader) LoadFile(path string) (*Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}
	return l.Parse(path, content)
}

// Parse validates and decodes a dataset document. source names the document in errors.
func (l *Loader) Parse(source string, content []byte) (*Dataset, error) {
	start := time.Now()
	l.progress.LoadStart(source)

	if err := validation.ValidateDataset(content); err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", source, err)
	}

	var file types.DatasetFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", source, err)
	}

	ds, err := New(source, file.Version, file.Categories)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", source, err)
	}

	for _, cat := range ds.categories {
		l.progress.CategoryLoaded(cat.Name, len(cat.Technologies))
	}
	stats := ds.Stats()
	l.progress.LoadComplete(source, stats.Categories, stats.Technologies, time.Since(start))

	return ds, nil
}
