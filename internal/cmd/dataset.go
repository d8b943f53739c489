package cmd

import (
	"time"

	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/petrarca/techstack-lens/internal/search"
	"github.com/petrarca/techstack-lens/internal/types"
)

// loadDataset loads the configured dataset, the built-in one by default
func loadDataset() (*catalog.Dataset, error) {
	start := time.Now()
	ds, err := catalog.NewLoader(reporter).Load(settings.Dataset)
	if err != nil {
		logger.Error("Failed to load dataset", "dataset", settings.Dataset, "error", err)
		return nil, err
	}

	logger.Debug("Dataset loaded",
		"source", ds.Source(),
		"categories", len(ds.Categories()),
		"duration", time.Since(start))
	return ds, nil
}

// newSearcher returns the searcher selected by the settings over categories
func newSearcher(categories []types.Category) search.Searcher {
	if !settings.SearchIndex {
		return search.NewScanner(categories)
	}

	start := time.Now()
	idx := search.NewIndex(categories)
	reporter.IndexBuilt(idx.Len(), time.Since(start))
	return idx
}

// searcherName labels the searcher selected by the settings in metrics and logs
func searcherName() string {
	if settings.SearchIndex {
		return "index"
	}
	return "scanner"
}
