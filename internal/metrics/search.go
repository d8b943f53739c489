package metrics

import (
	"time"

	"github.com/petrarca/techstack-lens/internal/search"
	"github.com/petrarca/techstack-lens/internal/types"
	"github.com/prometheus/client_golang/prometheus"
)

// Search and dataset Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_queries_total",
			Help:      "Total number of search queries",
		},
		[]string{"searcher", "outcome"}, // outcome: "hit" / "miss" / "short"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"searcher"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 15, search.MaxResults},
		},
		[]string{"searcher"},
	)

	DatasetTechnologies = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "dataset_technologies",
			Help:      "Number of technologies per category in the loaded dataset",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(DatasetTechnologies)
}

// ObserveDataset publishes the technology count of every category
func ObserveDataset(categories []types.Category) {
	DatasetTechnologies.Reset()
	for _, cat := range categories {
		DatasetTechnologies.WithLabelValues(cat.Name).Set(float64(len(cat.Technologies)))
	}
}

// InstrumentedSearcher records query metrics around another searcher
type InstrumentedSearcher struct {
	next search.Searcher
	name string
}

// InstrumentSearcher wraps next; name labels its metrics, e.g. "scanner" or "index"
func InstrumentSearcher(next search.Searcher, name string) *InstrumentedSearcher {
	return &InstrumentedSearcher{next: next, name: name}
}

// Search delegates to the wrapped searcher
func (s *InstrumentedSearcher) Search(query string) []types.SearchResult {
	start := time.Now()
	results := s.next.Search(query)
	SearchDuration.WithLabelValues(s.name).Observe(time.Since(start).Seconds())
	SearchResults.WithLabelValues(s.name).Observe(float64(len(results)))

	outcome := "hit"
	switch {
	case len([]rune(query)) < search.MinQueryLength:
		outcome = "short"
	case len(results) == 0:
		outcome = "miss"
	}
	SearchQueriesTotal.WithLabelValues(s.name, outcome).Inc()
	return results
}
