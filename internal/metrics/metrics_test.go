package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/petrarca/techstack-lens/internal/search"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/categories/{category}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest("GET", "/api/categories/Databases", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	// Labelled by route pattern, not by the requested name
	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/categories/{category}", "200"))
	assert.GreaterOrEqual(t, requestsVal, 1.0)
	assert.Greater(t, testutil.CollectAndCount(httpRequestDuration), 0)
}

func TestMetricsMiddleware_DifferentStatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/notfound", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/error", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		path           string
		expectedStatus string
	}{
		{"/ok", "200"},
		{"/notfound", "404"},
		{"/error", "500"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, tc.expectedStatus))
			assert.GreaterOrEqual(t, val, 1.0, "requests_total for %s with status %s", tc.path, tc.expectedStatus)
		})
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unmatched"},
		{"/*", "unmatched"},
		{"/api/search", "/api/search"},
		{"/api/categories/{category}/techs/{tech}", "/api/categories/{category}/techs/{tech}"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, routeLabel(tc.input))
	}
}

func TestMetricsMiddleware_SkipsOperationalRoutes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("/healthz", "/metrics"))
	for _, path := range []string{"/healthz", "/metrics", "/api/stats"} {
		r.Get(path, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})
	}

	tests := []struct {
		path     string
		recorded bool
	}{
		{"/healthz", false},
		{"/metrics", false},
		{"/api/stats", true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, "200"))

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest("GET", tc.path, http.NoBody))
			require.Equal(t, http.StatusOK, rr.Code)

			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, "200"))
			if tc.recorded {
				assert.Equal(t, before+1, after)
			} else {
				assert.Equal(t, before, after)
			}
		})
	}
}

func TestMetricsMiddleware_UnmatchedRoutes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	for _, path := range []string{"/nope", "/api/nope/deeper"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", path, http.NoBody))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestInstrumentSearcher(t *testing.T) {
	ds, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	s := InstrumentSearcher(search.NewScanner(ds.Categories()), "test")

	hit := testutil.ToFloat64(SearchQueriesTotal.WithLabelValues("test", "hit"))
	miss := testutil.ToFloat64(SearchQueriesTotal.WithLabelValues("test", "miss"))
	short := testutil.ToFloat64(SearchQueriesTotal.WithLabelValues("test", "short"))

	assert.Len(t, s.Search("root"), 9)
	assert.Empty(t, s.Search("xyzzy"))
	assert.Empty(t, s.Search("r"))

	assert.Equal(t, hit+1, testutil.ToFloat64(SearchQueriesTotal.WithLabelValues("test", "hit")))
	assert.Equal(t, miss+1, testutil.ToFloat64(SearchQueriesTotal.WithLabelValues("test", "miss")))
	assert.Equal(t, short+1, testutil.ToFloat64(SearchQueriesTotal.WithLabelValues("test", "short")))
	assert.Greater(t, testutil.CollectAndCount(SearchDuration), 0)
}

func TestObserveDataset(t *testing.T) {
	ds, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	ObserveDataset(ds.Categories())

	assert.Equal(t, 4.0, testutil.ToFloat64(DatasetTechnologies.WithLabelValues("Databases")))
	assert.Equal(t, 9.0, testutil.ToFloat64(DatasetTechnologies.WithLabelValues("AdditionalTechnologies")))
	assert.Equal(t, 6, testutil.CollectAndCount(DatasetTechnologies))
}
