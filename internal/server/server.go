// Package server exposes the dataset as a read-only JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/petrarca/techstack-lens/internal/metrics"
	"github.com/petrarca/techstack-lens/internal/nav"
	"github.com/petrarca/techstack-lens/internal/search"
	"github.com/petrarca/techstack-lens/internal/types"
	"github.com/petrarca/techstack-lens/internal/version"
	"github.com/petrarca/techstack-lens/internal/view"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 10 * time.Second

// Error codes of ErrorResponse
const (
	CodeCategoryNotFound   = "category_not_found"
	CodeTechnologyNotFound = "technology_not_found"
	CodeBadRequest         = "bad_request"
	CodeNotFound           = "not_found"
	CodeInternalError      = "internal_error"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchResponse is the body of a search reply
type SearchResponse struct {
	Query   string               `json:"query"`
	Count   int                  `json:"count"`
	Results []types.SearchResult `json:"results"`
}

// TechnologyResponse is the detail view plus the raw record
type TechnologyResponse struct {
	view.DetailView
	Details types.Details `json:"details"`
}

// errorHandler tries to handle a lookup error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the dataset over HTTP
type Server struct {
	ds            *catalog.Dataset
	searcher      search.Searcher
	logger        *slog.Logger
	router        chi.Router
	errorHandlers []errorHandler
}

// New creates a server over ds answering searches with searcher
func New(ds *catalog.Dataset, searcher search.Searcher, logger *slog.Logger) *Server {
	if searcher == nil {
		searcher = search.NewScanner(ds.Categories())
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		ds:       ds,
		searcher: searcher,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(catalog.ErrCategoryNotFound, http.StatusNotFound, CodeCategoryNotFound),
		sentinelHandler(catalog.ErrTechnologyNotFound, http.StatusNotFound, CodeTechnologyNotFound),
	}
	s.router = s.routes()
	metrics.ObserveDataset(ds.Categories())
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(metrics.Middleware("/healthz", "/metrics"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "no such endpoint")
	})

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.listCategories)
		r.Get("/categories/{category}", s.getCategory)
		r.Get("/categories/{category}/techs/{tech}", s.getTechnology)
		r.Get("/categories/{category}/techs/{tech}/export", s.exportTechnology)
		r.Get("/search", s.search)
	})
	return r
}

// Handler returns the HTTP handler of the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Error during shutdown", "error", err)
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("Server stopped gracefully")
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	stats := s.ds.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"version":      version.App,
		"categories":   stats.Categories,
		"technologies": stats.Technologies,
	})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.Home(s.ds))
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := s.param(w, r, "category")
	if !ok {
		return
	}
	v, err := view.Category(s.ds, name)
	if err != nil {
		s.handleLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) getTechnology(w http.ResponseWriter, r *http.Request) {
	cat, tech, ok := s.techParams(w, r)
	if !ok {
		return
	}
	v, err := view.Detail(s.ds, cat, tech)
	if err != nil {
		s.handleLookupError(w, err)
		return
	}
	t, err := s.ds.Technology(cat, tech)
	if err != nil {
		s.handleLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TechnologyResponse{DetailView: v, Details: t.Details})
}

func (s *Server) exportTechnology(w http.ResponseWriter, r *http.Request) {
	cat, tech, ok := s.techParams(w, r)
	if !ok {
		return
	}
	t, err := s.ds.Technology(cat, tech)
	if err != nil {
		s.handleLookupError(w, err)
		return
	}
	data, err := catalog.ExportBytes(t.Details)
	if err != nil {
		s.logger.Error("Export failed", "category", cat, "tech", tech, "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", catalog.ExportFileName(t.Name)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results := s.searcher.Search(q)
	writeJSON(w, http.StatusOK, SearchResponse{Query: q, Count: len(results), Results: results})
}

// param returns a decoded path parameter
func (s *Server) param(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	value := chi.URLParam(r, key)
	// chi matches on RawPath when the request carries escaped slashes
	if r.URL.RawPath != "" {
		decoded, err := nav.Unescape(value)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid "+key+" name")
			return "", false
		}
		value = decoded
	}
	return value, true
}

func (s *Server) techParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	cat, ok := s.param(w, r, "category")
	if !ok {
		return "", "", false
	}
	tech, ok := s.param(w, r, "tech")
	if !ok {
		return "", "", false
	}
	return cat, tech, true
}

func (s *Server) handleLookupError(w http.ResponseWriter, err error) {
	s.logger.Debug("Lookup failed", "error", err)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", "error", err)
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
