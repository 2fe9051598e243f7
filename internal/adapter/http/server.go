package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DatasetProvider returns the latest reconciled dataset, or nil before the
// first refresh completes.
type DatasetProvider interface {
	Dataset() *domain.Dataset
}

// Server exposes health, readiness, metrics, and the chart and report API.
type Server struct {
	httpServer *http.Server
	data       DatasetProvider
	charts     *ProjectionCache
	names      domain.CategoryNamer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /api/chart, and /api/report routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, data DatasetProvider, charts *ProjectionCache, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		data:   data,
		charts: charts,
		names:  domain.DefaultCategoryNames,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/chart", s.handleChart)
	mux.HandleFunc("GET /api/report", s.handleReport)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleChart serves a projection of the latest dataset.
//
//	GET /api/chart?mode=diff&hidden=deces,gueris&since=2020-03-01
//	GET /api/chart?mode=rolling&days=30
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ds := s.data.Dataset()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, errNoDataset)
		return
	}

	opts, err := s.projectOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, s.charts.Project(ds, opts))
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	ds := s.data.Dataset()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, errNoDataset)
		return
	}
	writeJSON(w, http.StatusOK, domain.BuildReport(ds, s.names))
}

var errNoDataset = errors.New("no dataset computed yet")

func (s *Server) projectOptions(r *http.Request) (domain.ProjectOptions, error) {
	q := r.URL.Query()

	mode, err := domain.ParseMode(q.Get("mode"))
	if err != nil {
		return domain.ProjectOptions{}, err
	}

	since := q.Get("since")
	if since != "" {
		if _, err := time.Parse(domain.DateLayout, since); err != nil {
			return domain.ProjectOptions{}, errors.New("since must be a YYYY-MM-DD date")
		}
	} else if days := q.Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return domain.ProjectOptions{}, errors.New("days must be a positive integer")
		}
		since = domain.RecentFloor(n)
	}

	return domain.ProjectOptions{
		Mode:      mode,
		Hidden:    domain.ParseHidden(q.Get("hidden")),
		DateFloor: since,
		Names:     s.names,
	}, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // headers already sent
}
