// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/floorsight/internal/domain/analytics"
	"github.com/okian/floorsight/internal/domain/ingest"
	"github.com/okian/floorsight/internal/domain/model"
)

// Prefix under which the business API is mounted.
const apiPrefix = "/api/v1"

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to implementations in other
// packages.
type Dependencies interface {
	EventDependencies
	WorkerDependencies
	StationDependencies
	MetricsDependencies
	DataDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	eventsHandler  *EventsHandler
	workersHandler *WorkersHandler
	stationHandler *StationsHandler
	metricsHandler *MetricsHandler
	dataHandler    *DataHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, limits Limits) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		eventsHandler:  NewEventsHandler(deps, limits),
		workersHandler: NewWorkersHandler(deps),
		stationHandler: NewStationsHandler(deps),
		metricsHandler: NewMetricsHandler(deps),
		dataHandler:    NewDataHandler(deps),
	}
}

// Limits carries request-size caps from configuration.
type Limits struct {
	MaxBatchSize int
	MaxListLimit int
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc(apiPrefix+"/events/batch", MetricsMiddleware(s.eventsHandler.HandleBatch, "events_batch"))
	mux.HandleFunc(apiPrefix+"/events/count", MetricsMiddleware(s.eventsHandler.HandleCount, "events_count"))
	mux.HandleFunc(apiPrefix+"/events", MetricsMiddleware(s.eventsHandler.HandleEvents, "events"))

	mux.HandleFunc(apiPrefix+"/workers", MetricsMiddleware(s.workersHandler.HandleCollection, "workers"))
	mux.HandleFunc(apiPrefix+"/workers/", MetricsMiddleware(s.workersHandler.HandleItem, "worker"))
	mux.HandleFunc(apiPrefix+"/workstations", MetricsMiddleware(s.stationHandler.HandleCollection, "workstations"))
	mux.HandleFunc(apiPrefix+"/workstations/", MetricsMiddleware(s.stationHandler.HandleItem, "workstation"))

	mux.HandleFunc(apiPrefix+"/metrics/dashboard", MetricsMiddleware(s.metricsHandler.HandleDashboard, "metrics_dashboard"))
	mux.HandleFunc(apiPrefix+"/metrics/factory", MetricsMiddleware(s.metricsHandler.HandleFactory, "metrics_factory"))
	mux.HandleFunc(apiPrefix+"/metrics/workers", MetricsMiddleware(s.metricsHandler.HandleWorkers, "metrics_workers"))
	mux.HandleFunc(apiPrefix+"/metrics/workers/", MetricsMiddleware(s.metricsHandler.HandleWorker, "metrics_worker"))
	mux.HandleFunc(apiPrefix+"/metrics/workstations", MetricsMiddleware(s.metricsHandler.HandleStations, "metrics_workstations"))
	mux.HandleFunc(apiPrefix+"/metrics/workstations/", MetricsMiddleware(s.metricsHandler.HandleStation, "metrics_workstation"))

	mux.HandleFunc(apiPrefix+"/data/seed", MetricsMiddleware(s.dataHandler.HandleSeed, "data_seed"))
	mux.HandleFunc(apiPrefix+"/data/generate-events", MetricsMiddleware(s.dataHandler.HandleGenerate, "data_generate"))
	mux.HandleFunc(apiPrefix+"/data/initialize", MetricsMiddleware(s.dataHandler.HandleInitialize, "data_initialize"))
	mux.HandleFunc(apiPrefix+"/data/refresh", MetricsMiddleware(s.dataHandler.HandleRefresh, "data_refresh"))
	mux.HandleFunc(apiPrefix+"/data/events", MetricsMiddleware(s.dataHandler.HandleClearEvents, "data_clear"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeIngestError maps ingestion error kinds onto the wire contract:
// validation and reference failures are client errors with distinct
// codes, duplicates are conflicts, anything else is a store failure.
func writeIngestError(w http.ResponseWriter, err error, isDuplicate func(error) bool) {
	switch {
	case ingest.IsValidation(err):
		writeError(w, http.StatusBadRequest, "validation_error", err)
	case ingest.IsReferenceNotFound(err):
		writeError(w, http.StatusBadRequest, "reference_not_found", err)
	case isDuplicate(err):
		writeError(w, http.StatusConflict, "duplicate_event", err)
	default:
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
	}
}

// pathID extracts the trailing path parameter after prefix, rejecting
// nested paths.
func pathID(r *http.Request, prefix string) (string, bool) {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// parseWindow reads the optional start_time/end_time query parameters
// (RFC3339). Absent parameters leave that side unbounded.
func parseWindow(r *http.Request) (analytics.Window, error) {
	var w analytics.Window
	if raw := r.URL.Query().Get("start_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return w, errors.New("invalid start_time; must be RFC3339")
		}
		w.Start = &t
	}
	if raw := r.URL.Query().Get("end_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return w, errors.New("invalid end_time; must be RFC3339")
		}
		w.End = &t
	}
	return w, nil
}

// filterFromWindow lifts a metrics window into an event filter.
func filterFromWindow(w analytics.Window) model.EventFilter {
	return model.EventFilter{Start: w.Start, End: w.End}
}
