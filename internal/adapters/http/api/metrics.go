package api

import (
	"context"
	"net/http"

	"github.com/okian/floorsight/internal/domain/analytics"
)

// MetricsDependencies defines the interface for metric projections.
// Every operation accepts an optional time window; lookups by id never
// fail on unknown identifiers, they return a zeroed record instead.
type MetricsDependencies interface {
	Dashboard(ctx context.Context, w analytics.Window) (analytics.DashboardSummary, error)
	FactoryMetrics(ctx context.Context, w analytics.Window) (analytics.FactoryMetrics, error)
	WorkerMetrics(ctx context.Context, w analytics.Window) ([]analytics.WorkerMetrics, error)
	WorkerMetricsByID(ctx context.Context, workerID string, w analytics.Window) (analytics.WorkerMetrics, error)
	StationMetrics(ctx context.Context, w analytics.Window) ([]analytics.WorkstationMetrics, error)
	StationMetricsByID(ctx context.Context, stationID string, w analytics.Window) (analytics.WorkstationMetrics, error)
}

// MetricsHandler handles metric projection requests.
type MetricsHandler struct {
	deps MetricsDependencies
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(deps MetricsDependencies) *MetricsHandler {
	return &MetricsHandler{deps: deps}
}

// serveProjection runs the shared GET + window-parse + compute flow for
// every metrics endpoint.
func serveProjection[T any](w http.ResponseWriter, r *http.Request,
	compute func(ctx context.Context, win analytics.Window) (T, error)) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	win, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	out, err := compute(r.Context(), win)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDashboard handles GET /api/v1/metrics/dashboard.
func (h *MetricsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	serveProjection(w, r, h.deps.Dashboard)
}

// HandleFactory handles GET /api/v1/metrics/factory.
func (h *MetricsHandler) HandleFactory(w http.ResponseWriter, r *http.Request) {
	serveProjection(w, r, h.deps.FactoryMetrics)
}

// HandleWorkers handles GET /api/v1/metrics/workers.
func (h *MetricsHandler) HandleWorkers(w http.ResponseWriter, r *http.Request) {
	serveProjection(w, r, h.deps.WorkerMetrics)
}

// HandleWorker handles GET /api/v1/metrics/workers/{worker_id}.
func (h *MetricsHandler) HandleWorker(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, apiPrefix+"/metrics/workers/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	serveProjection(w, r, func(ctx context.Context, win analytics.Window) (analytics.WorkerMetrics, error) {
		return h.deps.WorkerMetricsByID(ctx, id, win)
	})
}

// HandleStations handles GET /api/v1/metrics/workstations.
func (h *MetricsHandler) HandleStations(w http.ResponseWriter, r *http.Request) {
	serveProjection(w, r, h.deps.StationMetrics)
}

// HandleStation handles GET /api/v1/metrics/workstations/{station_id}.
func (h *MetricsHandler) HandleStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, apiPrefix+"/metrics/workstations/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	serveProjection(w, r, func(ctx context.Context, win analytics.Window) (analytics.WorkstationMetrics, error) {
		return h.deps.StationMetricsByID(ctx, id, win)
	})
}
