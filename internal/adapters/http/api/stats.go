package api

import (
	"context"
	"net/http"
)

// Stats summarizes the store for operational visibility.
type Stats struct {
	TotalEvents       int64   `json:"total_events"`
	TotalWorkers      int64   `json:"total_workers"`
	TotalWorkstations int64   `json:"total_workstations"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// StatsProvider supplies store-level statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) (Stats, error)
}

// StatsHandler handles statistics requests.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats, err := h.provider.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
