package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/floorsight/internal/sampledata"
)

// Bounds for on-demand sample generation requests.
const (
	minGenerateDays = 1
	maxGenerateDays = 30
	minEventsPerDay = 10
	maxEventsPerDay = 1000
	defaultDays     = 7
	defaultPerDay   = 100
)

// DataDependencies defines the interface for sample-data management.
type DataDependencies interface {
	SeedReferenceData(ctx context.Context) (workersCreated, stationsCreated int, err error)
	GenerateEvents(ctx context.Context, opts sampledata.GenerateOptions) (int, error)
	ClearEvents(ctx context.Context) (int64, error)
}

// DataHandler handles sample-data management requests.
type DataHandler struct {
	deps DataDependencies
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps DataDependencies) *DataHandler {
	return &DataHandler{deps: deps}
}

type generateRequest struct {
	NumDays       int  `json:"num_days"`
	EventsPerDay  int  `json:"events_per_day"`
	ClearExisting bool `json:"clear_existing"`
}

// decodeGenerateRequest reads an optional JSON body, applying defaults
// for absent fields and range checks for present ones.
func decodeGenerateRequest(r *http.Request) (generateRequest, error) {
	req := generateRequest{NumDays: defaultDays, EventsPerDay: defaultPerDay}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if req.NumDays < minGenerateDays || req.NumDays > maxGenerateDays {
		return req, fmt.Errorf("num_days must be in [%d,%d]", minGenerateDays, maxGenerateDays)
	}
	if req.EventsPerDay < minEventsPerDay || req.EventsPerDay > maxEventsPerDay {
		return req, fmt.Errorf("events_per_day must be in [%d,%d]", minEventsPerDay, maxEventsPerDay)
	}
	return req, nil
}

func (req generateRequest) options() sampledata.GenerateOptions {
	return sampledata.GenerateOptions{
		NumDays:       req.NumDays,
		EventsPerDay:  req.EventsPerDay,
		ClearExisting: req.ClearExisting,
	}
}

type seedDataResult struct {
	WorkersCreated      int    `json:"workers_created"`
	WorkstationsCreated int    `json:"workstations_created"`
	EventsGenerated     int    `json:"events_generated"`
	Message             string `json:"message"`
}

// HandleSeed handles POST /api/v1/data/seed: reference data only, no
// events. Re-seeding an already seeded store is a no-op.
func (h *DataHandler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	workers, stations, err := h.deps.SeedReferenceData(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, seedDataResult{
		WorkersCreated:      workers,
		WorkstationsCreated: stations,
		Message:             "reference data seeded",
	})
}

// HandleGenerate handles POST /api/v1/data/generate-events.
func (h *DataHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := decodeGenerateRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	created, err := h.deps.GenerateEvents(r.Context(), req.options())
	if err != nil {
		if errors.Is(err, sampledata.ErrNoReferenceData) {
			writeError(w, http.StatusBadRequest, "no_reference_data", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, seedDataResult{
		EventsGenerated: created,
		Message:         "events generated",
	})
}

// HandleInitialize handles POST /api/v1/data/initialize: seed reference
// data, then generate a default history in one call.
func (h *DataHandler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	workers, stations, err := h.deps.SeedReferenceData(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	created, err := h.deps.GenerateEvents(r.Context(), sampledata.GenerateOptions{
		NumDays:      defaultDays,
		EventsPerDay: defaultPerDay,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, seedDataResult{
		WorkersCreated:      workers,
		WorkstationsCreated: stations,
		EventsGenerated:     created,
		Message:             "sample data initialized",
	})
}

// HandleRefresh handles POST /api/v1/data/refresh: drop the stored
// stream and regenerate it per the request parameters.
func (h *DataHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := decodeGenerateRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	workers, stations, err := h.deps.SeedReferenceData(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	opts := req.options()
	opts.ClearExisting = true
	created, err := h.deps.GenerateEvents(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, seedDataResult{
		WorkersCreated:      workers,
		WorkstationsCreated: stations,
		EventsGenerated:     created,
		Message:             "sample data refreshed",
	})
}

// HandleClearEvents handles DELETE /api/v1/data/events. Reference data
// survives; only the observation stream is dropped.
func (h *DataHandler) HandleClearEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	n, err := h.deps.ClearEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events_deleted": n,
		"message":        "event stream cleared",
	})
}
