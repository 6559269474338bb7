package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/floorsight/internal/domain/ingest"
	"github.com/okian/floorsight/internal/domain/model"
)

// EventDependencies defines the interface for event ingestion and
// retrieval.
type EventDependencies interface {
	IngestEvent(ctx context.Context, c ingest.Candidate) (model.Event, error)
	IngestBatch(ctx context.Context, cs []ingest.Candidate) (ingest.BatchResult, error)
	ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	CountEvents(ctx context.Context, f model.EventFilter) (int64, error)

	// IsDuplicate classifies an ingestion error as a dedup-key
	// collision.
	IsDuplicate(err error) bool
}

// EventsHandler handles event ingestion and retrieval requests.
type EventsHandler struct {
	deps   EventDependencies
	limits Limits
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, limits Limits) *EventsHandler {
	return &EventsHandler{deps: deps, limits: limits}
}

// eventRequest mirrors the ingestion wire schema.
type eventRequest struct {
	Timestamp     time.Time `json:"timestamp"`
	WorkerID      string    `json:"worker_id"`
	WorkstationID string    `json:"workstation_id"`
	EventType     string    `json:"event_type"`
	Confidence    float64   `json:"confidence"`
	Count         int       `json:"count"`
}

func (e eventRequest) validate() error {
	switch {
	case e.Timestamp.IsZero():
		return errors.New("missing timestamp")
	case strings.TrimSpace(e.WorkerID) == "":
		return errors.New("missing worker_id")
	case strings.TrimSpace(e.WorkstationID) == "":
		return errors.New("missing workstation_id")
	case strings.TrimSpace(e.EventType) == "":
		return errors.New("missing event_type")
	}
	return nil
}

func (e eventRequest) candidate() ingest.Candidate {
	return ingest.Candidate{
		Timestamp:     e.Timestamp,
		WorkerID:      e.WorkerID,
		WorkstationID: e.WorkstationID,
		Type:          model.EventType(e.EventType),
		Confidence:    e.Confidence,
		Count:         e.Count,
	}
}

type batchRequest struct {
	Events []eventRequest `json:"events"`
}

// HandleEvents handles POST (single ingest) and GET (filtered list) on
// /api/v1/events.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleIngest(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *EventsHandler) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	e, err := h.deps.IngestEvent(r.Context(), req.candidate())
	if err != nil {
		writeIngestError(w, err, h.deps.IsDuplicate)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// HandleBatch handles POST /api/v1/events/batch. A batch never fails
// wholesale because of one bad item; the summary reports per-item
// outcomes.
func (h *EventsHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if len(req.Events) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("batch must contain at least one event"))
		return
	}
	if len(req.Events) > h.limits.MaxBatchSize {
		writeError(w, http.StatusBadRequest, "batch_too_large",
			fmt.Errorf("batch of %d exceeds limit %d", len(req.Events), h.limits.MaxBatchSize))
		return
	}

	candidates := make([]ingest.Candidate, len(req.Events))
	for i, e := range req.Events {
		candidates[i] = e.candidate()
	}

	res, err := h.deps.IngestBatch(r.Context(), candidates)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// eventFilterFromQuery builds a store filter from list/count query
// parameters.
func (h *EventsHandler) eventFilterFromQuery(r *http.Request) (model.EventFilter, error) {
	window, err := parseWindow(r)
	if err != nil {
		return model.EventFilter{}, err
	}
	f := filterFromWindow(window)
	q := r.URL.Query()
	f.WorkerID = q.Get("worker_id")
	f.WorkstationID = q.Get("workstation_id")
	f.Type = model.EventType(q.Get("event_type"))
	if f.Type != "" && !f.Type.Valid() {
		return model.EventFilter{}, fmt.Errorf("unknown event_type %q", f.Type)
	}
	return f, nil
}

const defaultListLimit = 100

func (h *EventsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	f, err := h.eventFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	f.Limit = defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.limits.MaxListLimit {
			writeError(w, http.StatusBadRequest, "bad_request",
				fmt.Errorf("limit must be in [1,%d]", h.limits.MaxListLimit))
			return
		}
		f.Limit = n
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("offset must be >= 0"))
			return
		}
		f.Offset = n
	}

	events, err := h.deps.ListEvents(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleCount handles GET /api/v1/events/count.
func (h *EventsHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	f, err := h.eventFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	n, err := h.deps.CountEvents(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}
