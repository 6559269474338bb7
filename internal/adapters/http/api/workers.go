package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/floorsight/internal/domain/model"
)

// WorkerDependencies defines the interface for worker registry
// operations.
type WorkerDependencies interface {
	CreateWorker(ctx context.Context, w model.Worker) (model.Worker, error)
	GetWorker(ctx context.Context, workerID string) (model.Worker, error)
	ListWorkers(ctx context.Context) ([]model.Worker, error)
	DeleteWorker(ctx context.Context, workerID string) error

	// IsConflict and IsMissing classify registry errors onto HTTP
	// statuses without coupling handlers to the store package.
	IsConflict(err error) bool
	IsMissing(err error) bool
}

// WorkersHandler handles worker registry requests.
type WorkersHandler struct {
	deps WorkerDependencies
}

// NewWorkersHandler creates a new workers handler.
func NewWorkersHandler(deps WorkerDependencies) *WorkersHandler {
	return &WorkersHandler{deps: deps}
}

type workerRequest struct {
	WorkerID string `json:"worker_id"`
	Name     string `json:"name"`
}

func (wr workerRequest) validate() error {
	switch {
	case strings.TrimSpace(wr.WorkerID) == "":
		return errors.New("missing worker_id")
	case strings.TrimSpace(wr.Name) == "":
		return errors.New("missing name")
	}
	return nil
}

// HandleCollection handles GET (list) and POST (register) on
// /api/v1/workers.
func (h *WorkersHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		workers, err := h.deps.ListWorkers(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "store_unavailable", err)
			return
		}
		if workers == nil {
			workers = []model.Worker{}
		}
		writeJSON(w, http.StatusOK, workers)
	case http.MethodPost:
		var req workerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err)
			return
		}
		created, err := h.deps.CreateWorker(r.Context(), model.Worker{WorkerID: req.WorkerID, Name: req.Name})
		if err != nil {
			if h.deps.IsConflict(err) {
				writeError(w, http.StatusConflict, "worker_exists", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "store_unavailable", err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		http.NotFound(w, r)
	}
}

// HandleItem handles GET and DELETE on /api/v1/workers/{worker_id}.
func (h *WorkersHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, apiPrefix+"/workers/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		worker, err := h.deps.GetWorker(r.Context(), id)
		if err != nil {
			if h.deps.IsMissing(err) {
				writeError(w, http.StatusNotFound, "worker_not_found", fmt.Errorf("%w: worker %s", ErrNotFound, id))
				return
			}
			writeError(w, http.StatusInternalServerError, "store_unavailable", err)
			return
		}
		writeJSON(w, http.StatusOK, worker)
	case http.MethodDelete:
		if err := h.deps.DeleteWorker(r.Context(), id); err != nil {
			if h.deps.IsMissing(err) {
				writeError(w, http.StatusNotFound, "worker_not_found", fmt.Errorf("%w: worker %s", ErrNotFound, id))
				return
			}
			writeError(w, http.StatusInternalServerError, "store_unavailable", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
