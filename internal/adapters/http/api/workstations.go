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

// StationDependencies defines the interface for workstation registry
// operations.
type StationDependencies interface {
	CreateStation(ctx context.Context, s model.Workstation) (model.Workstation, error)
	GetStation(ctx context.Context, stationID string) (model.Workstation, error)
	ListStations(ctx context.Context) ([]model.Workstation, error)
	DeleteStation(ctx context.Context, stationID string) error

	IsConflict(err error) bool
	IsMissing(err error) bool
}

// StationsHandler handles workstation registry requests.
type StationsHandler struct {
	deps StationDependencies
}

// NewStationsHandler creates a new workstations handler.
func NewStationsHandler(deps StationDependencies) *StationsHandler {
	return &StationsHandler{deps: deps}
}

type stationRequest struct {
	StationID   string `json:"station_id"`
	Name        string `json:"name"`
	StationType string `json:"station_type"`
}

func (sr stationRequest) validate() error {
	switch {
	case strings.TrimSpace(sr.StationID) == "":
		return errors.New("missing station_id")
	case strings.TrimSpace(sr.Name) == "":
		return errors.New("missing name")
	}
	return nil
}

// HandleCollection handles GET (list) and POST (register) on
// /api/v1/workstations.
func (h *StationsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		stations, err := h.deps.ListStations(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "store_unavailable", err)
			return
		}
		if stations == nil {
			stations = []model.Workstation{}
		}
		writeJSON(w, http.StatusOK, stations)
	case http.MethodPost:
		var req stationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err)
			return
		}
		created, err := h.deps.CreateStation(r.Context(), model.Workstation{
			StationID:   req.StationID,
			Name:        req.Name,
			StationType: req.StationType,
		})
		if err != nil {
			if h.deps.IsConflict(err) {
				writeError(w, http.StatusConflict, "workstation_exists", err)
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

// HandleItem handles GET and DELETE on /api/v1/workstations/{station_id}.
func (h *StationsHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, apiPrefix+"/workstations/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		station, err := h.deps.GetStation(r.Context(), id)
		if err != nil {
			if h.deps.IsMissing(err) {
				writeError(w, http.StatusNotFound, "workstation_not_found", fmt.Errorf("%w: workstation %s", ErrNotFound, id))
				return
			}
			writeError(w, http.StatusInternalServerError, "store_unavailable", err)
			return
		}
		writeJSON(w, http.StatusOK, station)
	case http.MethodDelete:
		if err := h.deps.DeleteStation(r.Context(), id); err != nil {
			if h.deps.IsMissing(err) {
				writeError(w, http.StatusNotFound, "workstation_not_found", fmt.Errorf("%w: workstation %s", ErrNotFound, id))
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
