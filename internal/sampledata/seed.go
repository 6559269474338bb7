// Package sampledata seeds reference data and synthesizes observation
// streams for demos and evaluation, so installs can be populated
// without hand-editing the database.
package sampledata

import (
	"context"
	"errors"
	"fmt"

	repository "github.com/okian/floorsight/internal/adapters/repository"
	"github.com/okian/floorsight/internal/domain/model"
)

// ErrNoReferenceData means event generation was asked to run before any
// workers or workstations were registered.
var ErrNoReferenceData = errors.New("no workers or workstations; seed reference data first")

var sampleWorkers = []model.Worker{
	{WorkerID: "W1", Name: "John Martinez"},
	{WorkerID: "W2", Name: "Sarah Chen"},
	{WorkerID: "W3", Name: "Michael Johnson"},
	{WorkerID: "W4", Name: "Emily Davis"},
	{WorkerID: "W5", Name: "Robert Kim"},
	{WorkerID: "W6", Name: "Lisa Thompson"},
}

var sampleStations = []model.Workstation{
	{StationID: "S1", Name: "Assembly Line A", StationType: "Assembly"},
	{StationID: "S2", Name: "Assembly Line B", StationType: "Assembly"},
	{StationID: "S3", Name: "Quality Control 1", StationType: "Quality Check"},
	{StationID: "S4", Name: "Quality Control 2", StationType: "Quality Check"},
	{StationID: "S5", Name: "Packaging Station", StationType: "Packaging"},
	{StationID: "S6", Name: "Final Inspection", StationType: "Inspection"},
}

// SeedReferenceData registers the sample workers and workstations,
// skipping any that already exist. Safe to call repeatedly.
func SeedReferenceData(ctx context.Context, store repository.Store) (workersCreated, stationsCreated int, err error) {
	for i := range sampleWorkers {
		w := sampleWorkers[i]
		switch err := store.CreateWorker(ctx, &w); {
		case err == nil:
			workersCreated++
		case errors.Is(err, repository.ErrWorkerExists):
			// already seeded
		default:
			return workersCreated, stationsCreated, fmt.Errorf("seed worker %s: %w", w.WorkerID, err)
		}
	}
	for i := range sampleStations {
		s := sampleStations[i]
		switch err := store.CreateStation(ctx, &s); {
		case err == nil:
			stationsCreated++
		case errors.Is(err, repository.ErrStationExists):
			// already seeded
		default:
			return workersCreated, stationsCreated, fmt.Errorf("seed workstation %s: %w", s.StationID, err)
		}
	}
	return workersCreated, stationsCreated, nil
}
