package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain"
	"dealerhub/internal/domain/models"
	"dealerhub/internal/utils"
)

const MinForecastYear = 2000

type Predictor interface {
	Predict(ctx context.Context, batch []models.ForecastRequest) ([]models.ForecastResult, error)
}

// RunStore persists submitted batches; optional.
type RunStore interface {
	Insert(run models.ForecastRun) error
	ListRecent(limit int) ([]models.ForecastRun, error)
}

// ForecastService holds the latest result set in memory. Every successful
// submission replaces it wholesale.
type ForecastService struct {
	Source    Source
	Predictor Predictor
	Runs      RunStore
	Now       func() time.Time

	mu     sync.RWMutex
	latest models.ForecastRun
}

func NewForecastService(src Source, predictor Predictor, runs RunStore) *ForecastService {
	return &ForecastService{
		Source:    src,
		Predictor: predictor,
		Runs:      runs,
		latest: models.ForecastRun{
			Requests: []models.ForecastRequest{},
			Results:  []models.ForecastResult{},
			Warnings: []string{},
		},
	}
}

func (s *ForecastService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// ValidateBatch rejects an empty batch and malformed entries before any
// network call is made.
func ValidateBatch(batch []models.ForecastRequest) error {
	if len(batch) == 0 {
		return domain.ValidationError{Field: "requests", Msg: "at least one entry is required"}
	}
	for i, r := range batch {
		field := fmt.Sprintf("requests[%d]", i)
		switch {
		case r.Month < 1 || r.Month > 12:
			return domain.ValidationError{Field: field + ".month", Msg: "must be between 1 and 12"}
		case r.Year < MinForecastYear:
			return domain.ValidationError{Field: field + ".year", Msg: fmt.Sprintf("must be %d or later", MinForecastYear)}
		case r.VehicleID <= 0:
			return domain.ValidationError{Field: field + ".vehicleId", Msg: "must be positive"}
		case r.AgencyID <= 0:
			return domain.ValidationError{Field: field + ".agencyId", Msg: "must be positive"}
		}
	}
	return nil
}

// Submit sends the whole batch in one call. Label lookups may fail; the
// submission still goes through with "ID: n" labels and a warning.
func (s *ForecastService) Submit(ctx context.Context, requestID string, batch []models.ForecastRequest) (models.ForecastRun, error) {
	if err := ValidateBatch(batch); err != nil {
		return models.ForecastRun{}, err
	}
	if s.Predictor == nil {
		return models.ForecastRun{}, domain.InternalError{Msg: "forecast service not configured"}
	}

	labels := make(chan Snapshot, 1)
	go func() {
		loader := Loader{Source: s.Source, RequestID: requestID}
		labels <- loader.Load(ctx, CollVehicles, CollAgencies)
	}()

	results, err := s.Predictor.Predict(ctx, batch)
	snap := <-labels
	if err != nil {
		utils.LogFailure(requestID, "forecast", "predict", err)
		return models.ForecastRun{}, domain.UpstreamError{Service: "forecast service", Err: err}
	}

	if results == nil {
		results = []models.ForecastResult{}
	}
	applyLabels(results, snap)
	run := models.ForecastRun{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		Requests:  append([]models.ForecastRequest(nil), batch...),
		Results:   results,
		Warnings:  snap.Warnings,
	}

	if s.Runs != nil {
		if err := s.Runs.Insert(run); err != nil {
			utils.LogFailure(requestID, "forecast", "store_run", err)
			run.Warnings = append(run.Warnings, fmt.Sprintf("forecast_runs: %v", err))
		}
	}

	s.mu.Lock()
	s.latest = run
	s.mu.Unlock()

	utils.LogEvent(requestID, "forecast", "submit", fmt.Sprintf("run %s: %d requests, %d results", run.ID, len(batch), len(results)))
	return run, nil
}

func applyLabels(results []models.ForecastResult, snap Snapshot) {
	vehicle := aggregate.Lookup(snap.Vehicles, func(v models.Vehicle) int64 { return v.ID })
	agency := aggregate.Lookup(snap.Agencies, func(a models.Agency) int64 { return a.ID })
	for i := range results {
		r := &results[i]
		if v, ok := vehicle(r.VehicleID); ok {
			r.VehicleLabel = v.DisplayName()
		} else {
			r.VehicleLabel = aggregate.IDLabel(r.VehicleID)
		}
		if a, ok := agency(r.AgencyID); ok && a.Name != "" {
			r.AgencyLabel = a.Name
		} else {
			r.AgencyLabel = aggregate.IDLabel(r.AgencyID)
		}
	}
}

// Latest returns a copy of the most recent result set.
func (s *ForecastService) Latest() models.ForecastRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.latest
	out.Requests = append([]models.ForecastRequest{}, s.latest.Requests...)
	out.Results = append([]models.ForecastResult{}, s.latest.Results...)
	out.Warnings = append([]string{}, s.latest.Warnings...)
	return out
}

// History lists stored runs, newest first. Without a store it is empty.
func (s *ForecastService) History(limit int) ([]models.ForecastRun, error) {
	if s.Runs == nil {
		return []models.ForecastRun{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := s.Runs.ListRecent(limit)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load forecast history", Err: err}
	}
	return runs, nil
}
