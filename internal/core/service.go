package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/assetcheck/internal/config"
	"github.com/JonMunkholm/assetcheck/internal/logging"
)

// ParallelThreshold is the row count above which a dataset is evaluated on
// multiple workers when the service is configured with more than one.
var ParallelThreshold = 2000

// Service provides the validation workflow: pick a profile, evaluate the
// dataset under the concurrency limit, and keep the run for download.
type Service struct {
	runs           *RunStore
	limiter        *ValidationLimiter
	defaultProfile string
	workers        int
	clock          func() time.Time
}

// NewService creates a new Service instance from configuration.
func NewService(cfg *config.Config) (*Service, error) {
	if _, ok := Get(cfg.Validation.Profile); !ok {
		return nil, fmt.Errorf("default profile not found: %q", cfg.Validation.Profile)
	}

	return &Service{
		runs:           NewRunStore(cfg.Validation.RunTTL, cfg.Validation.MaxRuns),
		limiter:        NewValidationLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		defaultProfile: cfg.Validation.Profile,
		workers:        cfg.Validation.Workers,
		clock:          time.Now,
	}, nil
}

// DefaultProfile returns the key used when a request names no profile.
func (s *Service) DefaultProfile() string {
	return s.defaultProfile
}

// ListProfiles returns all registered profiles.
func (s *Service) ListProfiles() []Profile {
	return All()
}

// Validate evaluates ds against the named profile ("" for the default) and
// stores the run. Errors come only from the limiter, the context or an
// unknown profile; rule violations are part of the result.
func (s *Service) Validate(ctx context.Context, profileKey string, ds Dataset) (*Run, error) {
	if profileKey == "" {
		profileKey = s.defaultProfile
	}
	profile, err := Lookup(profileKey)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	logger := logging.New("service").With("file", ds.FileName, "profile", profile.Key)
	engine := NewEngine(profile, WithClock(s.clock), WithLogger(logger))

	workers := 1
	if len(ds.Records) > ParallelThreshold {
		workers = s.workers
	}
	run, err := engine.EvaluateDataset(ctx, ds, workers)
	if err != nil {
		return nil, err
	}
	id := s.runs.Save(run)

	logger.Info("validation complete",
		"run_id", id,
		"rows", len(run.Result.Rows),
		"rows_with_errors", run.Result.RowsWithErrors(),
		"violations", run.Result.Counts.Total(),
		"duration_ms", run.Duration.Milliseconds(),
	)

	return run, nil
}

// GetRun returns a stored run by ID.
func (s *Service) GetRun(id string) (*Run, error) {
	return s.runs.Get(id)
}

// ListRuns returns live runs, newest first.
func (s *Service) ListRuns() []*Run {
	return s.runs.List()
}

// LimiterStatus returns the current validation slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForValidations blocks until in-flight validations finish or ctx ends.
func (s *Service) WaitForValidations(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
