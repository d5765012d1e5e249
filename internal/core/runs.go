package core

// runs.go keeps recent validation runs in memory so their artifacts can be
// downloaded after the upload request returns. Nothing is persisted: runs
// expire after a TTL and the oldest run is dropped once the store is full.

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned for unknown or expired run IDs.
var ErrRunNotFound = errors.New("run not found")

// Store defaults.
const (
	DefaultRunTTL  = time.Hour
	DefaultMaxRuns = 100
)

// Run is one validated dataset together with its input.
type Run struct {
	ID        string        `json:"id"`
	FileName  string        `json:"file_name"`
	Profile   string        `json:"profile"`
	Headers   []string      `json:"headers"`
	Input     []Record      `json:"-"`
	Result    DatasetResult `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration"`
}

// RunSummary is the lightweight view of a run returned by listings.
type RunSummary struct {
	ID             string         `json:"run_id"`
	FileName       string         `json:"file_name"`
	Profile        string         `json:"profile"`
	Rows           int            `json:"rows"`
	RowsWithErrors int            `json:"rows_with_errors"`
	Violations     int            `json:"violations"`
	Counts         map[string]int `json:"counts"`
	CreatedAt      time.Time      `json:"created_at"`
	DurationMS     int64          `json:"duration_ms"`
}

// Summary returns the listing view of r.
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:             r.ID,
		FileName:       r.FileName,
		Profile:        r.Profile,
		Rows:           len(r.Result.Rows),
		RowsWithErrors: r.Result.RowsWithErrors(),
		Violations:     r.Result.Counts.Total(),
		Counts:         r.Result.Counts.ByKey(),
		CreatedAt:      r.CreatedAt,
		DurationMS:     r.Duration.Milliseconds(),
	}
}

// ReportRows returns the validation report rows for r.
func (r *Run) ReportRows() []Record {
	return ReportRows(r.Input, r.Result)
}

// CorrectedColumns returns the column order of the corrected sheet.
func (r *Run) CorrectedColumns() []string {
	return CorrectedColumns(r.Headers, r.Result.CorrectedTable)
}

// ReportColumns returns the column order of the report sheet.
func (r *Run) ReportColumns() []string {
	return ReportColumns(r.Headers)
}

// RunStore is a bounded in-memory run cache, safe for concurrent use.
type RunStore struct {
	mu      sync.RWMutex
	runs    map[string]*Run
	ttl     time.Duration
	maxRuns int
	now     func() time.Time
}

// NewRunStore creates a store. Non-positive values use the defaults.
func NewRunStore(ttl time.Duration, maxRuns int) *RunStore {
	if ttl <= 0 {
		ttl = DefaultRunTTL
	}
	if maxRuns <= 0 {
		maxRuns = DefaultMaxRuns
	}
	return &RunStore{
		runs:    make(map[string]*Run),
		ttl:     ttl,
		maxRuns: maxRuns,
		now:     time.Now,
	}
}

// Save stores run under a new ID, sets CreatedAt, and returns the ID.
func (s *RunStore) Save(run *Run) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	run.ID = uuid.NewString()
	run.CreatedAt = s.now()

	s.evictExpiredLocked()
	for len(s.runs) >= s.maxRuns {
		s.evictOldestLocked()
	}

	s.runs[run.ID] = run
	return run.ID
}

// Get returns the run for id, or ErrRunNotFound if missing or expired.
func (s *RunStore) Get(id string) (*Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrRunNotFound
	}

	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()

	if !ok || s.expired(run) {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// List returns live runs, newest first.
func (s *RunStore) List() []*Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Run, 0, len(s.runs))
	for _, r := range s.runs {
		if !s.expired(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of stored runs, including expired ones not yet evicted.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// Sweep evicts expired runs and returns how many were removed.
func (s *RunStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictExpiredLocked()
}

func (s *RunStore) expired(r *Run) bool {
	return s.now().Sub(r.CreatedAt) > s.ttl
}

func (s *RunStore) evictExpiredLocked() int {
	n := 0
	for id, r := range s.runs {
		if s.expired(r) {
			delete(s.runs, id)
			n++
		}
	}
	return n
}

func (s *RunStore) evictOldestLocked() {
	var oldest *Run
	for _, r := range s.runs {
		if oldest == nil || r.CreatedAt.Before(oldest.CreatedAt) {
			oldest = r
		}
	}
	if oldest != nil {
		delete(s.runs, oldest.ID)
	}
}
