package core

// evaluator.go drives the rule set over records.
//
// A row is evaluated in a single pass: every rule runs against the original
// record, violations are collected in rule order, and corrections are applied
// to a fresh copy. A flagged rule never stops the rules after it.
//
// The dataset pass evaluates rows in input order and reduces the per-row
// field counts into the dataset total. Rows share no state, so the parallel
// path in parallel.go produces identical results.

import (
	"log/slog"
	"time"

	"github.com/JonMunkholm/assetcheck/internal/logging"
)

// HeaderRowOffset converts a 0-based data index to a 1-based sheet row
// that accounts for the header line.
const HeaderRowOffset = 2

// Engine evaluates records against the rule set of one profile.
type Engine struct {
	profile Profile
	rules   []Rule
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for CA-Age classification.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger used for dataset summaries.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine for the given profile.
func NewEngine(profile Profile, opts ...Option) *Engine {
	e := &Engine{
		profile: profile,
		rules:   Rules(),
		now:     time.Now,
		logger:  logging.New("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Profile returns the profile the engine was built from.
func (e *Engine) Profile() Profile {
	return e.profile
}

func (e *Engine) env() *Env {
	return &Env{Vocab: e.profile.Vocabularies, Now: e.now()}
}

// EvaluateRow applies every rule to rec. index is the 0-based data row.
func (e *Engine) EvaluateRow(index int, rec Record) RowResult {
	return e.evaluateRow(index, rec, e.env(), nil)
}

// evaluateRow runs the rule set. pre holds violations found before the rules
// ran (input malformation) and is reported first.
func (e *Engine) evaluateRow(index int, rec Record, env *Env, pre []Violation) RowResult {
	violations := append([]Violation(nil), pre...)
	corrected := rec.Clone()

	for _, rule := range e.rules {
		out := rule.Check(rec, env)
		if v, ok := out.Violation(); ok {
			violations = append(violations, v)
		}
		if col, val, ok := out.Correction(); ok {
			corrected[col] = val
		}
	}

	return RowResult{
		RowNumber:  index + HeaderRowOffset,
		Violations: violations,
		Corrected:  corrected,
		HasErrors:  len(violations) > 0,
	}
}

// Evaluate runs the engine over records in order.
func (e *Engine) Evaluate(records []Record) DatasetResult {
	start := time.Now()
	env := e.env()

	rows := make([]RowResult, len(records))
	for i, rec := range records {
		rows[i] = e.evaluateRow(i, rec, env, nil)
	}

	return e.assemble(rows, start)
}

// EvaluateRaw coerces loosely typed rows and evaluates them. Values that
// cannot be read as text are blanked and reported on their field.
func (e *Engine) EvaluateRaw(raw []RawRecord) DatasetResult {
	start := time.Now()
	env := e.env()

	rows := make([]RowResult, len(raw))
	for i, r := range raw {
		rec, malformed := CoerceRecord(r)
		rows[i] = e.evaluateRow(i, rec, env, malformed)
	}

	return e.assemble(rows, start)
}

// assemble builds the dataset artifacts from evaluated rows.
func (e *Engine) assemble(rows []RowResult, start time.Time) DatasetResult {
	counts := make(FieldCounts)
	corrected := make([]Record, len(rows))
	for i, r := range rows {
		counts = counts.Merge(CountFor(r.Violations))
		corrected[i] = r.Corrected
	}

	result := DatasetResult{
		Rows:           rows,
		CorrectedTable: corrected,
		Counts:         counts,
		Duration:       time.Since(start),
	}

	e.logger.Debug("dataset evaluated",
		"profile", e.profile.Key,
		"rows", len(rows),
		"rows_with_errors", result.RowsWithErrors(),
		"violations", counts.Total(),
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result
}
