package core

import (
	"context"
	"fmt"
	"time"
)

// Dataset is a parsed sheet ready for evaluation.
// Exactly one of Records or Raw is set.
type Dataset struct {
	FileName string
	Headers  []string
	Records  []Record
	Raw      []RawRecord // loosely typed rows (JSON input)
}

// Len returns the number of data rows.
func (d Dataset) Len() int {
	if d.Raw != nil {
		return len(d.Raw)
	}
	return len(d.Records)
}

// EvaluateDataset evaluates ds and packages the result as an unsaved Run.
// Raw rows are coerced first and their coerced text becomes the run input.
// Typed records fan out over workers goroutines when workers > 1.
func (e *Engine) EvaluateDataset(ctx context.Context, ds Dataset, workers int) (*Run, error) {
	start := time.Now()
	input := ds.Records
	var result DatasetResult

	switch {
	case ds.Raw != nil:
		input = make([]Record, len(ds.Raw))
		for i, raw := range ds.Raw {
			input[i], _ = CoerceRecord(raw)
		}
		result = e.EvaluateRaw(ds.Raw)
	case workers > 1:
		var err error
		result, err = e.EvaluateParallel(ctx, ds.Records, workers)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", ds.FileName, err)
		}
	default:
		result = e.Evaluate(ds.Records)
	}

	return &Run{
		FileName:  ds.FileName,
		Profile:   e.profile.Key,
		Headers:   ds.Headers,
		Input:     input,
		Result:    result,
		CreatedAt: start,
		Duration:  time.Since(start),
	}, nil
}
