package core

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// EvaluateParallel evaluates records across up to workers goroutines.
//
// Each worker writes only its own row slot, and field counts are combined
// afterwards by the same reduction Evaluate uses, so the result matches
// Evaluate exactly. workers <= 0 uses GOMAXPROCS. The only error is ctx's.
func (e *Engine) EvaluateParallel(ctx context.Context, records []Record, workers int) (DatasetResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	env := e.env()
	rows := make([]RowResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range records {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = e.evaluateRow(i, records[i], env, nil)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return DatasetResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return DatasetResult{}, err
	}

	return e.assemble(rows, start), nil
}
