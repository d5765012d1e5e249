// Package core provides the validation and auto-correction engine for asset
// inventory records.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web handlers and the assetcheck CLI alike.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Records: a [Record] is one spreadsheet row keyed by column name.
//     JSON input arrives as a [RawRecord] and is coerced first.
//   - Rules: a fixed, ordered rule set ([Rules]) where each rule returns an
//     [Outcome]: nothing, a violation, a correction, or both.
//   - Profiles: named vocabulary sets registered with [Register]. The rules
//     never change between profiles; the controlled vocabularies do.
//   - Engine: evaluates rows against one profile and assembles a
//     [DatasetResult] holding per-row results, the corrected table and the
//     per-field violation counts.
//   - Service: the entry point for callers. It picks the profile, bounds
//     concurrent validations and keeps recent runs in memory for download.
//
// # Evaluation
//
// Every rule reads the original record. Corrections land on a copy, so the
// order of rules affects only the order of reported violations:
//
//	engine := core.NewEngine(profile)
//	result := engine.Evaluate(records)
//	for _, row := range core.RowsWithViolations(result) {
//	    fmt.Println(row.RowNumber, row.Messages())
//	}
//
// Large datasets can be split across goroutines with
// [Engine.EvaluateParallel]; the result is identical to [Engine.Evaluate].
//
// # Profile Registry
//
// Profiles are registered at init time. The built-in "standard" profile lives
// in the profiles subpackage, which also loads extra profiles from YAML:
//
//	core.Register(core.Profile{
//	    Key:          "campus",
//	    Label:        "Campus survey",
//	    Vocabularies: vocab,
//	})
//
// # Error Handling
//
// Rule violations are data, not errors. Errors returned by this package come
// from the limiter, the context, or an unknown profile or run, and map to
// user-facing messages through [MapError].
package core
