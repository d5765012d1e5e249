package core

// OutcomeKind tags what a rule decided for one record.
type OutcomeKind int

const (
	OutcomeNoIssue OutcomeKind = iota
	OutcomeFlagged
	OutcomeCorrected
	OutcomeFlaggedCorrected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoIssue:
		return "no-issue"
	case OutcomeFlagged:
		return "flagged"
	case OutcomeCorrected:
		return "corrected"
	case OutcomeFlaggedCorrected:
		return "flagged+corrected"
	default:
		return "unknown"
	}
}

// Outcome is the result of one rule on one record. Build it with NoIssue,
// Flagged, Corrected or FlaggedCorrected; the zero value is NoIssue.
type Outcome struct {
	Kind      OutcomeKind
	violation Violation
	column    string
	value     string
}

// NoIssue is the outcome of a rule that found nothing to report or fix.
func NoIssue() Outcome {
	return Outcome{Kind: OutcomeNoIssue}
}

// Flagged reports a violation without a correction.
func Flagged(field FieldKey, msg string) Outcome {
	return Outcome{
		Kind:      OutcomeFlagged,
		violation: Violation{Field: field, Message: msg},
	}
}

// Corrected replaces column with value without reporting a violation.
func Corrected(column, value string) Outcome {
	return Outcome{Kind: OutcomeCorrected, column: column, value: value}
}

// FlaggedCorrected reports a violation and replaces column with value.
func FlaggedCorrected(field FieldKey, msg, column, value string) Outcome {
	return Outcome{
		Kind:      OutcomeFlaggedCorrected,
		violation: Violation{Field: field, Message: msg},
		column:    column,
		value:     value,
	}
}

// Violation returns the reported violation, if any.
func (o Outcome) Violation() (Violation, bool) {
	if o.Kind == OutcomeFlagged || o.Kind == OutcomeFlaggedCorrected {
		return o.violation, true
	}
	return Violation{}, false
}

// Correction returns the column and replacement value, if any.
func (o Outcome) Correction() (column, value string, ok bool) {
	if o.Kind == OutcomeCorrected || o.Kind == OutcomeFlaggedCorrected {
		return o.column, o.value, true
	}
	return "", "", false
}
