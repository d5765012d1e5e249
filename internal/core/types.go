package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is one asset row: column name to raw cell value.
// A missing key and an empty value are equivalent.
type Record map[string]string

// Get returns the value for col, or "" when absent.
func (r Record) Get(col string) string {
	return r[col]
}

// Blank reports whether col is missing or empty.
func (r Record) Blank(col string) bool {
	return r[col] == ""
}

// Clone returns a shallow copy that does not alias r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RawRecord is a loosely typed row, as decoded from JSON.
type RawRecord map[string]any

// Violation is one failed rule for one row.
type Violation struct {
	Field   FieldKey `json:"-"`
	Message string   `json:"message"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// MarshalJSON renders the field as its label.
func (v Violation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}{v.Field.String(), v.Message})
}

// UnmarshalJSON accepts the form written by MarshalJSON.
func (v *Violation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f, ok := FieldKeyFromLabel(raw.Field)
	if !ok {
		return fmt.Errorf("unknown violation field %q", raw.Field)
	}
	*v = Violation{Field: f, Message: raw.Message}
	return nil
}

// RowResult is the outcome of evaluating one record.
type RowResult struct {
	RowNumber  int         `json:"row_number"` // sheet row: data index + 2
	Violations []Violation `json:"violations"`
	Corrected  Record      `json:"corrected"`
	HasErrors  bool        `json:"has_errors"`
}

// Messages returns the violation messages in rule order.
func (r RowResult) Messages() []string {
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

// DatasetResult holds the three artifacts of a dataset run.
type DatasetResult struct {
	Rows           []RowResult   `json:"rows"`
	CorrectedTable []Record      `json:"corrected_table"`
	Counts         FieldCounts   `json:"field_violation_counts"`
	Duration       time.Duration `json:"-"`
}

// RowsWithErrors returns how many rows carry at least one violation.
func (d DatasetResult) RowsWithErrors() int {
	n := 0
	for _, r := range d.Rows {
		if r.HasErrors {
			n++
		}
	}
	return n
}

// FieldCounts is the per-field violation tally for a dataset.
type FieldCounts map[FieldKey]int

// Count returns the tally for f (0 when absent).
func (c FieldCounts) Count(f FieldKey) int {
	return c[f]
}

// Total returns the sum over all fields.
func (c FieldCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Merge returns a new FieldCounts holding c + other. Neither input is modified.
func (c FieldCounts) Merge(other FieldCounts) FieldCounts {
	out := make(FieldCounts, len(c)+len(other))
	for k, v := range c {
		out[k] += v
	}
	for k, v := range other {
		out[k] += v
	}
	return out
}

// CountFor tallies violations by field for a single row.
func CountFor(violations []Violation) FieldCounts {
	c := make(FieldCounts)
	for _, v := range violations {
		c[v.Field]++
	}
	return c
}

// SeriesPoint is one bar in the violation summary chart.
type SeriesPoint struct {
	Key   string `json:"key"` // "<Field>-Error"
	Field string `json:"field"`
	Count int    `json:"count"`
}

// Series returns the non-zero counts ordered by field key.
func (c FieldCounts) Series() []SeriesPoint {
	out := make([]SeriesPoint, 0, len(c))
	for _, k := range AllFieldKeys() {
		if n := c[k]; n > 0 {
			out = append(out, SeriesPoint{Key: k.CountKey(), Field: k.String(), Count: n})
		}
	}
	return out
}

// ByKey returns the counts keyed by "<Field>-Error", non-zero entries only.
func (c FieldCounts) ByKey() map[string]int {
	out := make(map[string]int, len(c))
	for k, v := range c {
		if v > 0 {
			out[k.CountKey()] = v
		}
	}
	return out
}

// MarshalJSON renders the counts as {"<Field>-Error": n}.
func (c FieldCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ByKey())
}

// UnmarshalJSON accepts the {"<Field>-Error": n} form.
func (c *FieldCounts) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(FieldCounts, len(raw))
	for k, v := range raw {
		f, ok := FieldKeyFromLabel(k)
		if !ok {
			return fmt.Errorf("unknown field count key %q", k)
		}
		out[f] = v
	}
	*c = out
	return nil
}
