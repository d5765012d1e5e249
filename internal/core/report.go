package core

import (
	"strconv"
	"strings"
)

// ErrorSeparator joins violation messages in the report sheet.
const ErrorSeparator = "; "

// ReportRows pairs each input record with its result: the original values
// plus Row #, Has Errors (Yes/No) and Validation Errors.
// input and result.Rows must be the same length and order.
func ReportRows(input []Record, result DatasetResult) []Record {
	out := make([]Record, len(result.Rows))
	for i, row := range result.Rows {
		var rec Record
		if i < len(input) {
			rec = input[i].Clone()
		} else {
			rec = make(Record, 3)
		}
		rec[ColRowNumber] = strconv.Itoa(row.RowNumber)
		rec[ColHasErrors] = yesNo(row.HasErrors)
		rec[ColValidationErrors] = strings.Join(row.Messages(), ErrorSeparator)
		out[i] = rec
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// CorrectedColumns returns the column order for the corrected sheet: the
// input headers, then any column the rule set wrote that the input lacked.
func CorrectedColumns(headers []string, corrected []Record) []string {
	cols := append([]string(nil), headers...)
	seen := make(map[string]bool, len(cols))
	for _, h := range cols {
		seen[h] = true
	}

	for _, col := range OutputColumns() {
		if seen[col] {
			continue
		}
		for _, rec := range corrected {
			if _, ok := rec[col]; ok {
				cols = append(cols, col)
				seen[col] = true
				break
			}
		}
	}
	return cols
}

// ReportColumns returns the column order for the validation report sheet.
func ReportColumns(headers []string) []string {
	cols := append([]string(nil), headers...)
	return append(cols, ColRowNumber, ColHasErrors, ColValidationErrors)
}

// RowsWithViolations returns only the rows that carry violations, in order.
func RowsWithViolations(result DatasetResult) []RowResult {
	var out []RowResult
	for _, r := range result.Rows {
		if r.HasErrors {
			out = append(out, r)
		}
	}
	return out
}
