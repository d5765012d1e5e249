package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// CoerceRecord converts a loosely typed row into a Record.
//
// Strings pass through, numbers and booleans are rendered as text and null
// is blank. Any other shape (object, array) is blanked and reported as a
// violation on the field that owns the column, ordered by column name.
func CoerceRecord(raw RawRecord) (Record, []Violation) {
	rec := make(Record, len(raw))
	var bad []string

	for col, v := range raw {
		s, ok := coerceValue(v)
		if !ok {
			bad = append(bad, col)
			s = ""
		}
		rec[col] = s
	}

	if len(bad) == 0 {
		return rec, nil
	}

	sort.Strings(bad)
	violations := make([]Violation, len(bad))
	for i, col := range bad {
		violations[i] = Violation{
			Field:   FieldForColumn(col),
			Message: fmt.Sprintf("Malformed %s value", col),
		}
	}
	return rec, violations
}

func coerceValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
