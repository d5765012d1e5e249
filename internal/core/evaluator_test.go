package core

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mixedRecords returns n rows cycling through clean and faulty variants.
func mixedRecords(n int) []Record {
	variants := []Record{
		{},
		{ColStatus: "maybe"},
		{ColSiteName: "", "Image 3": ""},
		{ColAssetName: ""},
		{ColModel: "lower", ColStatus: "offline"},
		{ColCapacityUnit: "", ColCAAge: ""},
	}
	out := make([]Record, n)
	for i := range out {
		rec := with(variants[i%len(variants)])
		rec[ColAssetNumber] = fmt.Sprintf("%03d", i)
		rec[ColAssetName] = ComposeAssetName(rec)
		if i%len(variants) == 3 {
			rec[ColAssetName] = ""
		}
		out[i] = rec
	}
	return out
}

func TestEvaluate_Dataset(t *testing.T) {
	records := []Record{
		cleanRecord(),
		with(Record{ColStatus: "maybe", "Image 3": ""}),
		with(Record{ColSiteName: ""}),
	}

	got := testEngine().Evaluate(records)

	require.Len(t, got.Rows, 3)
	require.Len(t, got.CorrectedTable, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{got.Rows[0].RowNumber, got.Rows[1].RowNumber, got.Rows[2].RowNumber})
	assert.Equal(t, 2, got.RowsWithErrors())

	want := FieldCounts{FieldStatus: 1, FieldImages: 1, FieldSiteName: 1}
	if diff := cmp.Diff(want, got.Counts); diff != "" {
		t.Errorf("counts (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, got.Counts.Total())

	for i, row := range got.Rows {
		assert.Equal(t, row.Corrected, got.CorrectedTable[i])
	}
}

func TestEvaluate_Empty(t *testing.T) {
	got := testEngine().Evaluate(nil)
	assert.Empty(t, got.Rows)
	assert.Empty(t, got.CorrectedTable)
	assert.Equal(t, 0, got.Counts.Total())
	assert.Equal(t, 0, got.RowsWithErrors())
}

func TestEvaluate_CountsMatchViolations(t *testing.T) {
	got := testEngine().Evaluate(mixedRecords(60))

	want := make(FieldCounts)
	for _, row := range got.Rows {
		for _, v := range row.Violations {
			want[v.Field]++
		}
		assert.Equal(t, len(row.Violations) > 0, row.HasErrors)
	}
	assert.Equal(t, want, got.Counts)
}

func TestEvaluateParallel_MatchesSequential(t *testing.T) {
	records := mixedRecords(500)
	engine := testEngine()

	seq := engine.Evaluate(records)
	for _, workers := range []int{0, 1, 3, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			par, err := engine.EvaluateParallel(t.Context(), records, workers)
			require.NoError(t, err)

			if diff := cmp.Diff(seq, par, cmpopts.IgnoreFields(DatasetResult{}, "Duration")); diff != "" {
				t.Errorf("parallel result differs (-seq +par):\n%s", diff)
			}
		})
	}
}

func TestEvaluateParallel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := testEngine().EvaluateParallel(ctx, mixedRecords(100), 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateRaw(t *testing.T) {
	raw := []RawRecord{
		{
			ColSiteName:         "Main Campus",
			ColWorkZone:         "WZ1",
			ColFloor:            json.Number("2"),
			ColRoom:             "R3",
			ColAssetDescription: "Pump",
			ColAssetNumber:      json.Number("1"),
			ColAssetName:        "Pump-WZ1-2-R3-1",
			ColTagID:            "T-1",
			ColCACondition:      "Good",
			"Image":             "a",
			"Image 2":           "b",
			"Image 3":           "c",
			ColModel:            []any{"x"},
		},
	}

	got := testEngine().EvaluateRaw(raw)

	require.Len(t, got.Rows, 1)
	row := got.Rows[0]
	assert.Equal(t, []Violation{{FieldModel, "Malformed Model value"}}, row.Violations)
	assert.Equal(t, "", row.Corrected[ColModel])
	assert.Equal(t, "2", row.Corrected[ColFloor])
	assert.Equal(t, FieldCounts{FieldModel: 1}, got.Counts)
}

func TestEvaluateRaw_MalformedReportedFirst(t *testing.T) {
	got := testEngine().EvaluateRaw([]RawRecord{{ColSiteName: map[string]any{"a": 1}}})

	require.NotEmpty(t, got.Rows[0].Violations)
	assert.Equal(t, Violation{FieldSiteName, "Malformed Site Name value"}, got.Rows[0].Violations[0])
	assert.Equal(t, Violation{FieldSiteName, "Site Name blank"}, got.Rows[0].Violations[1])
	assert.Equal(t, 2, got.Counts.Count(FieldSiteName))
}

func TestCoerceRecord(t *testing.T) {
	rec, bad := CoerceRecord(RawRecord{
		"Floor":   json.Number("2"),
		"Room":    float64(3),
		"Asset #": 12,
		"Big":     int64(1) << 40,
		"Ratio":   float32(0.5),
		"ID":      true,
		"Site":    "x",
		"Note":    nil,
		"Model":   map[string]any{},
		"Image":   []any{},
	})

	assert.Equal(t, Record{
		"Floor":   "2",
		"Room":    "3",
		"Asset #": "12",
		"Big":     "1099511627776",
		"Ratio":   "0.5",
		"ID":      "true",
		"Site":    "x",
		"Note":    "",
		"Model":   "",
		"Image":   "",
	}, rec)
	assert.Equal(t, []Violation{
		{FieldImages, "Malformed Image value"},
		{FieldModel, "Malformed Model value"},
	}, bad)

	_, bad = CoerceRecord(RawRecord{"Site Name": "ok"})
	assert.Nil(t, bad)
}

func TestFieldCounts(t *testing.T) {
	a := FieldCounts{FieldStatus: 2, FieldImages: 1}
	b := FieldCounts{FieldStatus: 1, FieldSiteName: 4, FieldModel: 0}

	merged := a.Merge(b)
	assert.Equal(t, 3, merged.Count(FieldStatus))
	assert.Equal(t, 4, merged.Count(FieldSiteName))
	assert.Equal(t, 8, merged.Total())
	assert.Equal(t, 2, a.Count(FieldStatus), "Merge leaves the receiver alone")

	assert.Equal(t, []SeriesPoint{
		{Key: "Site Name-Error", Field: "Site Name", Count: 4},
		{Key: "Status-Error", Field: "Status", Count: 3},
		{Key: "Images-Error", Field: "Images", Count: 1},
	}, merged.Series())

	assert.Equal(t, map[string]int{"Status-Error": 1, "Site Name-Error": 4}, b.ByKey())

	data, err := json.Marshal(merged)
	require.NoError(t, err)
	var back FieldCounts
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, merged.ByKey(), back.ByKey())

	assert.Error(t, json.Unmarshal([]byte(`{"Nope-Error":1}`), &back))
}

func TestRowResult_JSON(t *testing.T) {
	row := RowResult{
		RowNumber:  7,
		Violations: []Violation{{FieldAssetRecordStatus, "Invalid Asset Record Status"}},
		Corrected:  Record{ColStatus: "Online"},
		HasErrors:  true,
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"row_number": 7,
		"violations": [{"field": "Asset Record Status", "message": "Invalid Asset Record Status"}],
		"corrected": {"Status": "Online"},
		"has_errors": true
	}`, string(data))

	var back RowResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, row, back)
}

func TestFieldKeys(t *testing.T) {
	keys := AllFieldKeys()
	require.NotEmpty(t, keys)

	for _, k := range keys {
		got, ok := FieldKeyFromLabel(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)

		got, ok = FieldKeyFromLabel(k.CountKey())
		require.True(t, ok, k.CountKey())
		assert.Equal(t, k, got)
	}

	_, ok := FieldKeyFromLabel("Colour")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", FieldKey(-1).String())

	assert.Equal(t, FieldCapacity, FieldForColumn(ColCapacityUnit))
	assert.Equal(t, FieldImages, FieldForColumn("Image 4"))
	assert.Equal(t, FieldOther, FieldForColumn("Comments"))
}

func TestEvaluate_CorrectedNameIsFixedPoint(t *testing.T) {
	records := append(mixedRecords(30),
		with(Record{ColAssetName: "", ColAssetDescription: "Air   Handler"}),
		with(Record{ColAssetName: "wrong", ColRoom: " R3 "}),
	)
	engine := testEngine()

	first := engine.Evaluate(records)
	second := engine.Evaluate(first.CorrectedTable)

	for _, row := range second.Rows {
		for _, v := range row.Violations {
			assert.NotEqual(t, "Asset Name mismatch", v.Message, "row %d", row.RowNumber)
		}
	}
}
