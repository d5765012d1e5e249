package core

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow is the clock used by rule tests. 01/15/2020 is six years before it.
var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func testEngine(opts ...Option) *Engine {
	p := Profile{Key: "test", Label: "Test", Vocabularies: DefaultVocabularies()}
	return NewEngine(p, append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

// cleanRecord returns a row that passes every rule unchanged.
func cleanRecord() Record {
	return Record{
		ColSiteName:          "Main Campus",
		ColWorkZone:          "WZ1",
		ColFloor:             "2",
		ColRoom:              "R3",
		ColAssetDescription:  "Pump",
		ColAssetNumber:       "001",
		ColAssetName:         "Pump-WZ1-2-R3-001",
		ColStatus:            "Online",
		ColTagID:             "T-100",
		ColAssetStatus:       "In-Service",
		ColAssetRecordStatus: "Active",
		ColInServiceDate:     "01/15/2020",
		ColCAAge:             AgeFiveToTen,
		ColCACondition:       "Good",
		ColAssetCondition:    "4 – Good",
		ColCAEnvironment:     "Clean, temperate, dry",
		ColCapacityQty:       "10",
		ColCapacityUnit:      "HP",
		"Image":              "a.jpg",
		"Image 2":            "b.jpg",
		"Image 3":            "c.jpg",
		ColManufacturer:      "Trane",
		ColModel:             "XR-1",
		ColSerial:            "SN-1",
		ColJACSCode:          "J1",
		ColID:                "A1",
	}
}

func with(changes Record) Record {
	rec := cleanRecord()
	for k, v := range changes {
		rec[k] = v
	}
	return rec
}

func TestEvaluateRow_CleanRecord(t *testing.T) {
	rec := cleanRecord()
	got := testEngine().EvaluateRow(0, rec)

	assert.False(t, got.HasErrors)
	assert.Empty(t, got.Violations)
	assert.Equal(t, 2, got.RowNumber)
	if diff := cmp.Diff(cleanRecord(), got.Corrected); diff != "" {
		t.Errorf("corrected record changed (-want +got):\n%s", diff)
	}
}

func TestRules(t *testing.T) {
	tests := []struct {
		name          string
		changes       Record
		wantMessages  []string
		wantFields    []FieldKey
		wantCorrected Record // columns expected in the corrected row
	}{
		{
			name:         "site name blank",
			changes:      Record{ColSiteName: ""},
			wantMessages: []string{"Site Name blank"},
			wantFields:   []FieldKey{FieldSiteName},
		},
		{
			name:         "work zone missing from name",
			changes:      Record{ColWorkZone: "WZ9"},
			wantMessages: []string{"Workzone mismatch", "Asset Name mismatch"},
			wantFields:   []FieldKey{FieldWorkZone, FieldAssetName},
			wantCorrected: Record{
				ColAssetName: "Pump-WZ9-2-R3-001",
			},
		},
		{
			name:         "building missing from name",
			changes:      Record{ColBuilding: "B7"},
			wantMessages: []string{"Building mismatch"},
			wantFields:   []FieldKey{FieldBuilding},
		},
		{
			name:         "containment skipped when name blank",
			changes:      Record{ColAssetName: "", ColBuilding: "B7"},
			wantMessages: []string{"Asset Name mismatch"},
			wantFields:   []FieldKey{FieldAssetName},
			wantCorrected: Record{
				ColAssetName: "Pump-WZ1-2-R3-001",
			},
		},
		{
			name:         "asset name mismatch corrected",
			changes:      Record{ColAssetName: "Pump-WZ1-2-R3-002"},
			wantMessages: []string{"Asset Name mismatch"},
			wantFields:   []FieldKey{FieldAssetName},
			wantCorrected: Record{
				ColAssetName: "Pump-WZ1-2-R3-001",
			},
		},
		{
			name:          "asset name surrounding whitespace accepted",
			changes:       Record{ColAssetName: "  Pump-WZ1-2-R3-001 "},
			wantCorrected: Record{ColAssetName: "  Pump-WZ1-2-R3-001 "},
		},
		{
			name:          "status normalized",
			changes:       Record{ColStatus: "  OFFLINE "},
			wantCorrected: Record{ColStatus: "Offline"},
		},
		{
			name:          "status invalid",
			changes:       Record{ColStatus: "maybe"},
			wantMessages:  []string{"Invalid Status"},
			wantFields:    []FieldKey{FieldStatus},
			wantCorrected: Record{ColStatus: "maybe"},
		},
		{
			name:          "status blank left alone",
			changes:       Record{ColStatus: ""},
			wantCorrected: Record{ColStatus: ""},
		},
		{
			name:         "tag and reason both blank",
			changes:      Record{ColTagID: ""},
			wantMessages: []string{"TagID blank + Reason Not Tagged blank"},
			wantFields:   []FieldKey{FieldReasonNotTagged},
		},
		{
			name:    "reason accepted case-insensitively",
			changes: Record{ColTagID: "", ColReasonNotTagged: "non-tagged asset"},
		},
		{
			name:         "reason outside vocabulary",
			changes:      Record{ColReasonNotTagged: "Lost"},
			wantMessages: []string{"Invalid Reason Not Tagged: 'Lost'"},
			wantFields:   []FieldKey{FieldReasonNotTagged},
		},
		{
			name:         "asset status outside vocabulary",
			changes:      Record{ColAssetStatus: "Broken"},
			wantMessages: []string{"Invalid Asset Status"},
			wantFields:   []FieldKey{FieldAssetStatus},
		},
		{
			name:          "asset record status canonicalized",
			changes:       Record{ColAssetRecordStatus: "in-active"},
			wantCorrected: Record{ColAssetRecordStatus: "In-Active"},
		},
		{
			name:          "asset record status invalid",
			changes:       Record{ColAssetRecordStatus: "Retired"},
			wantMessages:  []string{"Invalid Asset Record Status"},
			wantFields:    []FieldKey{FieldAssetRecordStatus},
			wantCorrected: Record{ColAssetRecordStatus: "Retired"},
		},
		{
			name:         "in-service date not zero padded",
			changes:      Record{ColInServiceDate: "1/5/2020"},
			wantMessages: []string{"Invalid In-Service Date"},
			wantFields:   []FieldKey{FieldInServiceDate},
		},
		{
			name:          "ca-age blank filled",
			changes:       Record{ColCAAge: ""},
			wantMessages:  []string{"CA-Age blank or mismatch"},
			wantFields:    []FieldKey{FieldCAAge},
			wantCorrected: Record{ColCAAge: AgeFiveToTen},
		},
		{
			name:          "ca-age mismatch corrected",
			changes:       Record{ColInServiceDate: "06/01/2024"},
			wantMessages:  []string{"CA-Age blank or mismatch"},
			wantFields:    []FieldKey{FieldCAAge},
			wantCorrected: Record{ColCAAge: AgeNew},
		},
		{
			name:          "ca-age for unreal date is cleared",
			changes:       Record{ColInServiceDate: "13/45/2020"},
			wantMessages:  []string{"CA-Age blank or mismatch"},
			wantFields:    []FieldKey{FieldCAAge},
			wantCorrected: Record{ColCAAge: ""},
		},
		{
			name:          "ca-age skipped without date",
			changes:       Record{ColInServiceDate: "", ColCAAge: "anything"},
			wantCorrected: Record{ColCAAge: "anything"},
		},
		{
			name:         "ca-condition blank",
			changes:      Record{ColCACondition: ""},
			wantMessages: []string{"CA-Condition blank"},
			wantFields:   []FieldKey{FieldCACondition},
		},
		{
			name:         "asset condition outside vocabulary",
			changes:      Record{ColAssetCondition: "Good"},
			wantMessages: []string{"Invalid Asset Condition"},
			wantFields:   []FieldKey{FieldAssetCondition},
		},
		{
			name:         "ca-environment outside vocabulary",
			changes:      Record{ColCAEnvironment: "Hot"},
			wantMessages: []string{"Invalid CA-Environment"},
			wantFields:   []FieldKey{FieldCAEnvironment},
		},
		{
			name:         "capacity qty without unit",
			changes:      Record{ColCapacityUnit: ""},
			wantMessages: []string{"Capacity Qty present but Unit blank"},
			wantFields:   []FieldKey{FieldCapacity},
		},
		{
			name:         "capacity unit outside vocabulary",
			changes:      Record{ColCapacityUnit: "furlongs"},
			wantMessages: []string{"Invalid Capacity Unit"},
			wantFields:   []FieldKey{FieldCapacity},
		},
		{
			name:         "too few images",
			changes:      Record{"Image 3": ""},
			wantMessages: []string{"Only 2 images provided (min 3)"},
			wantFields:   []FieldKey{FieldImages},
		},
		{
			name: "panelboard needs five images",
			changes: Record{
				ColAssetDescription: "Main Panelboard",
				ColAssetName:        "Main Panelboard-WZ1-2-R3-001",
			},
			wantMessages: []string{"Insufficient images for Panelboard/Switchgear"},
			wantFields:   []FieldKey{FieldImages},
		},
		{
			name: "switchgear with five images",
			changes: Record{
				ColAssetDescription: "SWITCHGEAR",
				ColAssetName:        "SWITCHGEAR-WZ1-2-R3-001",
				"Image 4":           "d.jpg",
				"Image 5":           "e.jpg",
			},
		},
		{
			name:    "casing corrections",
			changes: Record{ColManufacturer: "TRANE", ColModel: "xr-1", ColSerial: "sn-1", ColJACSCode: "j1", ColID: "a1"},
			wantCorrected: Record{
				ColManufacturer: "Trane",
				ColModel:        "XR-1",
				ColSerial:       "SN-1",
				ColJACSCode:     "J1",
				ColID:           "A1",
			},
		},
	}

	engine := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := with(tt.changes)
			got := engine.EvaluateRow(4, rec)

			var msgs []string
			var fields []FieldKey
			for _, v := range got.Violations {
				msgs = append(msgs, v.Message)
				fields = append(fields, v.Field)
			}
			assert.Equal(t, tt.wantMessages, msgs)
			assert.Equal(t, tt.wantFields, fields)
			assert.Equal(t, len(tt.wantMessages) > 0, got.HasErrors)
			assert.Equal(t, 6, got.RowNumber)

			for col, want := range tt.wantCorrected {
				assert.Equal(t, want, got.Corrected[col], "corrected %s", col)
			}
		})
	}
}

func TestEvaluateRow_ViolationsInRuleOrder(t *testing.T) {
	rec := Record{
		ColStatus:       "unknown",
		ColAssetStatus:  "Broken",
		ColCapacityQty:  "4",
		ColManufacturer: "acme",
	}

	got := testEngine().EvaluateRow(0, rec)

	want := []Violation{
		{FieldSiteName, "Site Name blank"},
		{FieldAssetName, "Asset Name mismatch"},
		{FieldStatus, "Invalid Status"},
		{FieldReasonNotTagged, "TagID blank + Reason Not Tagged blank"},
		{FieldAssetStatus, "Invalid Asset Status"},
		{FieldCACondition, "CA-Condition blank"},
		{FieldCapacity, "Capacity Qty present but Unit blank"},
		{FieldImages, "Only 0 images provided (min 3)"},
	}
	if diff := cmp.Diff(want, got.Violations); diff != "" {
		t.Errorf("violations (-want +got):\n%s", diff)
	}
	assert.Equal(t, "----", got.Corrected[ColAssetName])
	assert.Equal(t, "Acme", got.Corrected[ColManufacturer])
}

func TestEvaluateRow_DoesNotMutateInput(t *testing.T) {
	rec := with(Record{ColStatus: "online", ColModel: "xr-1", ColAssetName: ""})
	before := rec.Clone()

	got := testEngine().EvaluateRow(0, rec)
	require.True(t, got.HasErrors)

	if diff := cmp.Diff(before, rec); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
	assert.Equal(t, "Online", got.Corrected[ColStatus])
}

func TestEvaluateRow_RulesSeeOriginalValues(t *testing.T) {
	// Status is corrected to "Online" but the Asset Name rule still composes
	// from the original cells, and the CA-Age rule from the original date.
	rec := with(Record{ColStatus: "ONLINE", ColCAAge: ""})
	got := testEngine().EvaluateRow(0, rec)

	assert.Equal(t, []string{"CA-Age blank or mismatch"}, got.Messages())
	assert.Equal(t, "Online", got.Corrected[ColStatus])
	assert.Equal(t, AgeFiveToTen, got.Corrected[ColCAAge])
}

func TestEvaluateRow_ProfileVocabulary(t *testing.T) {
	vocab := DefaultVocabularies()
	vocab.Set(VocabReasonNotTagged, NewVocabulary("Inaccessible"))
	engine := NewEngine(Profile{Key: "campus", Vocabularies: vocab}, WithClock(func() time.Time { return fixedNow }))

	got := engine.EvaluateRow(0, with(Record{ColTagID: "", ColReasonNotTagged: "Inaccessible"}))
	assert.Empty(t, got.Violations)

	got = engine.EvaluateRow(0, with(Record{ColTagID: "", ColReasonNotTagged: "Non-Tagged Asset"}))
	assert.Equal(t, []string{"Invalid Reason Not Tagged: 'Non-Tagged Asset'"}, got.Messages())
}

func TestOutputColumns(t *testing.T) {
	assert.Equal(t, []string{
		ColAssetName, ColStatus, ColAssetRecordStatus, ColCAAge,
		ColManufacturer, ColModel, ColSerial, ColJACSCode, ColID,
	}, OutputColumns())
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name    string
		out     Outcome
		kind    string
		flagged bool
		fixed   bool
	}{
		{"zero", Outcome{}, "no-issue", false, false},
		{"flagged", Flagged(FieldStatus, "x"), "flagged", true, false},
		{"corrected", Corrected(ColStatus, "Online"), "corrected", false, true},
		{"both", FlaggedCorrected(FieldCAAge, "x", ColCAAge, AgeNew), "flagged+corrected", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.out.Kind.String())
			_, flagged := tt.out.Violation()
			_, _, fixed := tt.out.Correction()
			assert.Equal(t, tt.flagged, flagged)
			assert.Equal(t, tt.fixed, fixed)
		})
	}
}
