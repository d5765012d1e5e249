package sheet

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/assetcheck/internal/core"
)

func TestRead_DispatchByExtension(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr error
	}{
		{"csv", "assets.csv", "Site Name\nWZ1\n", nil},
		{"upper case csv", "ASSETS.CSV", "Site Name\nWZ1\n", nil},
		{"json", "assets.json", `[{"Site Name":"WZ1"}]`, nil},
		{"unknown", "assets.pdf", "", ErrUnsupportedFormat},
		{"no extension", "assets", "", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Read(tt.file, strings.NewReader(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Read() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if ds.Len() != 1 {
				t.Errorf("Len() = %d, want 1", ds.Len())
			}
			if ds.FileName != tt.file {
				t.Errorf("FileName = %q, want %q", ds.FileName, tt.file)
			}
		})
	}
}

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFSite Name, Building ,Floor\n" +
		"WZ1,B2,3\n" +
		",,\n" +
		"  WZ2 ,=\"007\"\n"

	ds, err := ReadCSV("assets.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	wantHeaders := []string{"Site Name", "Building", "Floor"}
	if diff := cmp.Diff(wantHeaders, ds.Headers); diff != "" {
		t.Errorf("Headers mismatch (-want +got):\n%s", diff)
	}

	wantRecords := []core.Record{
		{"Site Name": "WZ1", "Building": "B2", "Floor": "3"},
		{"Site Name": "WZ2", "Building": "007", "Floor": ""},
	}
	if diff := cmp.Diff(wantRecords, ds.Records); diff != "" {
		t.Errorf("Records mismatch (-want +got):\n%s", diff)
	}
	if ds.Raw != nil {
		t.Errorf("Raw = %v, want nil for csv", ds.Raw)
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	ds, err := ReadCSV("assets.csv", strings.NewReader("Site Name,Building\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ds.Len())
	}
	if len(ds.Headers) != 2 {
		t.Errorf("Headers = %v, want 2 columns", ds.Headers)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrEmptyFile},
		{"only BOM", "\xEF\xBB\xBF", ErrEmptyFile},
		{"blank header row", ",,\n", ErrEmptyFile},
		{"duplicate header", "Site Name,Site Name\nA,B\n", ErrInvalidHeader},
		{"unnamed column with data", "Site Name,\nWZ1,x\n", ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV("assets.csv", strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadCSV() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadCSV_UnnamedEmptyColumnDropped(t *testing.T) {
	ds, err := ReadCSV("assets.csv", strings.NewReader("Site Name,,Building\nWZ1,,B2\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Site Name", "Building"}, ds.Headers); diff != "" {
		t.Errorf("Headers mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV("assets.csv", strings.NewReader("Site Name\n\"WZ1\"x\"\n"))
	// LazyQuotes accepts stray quotes; the reader must not fail on them.
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
}

func TestReadJSON(t *testing.T) {
	input := `[
		{"Site Name": "WZ1", "Floor": 3, "att_Capacity": null},
		{"Building": "B2", "Site Name": ["a", "b"]}
	]`

	ds, err := ReadJSON("assets.json", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	wantHeaders := []string{"Site Name", "Floor", "att_Capacity", "Building"}
	if diff := cmp.Diff(wantHeaders, ds.Headers); diff != "" {
		t.Errorf("Headers mismatch (-want +got):\n%s", diff)
	}
	if len(ds.Raw) != 2 {
		t.Fatalf("len(Raw) = %d, want 2", len(ds.Raw))
	}
	if ds.Records != nil {
		t.Errorf("Records = %v, want nil for json", ds.Records)
	}

	if n, ok := ds.Raw[0]["Floor"].(json.Number); !ok || n.String() != "3" {
		t.Errorf("Raw[0][Floor] = %#v, want json.Number 3", ds.Raw[0]["Floor"])
	}
	if ds.Raw[0]["att_Capacity"] != nil {
		t.Errorf("Raw[0][att_Capacity] = %#v, want nil", ds.Raw[0]["att_Capacity"])
	}
	if ds.Raw[0]["Building"] != "" {
		t.Errorf("Raw[0][Building] = %#v, want filled empty string", ds.Raw[0]["Building"])
	}
	if _, ok := ds.Raw[1]["Site Name"].([]any); !ok {
		t.Errorf("Raw[1][Site Name] = %#v, want []any", ds.Raw[1]["Site Name"])
	}
}

func TestReadJSON_CleansStrings(t *testing.T) {
	input := `[
		{"Site Name": "  ", "att_CA-Condition": "  ", "ID": " x "},
		{"Site Name": " ", "ID": null},
		{},
		{"Site Name": "=\"WZ1\"", "Floor": 0}
	]`

	ds, err := ReadJSON("assets.json", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(ds.Raw) != 2 {
		t.Fatalf("len(Raw) = %d, want 2 (blank objects skipped)", len(ds.Raw))
	}

	want := core.RawRecord{"Site Name": "", "att_CA-Condition": "", "ID": "x", "Floor": ""}
	if diff := cmp.Diff(want, ds.Raw[0]); diff != "" {
		t.Errorf("Raw[0] mismatch (-want +got):\n%s", diff)
	}
	if ds.Raw[1]["Site Name"] != "WZ1" {
		t.Errorf("Raw[1][Site Name] = %#v, want %q", ds.Raw[1]["Site Name"], "WZ1")
	}
}

func TestReadJSON_MatchesCSV(t *testing.T) {
	fromCSV, err := ReadCSV("assets.csv", strings.NewReader("Site Name,att_CA-Condition,ID\n  ,  ,x\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	fromJSON, err := ReadJSON("assets.json", strings.NewReader(`[{"Site Name":"  ","att_CA-Condition":"  ","ID":"x"}]`))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	engine := core.NewEngine(core.Profile{Key: "reader-test", Vocabularies: core.DefaultVocabularies()})
	csvResult := engine.Evaluate(fromCSV.Records)
	jsonResult := engine.EvaluateRaw(fromJSON.Raw)

	if diff := cmp.Diff(csvResult.Rows[0].Messages(), jsonResult.Rows[0].Messages()); diff != "" {
		t.Errorf("violations differ between csv and json (-csv +json):\n%s", diff)
	}
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{"empty", "", ErrEmptyFile, ""},
		{"not an array", `{"Site Name": "WZ1"}`, nil, "invalid json"},
		{"array of strings", `["WZ1"]`, nil, "invalid json"},
		{"truncated", `[{"Site Name": `, nil, "invalid json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON("assets.json", strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadJSON() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadJSON() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("ReadJSON() error = %v, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestReadXLSX_Invalid(t *testing.T) {
	_, err := ReadXLSX("assets.xlsx", strings.NewReader("not a workbook"))
	if err == nil || !strings.Contains(err.Error(), "invalid xlsx") {
		t.Errorf("ReadXLSX() error = %v, want invalid xlsx", err)
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  WZ1  ", "WZ1"},
		{`="00123"`, "00123"},
		{`=""`, ""},
		{`="`, `="`},
		{"=SUM(A1)", "=SUM(A1)"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
