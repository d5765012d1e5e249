package sheet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/assetcheck/internal/core"
)

func testSheet() Sheet {
	return Sheet{
		Name:    ReportName,
		Columns: []string{"Site Name", "Building", core.ColValidationErrors},
		Records: []core.Record{
			{"Site Name": "WZ1", "Building": "B2", core.ColValidationErrors: ""},
			{"Site Name": "WZ2", core.ColValidationErrors: "Invalid Status; Only 2 images provided (min 3)"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testSheet()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "Site Name,Building,Validation Errors\n" +
		"WZ1,B2,\n" +
		"WZ2,,Invalid Status; Only 2 images provided (min 3)\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteCSV_ReadBack(t *testing.T) {
	s := testSheet()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	ds, err := ReadCSV("report.csv", &buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if diff := cmp.Diff(s.Columns, ds.Headers); diff != "" {
		t.Errorf("Headers mismatch (-want +got):\n%s", diff)
	}
	if got := ds.Records[1]["Building"]; got != "" {
		t.Errorf("missing value written as %q, want empty", got)
	}
}

func TestWriteXLSX_ReadBack(t *testing.T) {
	corrected := Sheet{
		Name:    CorrectedName,
		Columns: []string{"Site Name", "att_Asset Status"},
		Records: []core.Record{{"Site Name": "WZ1", "att_Asset Status": "Online"}},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, corrected, testSheet()); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	// ReadXLSX reads the first sheet, which is the corrected table.
	ds, err := ReadXLSX("out.xlsx", bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadXLSX() error = %v", err)
	}
	want := []core.Record{{"Site Name": "WZ1", "att_Asset Status": "Online"}}
	if diff := cmp.Diff(want, ds.Records); diff != "" {
		t.Errorf("Records mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXLSX_NoSheets(t *testing.T) {
	if err := WriteXLSX(&bytes.Buffer{}); err == nil {
		t.Error("WriteXLSX() expected error with no sheets")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{" XLSX ", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(ReportName, FormatXLSX); got != "Validation_Report.xlsx" {
		t.Errorf("FileName() = %q", got)
	}
	if got := FileName(CorrectedName, FormatCSV); got != "Corrected.csv" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("pdf"), testSheet())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Write() error = %v, want ErrUnsupportedFormat", err)
	}
}
