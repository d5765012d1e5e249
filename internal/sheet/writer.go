package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/assetcheck/internal/core"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case; "" means csv.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Output sheet names. File names add the format extension.
const (
	CorrectedName = "Corrected"
	ReportName    = "Validation Report"
)

// FileName returns the download name for a sheet, e.g. "Validation_Report.xlsx".
func FileName(sheetName string, f Format) string {
	return strings.ReplaceAll(sheetName, " ", "_") + f.Ext()
}

// Sheet is a named table ready to be written.
type Sheet struct {
	Name    string
	Columns []string
	Records []core.Record
}

// CorrectedSheet returns the corrected table of run.
func CorrectedSheet(run *core.Run) Sheet {
	return Sheet{
		Name:    CorrectedName,
		Columns: run.CorrectedColumns(),
		Records: run.Result.CorrectedTable,
	}
}

// ReportSheet returns the validation report of run.
func ReportSheet(run *core.Run) Sheet {
	return Sheet{
		Name:    ReportName,
		Columns: run.ReportColumns(),
		Records: run.ReportRows(),
	}
}

// Write encodes s in format f.
func Write(w io.Writer, f Format, s Sheet) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, s)
	case FormatCSV:
		return WriteCSV(w, s)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// WriteCSV writes s with a header row. Missing values are written as "".
func WriteCSV(w io.Writer, s Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(s.Columns))
	for i, rec := range s.Records {
		for j, col := range s.Columns {
			row[j] = rec[col]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes one workbook containing every sheet, in order.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("write xlsx: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("add sheet %q: %w", s.Name, err)
		}

		if err := writeXLSXRows(f, s); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeXLSXRows(f *excelize.File, s Sheet) error {
	header := make([]interface{}, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("sheet %q header: %w", s.Name, err)
	}

	row := make([]interface{}, len(s.Columns))
	for i, rec := range s.Records {
		for j, col := range s.Columns {
			row[j] = rec[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
			return fmt.Errorf("sheet %q row %d: %w", s.Name, i+1, err)
		}
	}
	return nil
}
