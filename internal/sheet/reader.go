// Package sheet reads asset sheets into records and writes result sheets.
//
// It is the thin I/O layer around the engine in core: readers produce a
// core.Dataset with every header present on every record (missing cells
// filled with ""), and writers serialize corrected and report tables as CSV
// or XLSX.
package sheet

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/assetcheck/internal/core"
)

var (
	// ErrEmptyFile is returned when a file has no header row.
	ErrEmptyFile = errors.New("empty file")

	// ErrUnsupportedFormat is returned for extensions other than csv, xlsx and json.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidHeader is returned for blank or repeated column names.
	ErrInvalidHeader = errors.New("invalid header")
)

// Read parses r according to the extension of name.
func Read(name string, r io.Reader) (core.Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return ReadCSV(name, r)
	case ".xlsx", ".xlsm":
		return ReadXLSX(name, r)
	case ".json":
		return ReadJSON(name, r)
	default:
		return core.Dataset{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadCSV parses a comma-separated sheet with a header row.
func ReadCSV(name string, r io.Reader) (core.Dataset, error) {
	cr := csv.NewReader(normalize(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return core.Dataset{}, fmt.Errorf("invalid csv: %w", err)
	}
	return buildDataset(name, rows)
}

// ReadXLSX parses the first worksheet of a workbook.
func ReadXLSX(name string, r io.Reader) (core.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return core.Dataset{}, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return core.Dataset{}, fmt.Errorf("invalid xlsx: sheet %q: %w", sheets[0], err)
	}
	return buildDataset(name, rows)
}

// ReadJSON parses a JSON array of objects. Values keep their JSON types so
// the engine can report values that are not text.
func ReadJSON(name string, r io.Reader) (core.Dataset, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(normalize(r)).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Dataset{}, ErrEmptyFile
		}
		return core.Dataset{}, fmt.Errorf("invalid json: %w", err)
	}

	var headers []string
	seen := make(map[string]bool)
	raw := make([]core.RawRecord, 0, len(items))

	for i, item := range items {
		keys, err := objectKeys(item)
		if err != nil {
			return core.Dataset{}, fmt.Errorf("invalid json: row %d: %w", i+1, err)
		}

		dec := json.NewDecoder(strings.NewReader(string(item)))
		dec.UseNumber()
		rec := make(core.RawRecord, len(keys))
		if err := dec.Decode(&rec); err != nil {
			return core.Dataset{}, fmt.Errorf("invalid json: row %d: %w", i+1, err)
		}

		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}

		cleanStrings(rec)
		if blankObject(rec) {
			continue
		}
		raw = append(raw, rec)
	}

	// Fill columns a row omitted so every record carries every header.
	for _, rec := range raw {
		for _, h := range headers {
			if _, ok := rec[h]; !ok {
				rec[h] = ""
			}
		}
	}

	return core.Dataset{FileName: name, Headers: headers, Raw: raw}, nil
}

// cleanStrings applies CleanCell to every string value of rec.
func cleanStrings(rec core.RawRecord) {
	for k, v := range rec {
		if str, ok := v.(string); ok {
			rec[k] = CleanCell(str)
		}
	}
}

// blankObject reports whether every value of rec is null or an empty string.
func blankObject(rec core.RawRecord) bool {
	for _, v := range rec {
		switch v := v.(type) {
		case nil:
		case string:
			if v != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(data json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected an object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("expected an object key")
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// buildDataset turns a header row plus data rows into records.
// Fully blank rows are skipped; short rows are filled with "".
func buildDataset(name string, rows [][]string) (core.Dataset, error) {
	if len(rows) == 0 {
		return core.Dataset{}, ErrEmptyFile
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = CleanCell(h)
	}

	cols, err := headerColumns(header, rows[1:])
	if err != nil {
		return core.Dataset{}, err
	}
	if len(cols) == 0 {
		return core.Dataset{}, ErrEmptyFile
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = header[c]
	}

	records := make([]core.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rec := make(core.Record, len(cols))
		for i, c := range cols {
			val := ""
			if c < len(row) {
				val = CleanCell(row[c])
			}
			rec[headers[i]] = val
		}
		records = append(records, rec)
	}

	return core.Dataset{FileName: name, Headers: headers, Records: records}, nil
}

// headerColumns returns the indexes of named columns. A blank header is
// tolerated only when the column is empty in every row.
func headerColumns(header []string, data [][]string) ([]int, error) {
	seen := make(map[string]int, len(header))
	var cols []int

	for i, h := range header {
		if h == "" {
			if !blankColumn(data, i) {
				return nil, fmt.Errorf("%w: column %d has data but no name", ErrInvalidHeader, i+1)
			}
			continue
		}
		if prev, dup := seen[h]; dup {
			return nil, fmt.Errorf("%w: %q appears in columns %d and %d", ErrInvalidHeader, h, prev+1, i+1)
		}
		seen[h] = i
		cols = append(cols, i)
	}
	return cols, nil
}

func blankColumn(data [][]string, col int) bool {
	for _, row := range data {
		if col < len(row) && CleanCell(row[col]) != "" {
			return false
		}
	}
	return true
}

func blankRow(row []string) bool {
	for _, c := range row {
		if CleanCell(c) != "" {
			return false
		}
	}
	return true
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace and the Excel text-formula wrapper ="...".
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return s
}
