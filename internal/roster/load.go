package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Open probes an explicit path (when non-empty) and then the default
// candidates in order, loading the first readable roster. CSV sources
// are writable in place; XLSX sources are export-only.
func Open(explicitPath string, candidates []string) (*Roster, error) {
	paths := candidates
	if explicitPath != "" {
		paths = append([]string{explicitPath}, candidates...)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return LoadFile(p)
	}
	return nil, ErrNoRoster
}

// LoadFile loads a roster from an on-disk CSV or XLSX file
func LoadFile(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return LoadCSV(f, Source{Path: path, Format: FormatCSV, Writable: true})
	case ".xlsx", ".xls":
		return LoadXLSX(f, Source{Path: path, Format: FormatXLSX, Writable: false})
	default:
		return nil, fmt.Errorf("unsupported roster file: %s", path)
	}
}

// LoadUpload loads a roster from an uploaded file. Uploaded rosters are
// in-memory only: there is no source path to write back to.
func LoadUpload(filename string, r io.Reader) (*Roster, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return LoadCSV(r, Source{Format: FormatCSV, Writable: false})
	case ".xlsx", ".xls":
		return LoadXLSX(r, Source{Format: FormatXLSX, Writable: false})
	default:
		return nil, fmt.Errorf("unsupported upload type: %s", ext)
	}
}

// LoadCSV reads a roster from CSV. The first row is the header; short
// rows are padded so missing cells behave as empty strings.
func LoadCSV(r io.Reader, source Source) (*Roster, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("roster CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}

	out := New(header, rows, source)
	out.EnsureAttendanceColumns()
	return out, nil
}

// LoadXLSX reads a roster from the first sheet of an XLSX workbook
func LoadXLSX(r io.Reader, source Source) (*Roster, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	out := New(rows[0], rows[1:], source)
	out.EnsureAttendanceColumns()
	return out, nil
}
