package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// SaveInPlace overwrites the roster's source CSV with the current
// state. Whole-file overwrite, no locking: concurrent sessions against
// the same file can race, which is an accepted limitation.
func (r *Roster) SaveInPlace() error {
	if !r.Source.Writable || r.Source.Path == "" || r.Source.Format != FormatCSV {
		return ErrReadOnlySource
	}
	f, err := os.Create(r.Source.Path)
	if err != nil {
		return fmt.Errorf("overwrite %s: %w", r.Source.Path, err)
	}
	if err := r.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", r.Source.Path, err)
	}
	return f.Close()
}

// WriteCSV streams the roster as CSV, header first, columns in order
func (r *Roster) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(r.Columns); err != nil {
		return err
	}
	row := make([]string, len(r.Columns))
	for _, rec := range r.Records {
		for i, col := range r.Columns {
			row[i] = rec[col]
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX streams the roster as a single-sheet XLSX workbook
func (r *Roster) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, rec := range r.Records {
		row := make([]interface{}, len(r.Columns))
		for j, col := range r.Columns {
			row[j] = rec[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteFile writes the roster to a new file, picking the format from
// the extension (.csv or .xlsx). Used by the extract and manifest CLIs.
func (r *Roster) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if len(path) > 5 && path[len(path)-5:] == ".xlsx" {
		return r.WriteXLSX(f)
	}
	return r.WriteCSV(f)
}
