package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/event-checkin-api/internal/models"
)

// Sentinel errors for roster operations
var (
	// ErrNoRoster means no readable roster source could be found
	ErrNoRoster = errors.New("no roster file found")
	// ErrRowOutOfRange means a row index does not exist in the roster
	ErrRowOutOfRange = errors.New("row index out of range")
	// ErrReadOnlySource means the session roster has no writable CSV source
	ErrReadOnlySource = errors.New("roster source is not a writable CSV")
)

// Format identifies the roster source file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Source describes where a roster was loaded from. Uploaded rosters
// have an empty Path and are never writable in place.
type Source struct {
	Path     string `json:"path,omitempty"`
	Format   Format `json:"format"`
	Writable bool   `json:"writable"`
}

// Roster is the participant table: an ordered, mutable collection of
// records plus the schema resolved from its headers. It is loaded once
// per session and mutated in place.
type Roster struct {
	Columns []string
	Records []models.Record
	Schema  models.Schema
	Source  Source
}

// New builds a roster from a header row and cell rows, resolving the
// identity schema from the headers.
func New(header []string, rows [][]string, source Source) *Roster {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(models.Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}

	r := &Roster{
		Columns: columns,
		Records: records,
		Source:  source,
	}
	r.Schema = resolveSchema(columns)
	return r
}

// resolveSchema picks the first matching header for each identity role.
// Candidates are resolved once here; accessors never fall back again.
func resolveSchema(columns []string) models.Schema {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	pick := func(candidates []string) string {
		for _, c := range candidates {
			if present[c] {
				return c
			}
		}
		return ""
	}
	return models.Schema{
		TeamName: pick(models.TeamNameCandidates),
		Name:     pick(models.NameCandidates),
		Srn:      pick(models.SrnCandidates),
		Email:    pick(models.EmailCandidates),
	}
}

// EnsureAttendanceColumns appends any missing flag and timestamp
// columns, defaulting flags to false and timestamps to empty. Called
// on every loaded roster; extraction output deliberately skips it so
// freshly extracted files match the registration data exactly.
func (r *Roster) EnsureAttendanceColumns() {
	for _, cat := range models.Categories {
		r.ensureColumn(string(cat), FormatFlag(false))
		r.ensureColumn(cat.TimestampColumn(), "")
	}
}

func (r *Roster) ensureColumn(name, defaultValue string) {
	for _, c := range r.Columns {
		if c == name {
			return
		}
	}
	r.Columns = append(r.Columns, name)
	for _, rec := range r.Records {
		rec[name] = defaultValue
	}
}

// Len returns the number of records
func (r *Roster) Len() int {
	return len(r.Records)
}

// Row returns the record at index
func (r *Roster) Row(index int) (models.Record, error) {
	if index < 0 || index >= len(r.Records) {
		return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, index)
	}
	return r.Records[index], nil
}

// SetFlag sets an attendance flag on one row and keeps the paired
// timestamp in step: stamped when true, cleared when false.
func (r *Roster) SetFlag(index int, category models.Category, value bool, timestamp string) error {
	rec, err := r.Row(index)
	if err != nil {
		return err
	}
	rec[string(category)] = FormatFlag(value)
	if value {
		rec[category.TimestampColumn()] = timestamp
	} else {
		rec[category.TimestampColumn()] = ""
	}
	return nil
}

// Flag reads an attendance flag from one row
func (r *Roster) Flag(index int, category models.Category) (bool, error) {
	rec, err := r.Row(index)
	if err != nil {
		return false, err
	}
	return ParseFlag(rec[string(category)]), nil
}

// Search returns indexes of rows whose name or team name contains the
// query, case-insensitive. An empty query matches every row.
func (r *Roster) Search(query string) []int {
	if query == "" {
		out := make([]int, len(r.Records))
		for i := range r.Records {
			out[i] = i
		}
		return out
	}
	q := strings.ToLower(query)
	var out []int
	for i, rec := range r.Records {
		name := strings.ToLower(r.Schema.NameOf(rec))
		team := strings.ToLower(r.Schema.TeamNameOf(rec))
		if strings.Contains(name, q) || strings.Contains(team, q) {
			out = append(out, i)
		}
	}
	return out
}

// ParseFlag interprets a spreadsheet cell as a boolean flag.
// Blank cells and unrecognized values are false.
func ParseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}

// FormatFlag renders a boolean the way the roster files spell it
func FormatFlag(value bool) string {
	if value {
		return "True"
	}
	return "False"
}
