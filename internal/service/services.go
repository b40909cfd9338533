package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/event-checkin-api/internal/config"
	"github.com/event-checkin-api/internal/models"
)

// RosterService defines the interface for roster session operations
type RosterService interface {
	// Load opens the default on-disk roster for this session
	Load(ctx context.Context) error
	// Upload replaces the session roster from an uploaded file and
	// returns the new session id
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	Summary(ctx context.Context) (*RosterSummary, error)
	// Rows returns the roster rows matching the query (all rows when
	// the query is empty)
	Rows(ctx context.Context, query string) ([]RowView, error)
	// Toggle sets one attendance flag on one row
	Toggle(ctx context.Context, row int, category models.Category, value bool) error
	// Save overwrites the session's source CSV in place
	Save(ctx context.Context) error
	ExportCSV(ctx context.Context, w io.Writer) error
	ExportXLSX(ctx context.Context, w io.Writer) error
	// CategoryCounts returns how many rows are marked per category
	CategoryCounts(ctx context.Context) (map[string]int, error)
}

// AttendanceService defines the interface for scan-driven marking
type AttendanceService interface {
	// Mark resolves an identifier against Srn/Email/Name and flags the
	// requested categories on every matching row
	Mark(ctx context.Context, identifier string, categories []models.Category) (*models.MarkResult, error)
}

// CodesService defines the interface for badge barcode operations
type CodesService interface {
	// Generate writes one barcode PNG per roster row
	Generate(ctx context.Context) (*GenerateResult, error)
	// Bundle streams a zip of all generated PNGs
	Bundle(ctx context.Context, w io.Writer) error
	// Manifest streams the printing manifest CSV
	Manifest(ctx context.Context, w io.Writer) error
	// DecodeImage decodes a barcode from raw image bytes
	DecodeImage(ctx context.Context, imageBytes []byte) (string, error)
}

// RowView is one roster row as presented to the API
type RowView struct {
	Index      int               `json:"index"`
	TeamName   string            `json:"team_name"`
	Name       string            `json:"name"`
	Flags      map[string]bool   `json:"flags"`
	Timestamps map[string]string `json:"timestamps"`
}

// RosterSummary describes the current session roster
type RosterSummary struct {
	SessionID  string        `json:"session_id"`
	Rows       int           `json:"rows"`
	Columns    []string      `json:"columns"`
	Schema     models.Schema `json:"schema"`
	SourcePath string        `json:"source_path,omitempty"`
	Writable   bool          `json:"writable"`
}

// GenerateResult reports a batch barcode generation
type GenerateResult struct {
	Count int      `json:"count"`
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
}

// Services holds all service interfaces
type Services struct {
	Roster     RosterService
	Attendance AttendanceService
	Codes      CodesService
}

// NewServices creates all services
func NewServices(cfg *config.Config, log zerolog.Logger) *Services {
	rosterSvc := newRosterService(cfg, log)
	attendanceSvc := newAttendanceService(rosterSvc, log)
	codesSvc := newCodesService(rosterSvc, cfg, log)

	return &Services{
		Roster:     rosterSvc,
		Attendance: attendanceSvc,
		Codes:      codesSvc,
	}
}
