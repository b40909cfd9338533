package mocks

import (
	"context"
	"io"

	"github.com/event-checkin-api/internal/models"
	"github.com/event-checkin-api/internal/service"
)

// MockRosterService is a mock implementation of RosterService
type MockRosterService struct {
	LoadFunc    func(ctx context.Context) error
	UploadFunc  func(ctx context.Context, filename string, r io.Reader) (string, error)
	SummaryFunc func(ctx context.Context) (*service.RosterSummary, error)
	RowsFunc    func(ctx context.Context, query string) ([]service.RowView, error)
	ToggleFunc  func(ctx context.Context, row int, category models.Category, value bool) error
	SaveFunc    func(ctx context.Context) error

	RowViews    []service.RowView
	SummaryData *service.RosterSummary
	Counts      map[string]int
	Toggled     []ToggleCall
	Saved       int
	CSVContent  string
}

// ToggleCall records one Toggle invocation
type ToggleCall struct {
	Row      int
	Category models.Category
	Value    bool
}

// Verify interface compliance
var _ service.RosterService = (*MockRosterService)(nil)

func NewMockRosterService() *MockRosterService {
	return &MockRosterService{
		Counts:     map[string]int{},
		CSVContent: "Name\n",
	}
}

func (m *MockRosterService) Load(ctx context.Context) error {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return nil
}

func (m *MockRosterService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, filename, r)
	}
	return "test-session-id", nil
}

func (m *MockRosterService) Summary(ctx context.Context) (*service.RosterSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	if m.SummaryData != nil {
		return m.SummaryData, nil
	}
	return &service.RosterSummary{SessionID: "test-session-id", Rows: len(m.RowViews)}, nil
}

func (m *MockRosterService) Rows(ctx context.Context, query string) ([]service.RowView, error) {
	if m.RowsFunc != nil {
		return m.RowsFunc(ctx, query)
	}
	return m.RowViews, nil
}

func (m *MockRosterService) Toggle(ctx context.Context, row int, category models.Category, value bool) error {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, row, category, value)
	}
	m.Toggled = append(m.Toggled, ToggleCall{Row: row, Category: category, Value: value})
	return nil
}

func (m *MockRosterService) Save(ctx context.Context) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx)
	}
	m.Saved++
	return nil
}

func (m *MockRosterService) ExportCSV(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, m.CSVContent)
	return err
}

func (m *MockRosterService) ExportXLSX(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, m.CSVContent)
	return err
}

func (m *MockRosterService) CategoryCounts(ctx context.Context) (map[string]int, error) {
	return m.Counts, nil
}

// MockAttendanceService is a mock implementation of AttendanceService
type MockAttendanceService struct {
	MarkFunc func(ctx context.Context, identifier string, categories []models.Category) (*models.MarkResult, error)
	Marked   []MarkCall
}

// MarkCall records one Mark invocation
type MarkCall struct {
	Identifier string
	Categories []models.Category
}

// Verify interface compliance
var _ service.AttendanceService = (*MockAttendanceService)(nil)

func NewMockAttendanceService() *MockAttendanceService {
	return &MockAttendanceService{}
}

func (m *MockAttendanceService) Mark(ctx context.Context, identifier string, categories []models.Category) (*models.MarkResult, error) {
	if m.MarkFunc != nil {
		return m.MarkFunc(ctx, identifier, categories)
	}
	m.Marked = append(m.Marked, MarkCall{Identifier: identifier, Categories: categories})
	return &models.MarkResult{
		Message:     "Marked",
		MatchedRows: []int{0},
		Persisted:   true,
	}, nil
}

// MockCodesService is a mock implementation of CodesService
type MockCodesService struct {
	GenerateFunc    func(ctx context.Context) (*service.GenerateResult, error)
	DecodeImageFunc func(ctx context.Context, imageBytes []byte) (string, error)
	BundleContent   string
	ManifestContent string
}

// Verify interface compliance
var _ service.CodesService = (*MockCodesService)(nil)

func NewMockCodesService() *MockCodesService {
	return &MockCodesService{
		ManifestContent: "Team Name,Name,QR\n",
	}
}

func (m *MockCodesService) Generate(ctx context.Context) (*service.GenerateResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx)
	}
	return &service.GenerateResult{Count: 0, Dir: "/tmp/codes"}, nil
}

func (m *MockCodesService) Bundle(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, m.BundleContent)
	return err
}

func (m *MockCodesService) Manifest(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, m.ManifestContent)
	return err
}

func (m *MockCodesService) DecodeImage(ctx context.Context, imageBytes []byte) (string, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(ctx, imageBytes)
	}
	return `{"team":"Test Team","name":"Test User"}`, nil
}
