package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/event-checkin-api/internal/models"
	"github.com/event-checkin-api/internal/roster"
)

// attendanceService is the concrete implementation of AttendanceService
type attendanceService struct {
	rosters *rosterService
	log     zerolog.Logger
	// now is swappable so tests get a fixed clock
	now func() time.Time
}

// newAttendanceService creates a new AttendanceService
func newAttendanceService(rosters *rosterService, log zerolog.Logger) *attendanceService {
	return &attendanceService{
		rosters: rosters,
		log:     log.With().Str("service", "attendance").Logger(),
		now:     time.Now,
	}
}

// Mark resolves the identifier against the Srn, Email and Name columns
// (exact, case-sensitive; a missing column behaves as all-empty) and
// sets every requested category on every matching row, stamping the
// paired timestamp column. Marking all matches is deliberate: if two
// rows carry the same identifier value, both are marked.
//
// When the roster came from a writable CSV the whole file is written
// back afterwards. A failed write does not roll the marking back; it
// is reported as a degraded success.
func (s *attendanceService) Mark(ctx context.Context, identifier string, categories []models.Category) (*models.MarkResult, error) {
	for _, cat := range categories {
		if !models.ValidCategories[cat] {
			return nil, &UnknownCategoryError{Category: cat}
		}
	}

	var result *models.MarkResult
	err := s.rosters.withRoster(func(r *roster.Roster) error {
		var matched []int
		for i, rec := range r.Records {
			if r.Schema.SrnOf(rec) == identifier ||
				r.Schema.EmailOf(rec) == identifier ||
				r.Schema.NameOf(rec) == identifier {
				matched = append(matched, i)
			}
		}
		if len(matched) == 0 {
			return &NoMatchError{Identifier: identifier}
		}

		timestamp := s.now().Format(time.RFC3339)
		for _, idx := range matched {
			for _, cat := range categories {
				if err := r.SetFlag(idx, cat, true, timestamp); err != nil {
					return err
				}
			}
		}

		result = &models.MarkResult{
			Message:     "Marked",
			MatchedRows: matched,
			Persisted:   true,
		}

		if r.Source.Writable {
			if err := r.SaveInPlace(); err != nil {
				// marked in memory but not on disk
				result.Persisted = false
				result.Message = fmt.Sprintf("Marked (but failed to write to source CSV: %v)", err)
				s.log.Warn().Err(err).Str("path", r.Source.Path).Msg("Attendance marked but not persisted")
			}
		}
		return nil
	})
	if err != nil {
		var noMatch *NoMatchError
		if errors.As(err, &noMatch) {
			s.log.Info().Str("identifier", identifier).Msg("No matching row for scan")
		}
		return nil, err
	}

	s.log.Info().
		Str("identifier", identifier).
		Ints("rows", result.MatchedRows).
		Bool("persisted", result.Persisted).
		Msg("Attendance marked")
	return result, nil
}
