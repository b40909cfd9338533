package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/event-checkin-api/internal/config"
	"github.com/event-checkin-api/internal/models"
	"github.com/event-checkin-api/internal/roster"
)

// rosterService is the concrete implementation of RosterService. It
// owns the session-scoped roster; sibling services reach the roster
// through it so every mutation happens under one lock. Each operation
// runs to completion before the next; there is no background work.
type rosterService struct {
	cfg *config.Config
	log zerolog.Logger

	mu        sync.Mutex
	sessionID string
	roster    *roster.Roster
}

// newRosterService creates a new RosterService
func newRosterService(cfg *config.Config, log zerolog.Logger) *rosterService {
	return &rosterService{
		cfg: cfg,
		log: log.With().Str("service", "roster").Logger(),
	}
}

// withRoster runs fn with the session roster under the lock
func (s *rosterService) withRoster(fn func(r *roster.Roster) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roster == nil {
		return roster.ErrNoRoster
	}
	return fn(s.roster)
}

// Load opens the default on-disk roster for this session
func (s *rosterService) Load(ctx context.Context) error {
	r, err := roster.Open(s.cfg.Roster.Path, config.DefaultRosterCandidates)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.roster = r
	s.sessionID = uuid.New().String()
	s.mu.Unlock()

	s.log.Info().
		Str("path", r.Source.Path).
		Str("format", string(r.Source.Format)).
		Bool("writable", r.Source.Writable).
		Int("rows", r.Len()).
		Msg("Roster loaded")
	return nil
}

// Upload replaces the session roster from an uploaded file. Uploaded
// rosters are kept in memory only; Save is unavailable until a new
// on-disk roster is loaded.
func (s *rosterService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	loaded, err := roster.LoadUpload(filename, r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.roster = loaded
	s.sessionID = uuid.New().String()
	id := s.sessionID
	s.mu.Unlock()

	s.log.Info().
		Str("filename", filename).
		Str("session_id", id).
		Int("rows", loaded.Len()).
		Msg("Roster uploaded")
	return id, nil
}

// Summary describes the current session roster
func (s *rosterService) Summary(ctx context.Context) (*RosterSummary, error) {
	var out *RosterSummary
	err := s.withRoster(func(r *roster.Roster) error {
		out = &RosterSummary{
			SessionID:  s.sessionID,
			Rows:       r.Len(),
			Columns:    append([]string(nil), r.Columns...),
			Schema:     r.Schema,
			SourcePath: r.Source.Path,
			Writable:   r.Source.Writable,
		}
		return nil
	})
	return out, err
}

// Rows returns the roster rows matching the query
func (s *rosterService) Rows(ctx context.Context, query string) ([]RowView, error) {
	var out []RowView
	err := s.withRoster(func(r *roster.Roster) error {
		for _, idx := range r.Search(query) {
			rec := r.Records[idx]
			view := RowView{
				Index:      idx,
				TeamName:   r.Schema.TeamNameOf(rec),
				Name:       r.Schema.NameOf(rec),
				Flags:      make(map[string]bool, len(models.Categories)),
				Timestamps: make(map[string]string, len(models.Categories)),
			}
			for _, cat := range models.Categories {
				view.Flags[string(cat)] = roster.ParseFlag(rec[string(cat)])
				view.Timestamps[string(cat)] = rec[cat.TimestampColumn()]
			}
			out = append(out, view)
		}
		return nil
	})
	return out, err
}

// Toggle sets one attendance flag on one row, keeping the paired
// timestamp in step.
func (s *rosterService) Toggle(ctx context.Context, row int, category models.Category, value bool) error {
	if !models.ValidCategories[category] {
		return &UnknownCategoryError{Category: category}
	}
	err := s.withRoster(func(r *roster.Roster) error {
		return r.SetFlag(row, category, value, time.Now().Format(time.RFC3339))
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Int("row", row).
		Str("category", string(category)).
		Bool("value", value).
		Msg("Flag toggled")
	return nil
}

// Save overwrites the session's source CSV in place
func (s *rosterService) Save(ctx context.Context) error {
	err := s.withRoster(func(r *roster.Roster) error {
		return r.SaveInPlace()
	})
	if err != nil {
		return err
	}
	s.log.Info().Msg("Roster saved to source CSV")
	return nil
}

// ExportCSV streams the current roster as CSV
func (s *rosterService) ExportCSV(ctx context.Context, w io.Writer) error {
	return s.withRoster(func(r *roster.Roster) error {
		return r.WriteCSV(w)
	})
}

// ExportXLSX streams the current roster as an XLSX workbook
func (s *rosterService) ExportXLSX(ctx context.Context, w io.Writer) error {
	return s.withRoster(func(r *roster.Roster) error {
		return r.WriteXLSX(w)
	})
}

// CategoryCounts returns how many rows are marked per category
func (s *rosterService) CategoryCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(models.Categories))
	err := s.withRoster(func(r *roster.Roster) error {
		for _, cat := range models.Categories {
			counts[string(cat)] = 0
			for _, rec := range r.Records {
				if roster.ParseFlag(rec[string(cat)]) {
					counts[string(cat)]++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
