package service

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/event-checkin-api/internal/barcode"
	"github.com/event-checkin-api/internal/config"
	"github.com/event-checkin-api/internal/models"
	"github.com/event-checkin-api/internal/roster"
)

// codesService is the concrete implementation of CodesService
type codesService struct {
	rosters *rosterService
	cfg     *config.Config
	log     zerolog.Logger
}

// newCodesService creates a new CodesService
func newCodesService(rosters *rosterService, cfg *config.Config, log zerolog.Logger) *codesService {
	return &codesService{
		rosters: rosters,
		cfg:     cfg,
		log:     log.With().Str("service", "codes").Logger(),
	}
}

// Generate renders one barcode PNG per roster row into the configured
// output directory. File names are <team>_<name>.png after
// sanitization, so regenerating overwrites the previous batch.
func (s *codesService) Generate(ctx context.Context) (*GenerateResult, error) {
	if err := os.MkdirAll(s.cfg.Codes.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	result := &GenerateResult{Dir: s.cfg.Codes.OutputDir}
	err := s.rosters.withRoster(func(r *roster.Roster) error {
		for _, rec := range r.Records {
			team := r.Schema.TeamNameOf(rec)
			name := r.Schema.NameOf(rec)

			payload, err := barcode.MakePayload(team, name)
			if err != nil {
				return err
			}
			data, kind, err := barcode.Render(payload, s.cfg.Codes.Scale)
			if err != nil {
				return fmt.Errorf("render code for %q: %w", name, err)
			}

			dest := filepath.Join(s.cfg.Codes.OutputDir, barcode.FileName(team, name))
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", dest, err)
			}
			result.Files = append(result.Files, dest)
			result.Count++

			s.log.Debug().
				Str("file", dest).
				Str("kind", string(kind)).
				Msg("Code generated")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("count", result.Count).
		Str("dir", result.Dir).
		Msg("Codes generated")
	return result, nil
}

// Bundle streams a zip archive of every PNG in the output directory
func (s *codesService) Bundle(ctx context.Context, w io.Writer) error {
	entries, err := filepath.Glob(filepath.Join(s.cfg.Codes.OutputDir, "*.png"))
	if err != nil {
		return fmt.Errorf("list codes: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no generated codes in %s", s.cfg.Codes.OutputDir)
	}

	zw := zip.NewWriter(w)
	for _, path := range entries {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		entry, err := zw.Create(filepath.Base(path))
		if err != nil {
			return err
		}
		if _, err := entry.Write(data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}

	s.log.Info().Int("count", len(entries)).Msg("Codes bundled")
	return nil
}

// Manifest streams the printing manifest CSV: one (Team Name, Name,
// QR path) row per participant, with the path built from the
// configured template.
func (s *codesService) Manifest(ctx context.Context, w io.Writer) error {
	var rows []models.ManifestRow
	err := s.rosters.withRoster(func(r *roster.Roster) error {
		if r.Schema.Name == "" {
			return fmt.Errorf("no name column found in roster (columns: %s)", strings.Join(r.Columns, ", "))
		}
		for _, rec := range r.Records {
			rows = append(rows, barcode.ManifestRowFor(
				r.Schema.TeamNameOf(rec),
				r.Schema.NameOf(rec),
				s.cfg.Codes.PathTemplate,
			))
		}
		return nil
	})
	if err != nil {
		return err
	}

	return barcode.WriteManifest(w, rows)
}

// DecodeImage decodes a barcode from raw image bytes and returns the
// embedded payload text.
func (s *codesService) DecodeImage(ctx context.Context, imageBytes []byte) (string, error) {
	text, kind, err := barcode.Decode(imageBytes)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("kind", string(kind)).Msg("Code decoded")
	return text, nil
}
