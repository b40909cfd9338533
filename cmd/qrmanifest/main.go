// Command qrmanifest builds qr_manifest.csv from the roster: one
// (Team Name, Name, QR path) row per participant, for handing to an
// external badge-printing workflow.
package main

import (
	"flag"
	"os"

	"github.com/event-checkin-api/internal/barcode"
	"github.com/event-checkin-api/internal/config"
	"github.com/event-checkin-api/internal/models"
	"github.com/event-checkin-api/internal/roster"
	"github.com/event-checkin-api/pkg/logger"
)

func main() {
	rosterPath := flag.String("roster", "", "roster file (default: probe the usual candidates)")
	out := flag.String("out", "qr_manifest.csv", "output manifest path")
	template := flag.String("template", os.Getenv("QR_PATH_TEMPLATE"), "QR path template; {filename} is replaced per row")
	flag.Parse()

	log := logger.New()

	if *template == "" {
		*template = "{filename}"
	}

	r, err := roster.Open(*rosterPath, config.DefaultRosterCandidates)
	if err != nil {
		log.Fatal().Err(err).Msg("No roster found; put teams.csv or teams.xlsx in the current folder")
	}
	log.Info().Str("path", r.Source.Path).Int("rows", r.Len()).Msg("Roster loaded")

	if r.Schema.Name == "" {
		log.Fatal().Strs("columns", r.Columns).Msg("No name column found in roster")
	}

	rows := make([]models.ManifestRow, 0, r.Len())
	for _, rec := range r.Records {
		rows = append(rows, barcode.ManifestRowFor(
			r.Schema.TeamNameOf(rec),
			r.Schema.NameOf(rec),
			*template,
		))
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("Failed to create manifest")
	}
	defer f.Close()

	if err := barcode.WriteManifest(f, rows); err != nil {
		log.Fatal().Err(err).Msg("Failed to write manifest")
	}
	log.Info().Str("path", *out).Int("rows", len(rows)).Msg("Wrote manifest")
}
