// Command extract converts a directory of registration JSON exports
// into teams.csv and teams.xlsx roster files.
package main

import (
	"flag"

	"github.com/event-checkin-api/internal/extract"
	"github.com/event-checkin-api/pkg/logger"
)

func main() {
	dir := flag.String("dir", "JSON", "directory of registration *.json files")
	csvOut := flag.String("csv", "teams.csv", "output roster CSV path")
	xlsxOut := flag.String("xlsx", "teams.xlsx", "output roster XLSX path")
	flag.Parse()

	log := logger.New()

	r, err := extract.FromDir(*dir, log)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("Extraction failed")
	}

	if err := r.WriteFile(*csvOut); err != nil {
		log.Fatal().Err(err).Str("path", *csvOut).Msg("Failed to write CSV")
	}
	log.Info().Str("path", *csvOut).Int("rows", r.Len()).Msg("Wrote CSV")

	if err := r.WriteFile(*xlsxOut); err != nil {
		log.Fatal().Err(err).Str("path", *xlsxOut).Msg("Failed to write XLSX")
	}
	log.Info().Str("path", *xlsxOut).Int("rows", r.Len()).Msg("Wrote XLSX")
}
