package barcode

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/event-checkin-api/internal/models"
)

// ManifestRowFor builds one printing-manifest row. The template's
// {filename} placeholder is replaced with the participant's PNG name,
// so the QR column can point into an external print workflow's folder.
func ManifestRowFor(team, name, template string) models.ManifestRow {
	return models.ManifestRow{
		TeamName: team,
		Name:     name,
		QRPath:   strings.ReplaceAll(template, "{filename}", FileName(team, name)),
	}
}

// WriteManifest writes the manifest CSV: header then one row per
// participant.
func WriteManifest(w io.Writer, rows []models.ManifestRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Team Name", "Name", "QR"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.TeamName, row.Name, row.QRPath}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
