package barcode

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/event-checkin-api/internal/models"
)

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9 _-]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// MakePayload builds the compact JSON embedded in a badge barcode.
// Only team and name go in; the name doubles as the scan identifier.
func MakePayload(team, name string) (string, error) {
	data, err := json.Marshal(models.ScanPayload{Team: team, Name: name})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

// ParsePayload parses a decoded barcode string back into a payload
func ParsePayload(text string) (models.DecodedPayload, error) {
	var p models.DecodedPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return models.DecodedPayload{}, fmt.Errorf("parse payload: %w", err)
	}
	return p, nil
}

// SanitizeFilename makes a string safe for use in a file name: only
// alphanumerics, space, underscore and hyphen survive; runs of
// whitespace collapse to a single underscore.
func SanitizeFilename(s string) string {
	s = unsafeChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "unknown"
	}
	return s
}

// FileName returns the PNG file name for a participant's badge
func FileName(team, name string) string {
	return SanitizeFilename(team) + "_" + SanitizeFilename(name) + ".png"
}
