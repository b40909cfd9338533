package models

// ScanPayload is the JSON embedded in a generated barcode.
// Only team and name are encoded; the name doubles as the identifier
// when a scan is marked.
type ScanPayload struct {
	Team string `json:"team"`
	Name string `json:"name"`
}

// DecodedPayload is what the scanner side reads back. Older badges
// carried an explicit id; current ones only carry team/name, so the
// identifier is id when present, else name.
type DecodedPayload struct {
	ID   string `json:"id,omitempty"`
	Team string `json:"team,omitempty"`
	Name string `json:"name,omitempty"`
}

// Identifier returns the lookup key for attendance marking
func (p DecodedPayload) Identifier() string {
	if p.ID != "" {
		return p.ID
	}
	return p.Name
}

// MarkResult reports the outcome of an attendance marking
type MarkResult struct {
	Message string `json:"message"`
	// MatchedRows are the roster indexes that were marked
	MatchedRows []int `json:"matched_rows"`
	// Persisted is false when the in-memory update succeeded but the
	// in-place CSV write failed (degraded success)
	Persisted bool `json:"persisted"`
}

// ManifestRow is one line of the printing manifest: a flat
// (team, name, code path) triple, one per participant.
type ManifestRow struct {
	TeamName string `json:"team_name"`
	Name     string `json:"name"`
	QRPath   string `json:"qr_path"`
}
