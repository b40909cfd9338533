// Package extract converts raw registration JSON exports into a roster
// table, one row per unique team member.
package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/event-checkin-api/internal/models"
	"github.com/event-checkin-api/internal/roster"
)

// Columns is the fixed output column order for extracted rosters
var Columns = []string{
	"Team Name",
	"Name",
	"Srn",
	"Email",
	"Phone No",
	"Campus",
	"Sem",
	"Sec",
	"Dep",
	"Hostel/Day scholar",
	"Payment_url",
}

// FromDir reads every *.json registration file in dir and builds a
// roster. Files that fail to parse are logged and skipped; the rest
// still go through.
func FromDir(dir string, log zerolog.Logger) (*roster.Roster, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	sort.Strings(entries)

	var records []models.Record
	for _, path := range entries {
		rows, err := fromFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping registration file")
			continue
		}
		records = append(records, rows...)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no rows extracted from %s", dir)
	}

	out := roster.New(Columns, nil, roster.Source{})
	out.Records = records
	return out, nil
}

// fromFile reads one team's raw JSON export. Field names vary across
// export versions, so everything is read through candidate keys.
func fromFile(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	var members []map[string]json.RawMessage
	if msg, ok := raw["members"]; ok {
		if err := json.Unmarshal(msg, &members); err != nil {
			return nil, fmt.Errorf("parse members in %s: %w", filepath.Base(path), err)
		}
	}

	teamName := firstString(raw, "teamName", "team_name", "TeamName")
	campus := firstString(raw, "campus")

	var records []models.Record
	// dedupe by SRN, else email, else name+phone (e.g. a team leader
	// duplicated into the member list)
	seen := make(map[string]bool)

	for _, m := range members {
		name := firstString(m, "name", "fullName")
		srn := strings.TrimSpace(firstString(m, "srn", "SRN"))
		email := strings.TrimSpace(firstString(m, "email"))
		phone := firstString(m, "phone", "Phone")
		sem := joined(m, "semester", "sem")
		sec := firstString(m, "section", "sec")
		dep := joined(m, "department", "dept")
		hostel := joined(m, "hostel", "Hostel")

		paymentURL := firstString(m, "payment_url", "paymentUrl", "paymentDataUrl", "payment_data_url")
		if paymentURL == "" {
			// sometimes only a file name is present
			paymentURL = firstString(m, "paymentName", "payment_name")
		}

		key := srn
		if key == "" {
			key = email
		}
		if key == "" && (name != "" || phone != "") {
			key = name + "::" + phone
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		records = append(records, models.Record{
			"Team Name":          teamName,
			"Name":               name,
			"Srn":                srn,
			"Email":              email,
			"Phone No":           phone,
			"Campus":             campus,
			"Sem":                sem,
			"Sec":                sec,
			"Dep":                dep,
			"Hostel/Day scholar": hostel,
			"Payment_url":        paymentURL,
		})
	}

	return records, nil
}

// firstString returns the first candidate key holding a non-empty
// string (or number, stringified).
func firstString(m map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		msg, ok := m[k]
		if !ok {
			continue
		}
		if s := asString(msg); s != "" {
			return s
		}
	}
	return ""
}

// joined is firstString but list-valued fields become "a, b, c"
func joined(m map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		msg, ok := m[k]
		if !ok {
			continue
		}
		var list []json.RawMessage
		if err := json.Unmarshal(msg, &list); err == nil {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				if s := asString(item); s != "" {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
			continue
		}
		if s := asString(msg); s != "" {
			return s
		}
	}
	return ""
}

func asString(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(msg, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}
