package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/event-checkin-api/internal/config"
	"github.com/event-checkin-api/internal/models"
	"github.com/event-checkin-api/internal/roster"
)

func writeTestRoster(t *testing.T, content string) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "teams.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		Roster: config.RosterConfig{Path: path},
		Codes: config.CodesConfig{
			OutputDir:    filepath.Join(dir, "qrcodes"),
			PathTemplate: "{filename}",
			Scale:        256,
		},
	}
	return cfg, path
}

func newTestServices(t *testing.T, content string) (*Services, string) {
	t.Helper()
	cfg, path := writeTestRoster(t, content)
	svcs := NewServices(cfg, zerolog.Nop())
	if err := svcs.Roster.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svcs, path
}

func TestMarkByEmail(t *testing.T) {
	svcs, path := newTestServices(t, "Name,Srn,Email\nAlice,1,a@x.com\n")

	result, err := svcs.Attendance.Mark(context.Background(), "a@x.com", []models.Category{models.CategoryDinner})
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if result.Message != "Marked" {
		t.Errorf("message = %q", result.Message)
	}
	if !result.Persisted {
		t.Error("result should be persisted")
	}
	if len(result.MatchedRows) != 1 || result.MatchedRows[0] != 0 {
		t.Errorf("matched = %v, want [0]", result.MatchedRows)
	}

	// the change must be on disk, not just in memory
	reloaded, err := roster.LoadFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Records[0]["Dinner"]; got != "True" {
		t.Errorf("Dinner on disk = %q, want True", got)
	}
	ts := reloaded.Records[0]["Dinner_ts"]
	if ts == "" {
		t.Fatal("Dinner_ts should be non-empty")
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("Dinner_ts %q is not RFC3339: %v", ts, err)
	}
	// unrelated flags untouched
	if got := reloaded.Records[0]["Pizza"]; got != "False" {
		t.Errorf("Pizza on disk = %q, want False", got)
	}
}

func TestMarkBySrnAndByName(t *testing.T) {
	svcs, _ := newTestServices(t, "Name,Srn,Email\nAlice,PES123,a@x.com\n")

	if _, err := svcs.Attendance.Mark(context.Background(), "PES123", []models.Category{models.CategoryPizza}); err != nil {
		t.Errorf("Mark by SRN: %v", err)
	}
	if _, err := svcs.Attendance.Mark(context.Background(), "Alice", []models.Category{models.CategoryMRD}); err != nil {
		t.Errorf("Mark by name: %v", err)
	}
	// match is case-sensitive
	if _, err := svcs.Attendance.Mark(context.Background(), "alice", nil); err == nil {
		t.Error("lowercased name should not match")
	}
}

func TestMarkNoMatchLeavesRosterUntouched(t *testing.T) {
	svcs, path := newTestServices(t, "Name,Srn,Email\nAlice,1,a@x.com\n")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	_, err = svcs.Attendance.Mark(context.Background(), "nobody", []models.Category{models.CategoryDinner})
	var noMatch *NoMatchError
	if !errors.As(err, &noMatch) {
		t.Fatalf("err = %v, want NoMatchError", err)
	}
	if err.Error() != "No matching row found for id 'nobody'" {
		t.Errorf("message = %q", err.Error())
	}

	rows, err := svcs.Roster.Rows(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	for _, cat := range models.Categories {
		if rows[0].Flags[string(cat)] {
			t.Errorf("%s should still be false", cat)
		}
		if rows[0].Timestamps[string(cat)] != "" {
			t.Errorf("%s timestamp should still be empty", cat)
		}
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("source file must not change on a failed match")
	}
}

func TestMarkAmbiguousIdentifierMarksEveryMatch(t *testing.T) {
	// two rows share an empty email; marking "" flags both
	svcs, _ := newTestServices(t, "Name,Srn,Email\nAlice,1,\nBob,2,\n")

	result, err := svcs.Attendance.Mark(context.Background(), "", []models.Category{models.CategoryPizza})
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if len(result.MatchedRows) != 2 {
		t.Fatalf("matched = %v, want both rows", result.MatchedRows)
	}

	rows, err := svcs.Roster.Rows(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	for i := range rows {
		if !rows[i].Flags["Pizza"] {
			t.Errorf("row %d Pizza should be true", i)
		}
	}
}

func TestMarkIsIdempotentOnFlagState(t *testing.T) {
	svcs, _ := newTestServices(t, "Name,Srn,Email\nAlice,1,a@x.com\n")
	cats := []models.Category{models.CategoryDinner, models.CategoryBreakfast}

	if _, err := svcs.Attendance.Mark(context.Background(), "a@x.com", cats); err != nil {
		t.Fatal(err)
	}
	if _, err := svcs.Attendance.Mark(context.Background(), "a@x.com", cats); err != nil {
		t.Fatal(err)
	}

	rows, err := svcs.Roster.Rows(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if !rows[0].Flags["Dinner"] || !rows[0].Flags["Breakfast"] {
		t.Error("flags should remain true after a second mark")
	}
}

func TestMarkRejectsUnknownCategory(t *testing.T) {
	svcs, _ := newTestServices(t, "Name,Srn,Email\nAlice,1,a@x.com\n")

	_, err := svcs.Attendance.Mark(context.Background(), "a@x.com", []models.Category{"Lunch"})
	var unknown *UnknownCategoryError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownCategoryError", err)
	}

	rows, _ := svcs.Roster.Rows(context.Background(), "")
	if rows[0].Flags["Dinner"] {
		t.Error("roster must be untouched after an invalid category")
	}
}

func TestMarkMissingColumnsBehaveAsEmpty(t *testing.T) {
	// no Srn or Email columns at all; matching still works by name
	// and never errors
	svcs, _ := newTestServices(t, "Name\nAlice\n")

	if _, err := svcs.Attendance.Mark(context.Background(), "Alice", []models.Category{models.CategoryDinner}); err != nil {
		t.Fatalf("Mark: %v", err)
	}
}

func TestMarkUsesFixedClock(t *testing.T) {
	cfg, _ := writeTestRoster(t, "Name,Srn,Email\nAlice,1,a@x.com\n")
	rs := newRosterService(cfg, zerolog.Nop())
	if err := rs.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	att := newAttendanceService(rs, zerolog.Nop())
	fixed := time.Date(2026, 8, 25, 19, 30, 0, 0, time.UTC)
	att.now = func() time.Time { return fixed }

	if _, err := att.Mark(context.Background(), "Alice", []models.Category{models.CategoryDinner}); err != nil {
		t.Fatal(err)
	}

	rows, err := rs.Rows(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if got := rows[0].Timestamps["Dinner"]; got != fixed.Format(time.RFC3339) {
		t.Errorf("timestamp = %q, want %q", got, fixed.Format(time.RFC3339))
	}
}

func TestMarkDegradedSuccessWhenPersistFails(t *testing.T) {
	cfg, _ := writeTestRoster(t, "Name,Srn,Email\nAlice,1,a@x.com\n")
	rs := newRosterService(cfg, zerolog.Nop())
	if err := rs.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	// point the source at a path that cannot be created
	rs.roster.Source.Path = filepath.Join(t.TempDir(), "missing", "teams.csv")

	att := newAttendanceService(rs, zerolog.Nop())
	result, err := att.Mark(context.Background(), "a@x.com", []models.Category{models.CategoryDinner})
	if err != nil {
		t.Fatalf("Mark should still succeed: %v", err)
	}
	if result.Persisted {
		t.Error("Persisted should be false")
	}
	if !strings.HasPrefix(result.Message, "Marked (but failed to write to source CSV:") {
		t.Errorf("message = %q", result.Message)
	}

	// marked in memory despite the failed write
	rows, _ := rs.Rows(context.Background(), "")
	if !rows[0].Flags["Dinner"] {
		t.Error("flag should be set in memory")
	}
}

func TestMarkWithoutRoster(t *testing.T) {
	cfg := &config.Config{Codes: config.CodesConfig{OutputDir: t.TempDir(), PathTemplate: "{filename}", Scale: 256}}
	svcs := NewServices(cfg, zerolog.Nop())

	_, err := svcs.Attendance.Mark(context.Background(), "Alice", []models.Category{models.CategoryDinner})
	if !errors.Is(err, roster.ErrNoRoster) {
		t.Errorf("err = %v, want ErrNoRoster", err)
	}
}
