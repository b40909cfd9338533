package roster

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSV(t *testing.T) {
	input := "Name,Srn,Email\nAlice,1,a@x.com\nBob,2\n"

	r, err := LoadCSV(strings.NewReader(input), Source{Path: "teams.csv", Format: FormatCSV, Writable: true})
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}

	if r.Len() != 2 {
		t.Fatalf("rows = %d, want 2", r.Len())
	}
	// ragged row: Bob has no email cell
	if got := r.Schema.EmailOf(r.Records[1]); got != "" {
		t.Errorf("Bob email = %q, want empty", got)
	}
	// attendance columns appended on load
	if got := r.Records[0]["Dinner"]; got != "False" {
		t.Errorf("Dinner = %q, want False", got)
	}
	if !r.Source.Writable {
		t.Error("CSV source should be writable")
	}
}

func TestLoadCSVEmpty(t *testing.T) {
	if _, err := LoadCSV(strings.NewReader(""), Source{}); err == nil {
		t.Error("empty CSV should fail")
	}
}

func TestLoadUploadRejectsUnknownExtension(t *testing.T) {
	if _, err := LoadUpload("roster.pdf", strings.NewReader("x")); err == nil {
		t.Error("pdf upload should fail")
	}
}

func TestUploadedRosterIsNotWritable(t *testing.T) {
	r, err := LoadUpload("roster.csv", strings.NewReader("Name\nAlice\n"))
	if err != nil {
		t.Fatalf("LoadUpload: %v", err)
	}
	if r.Source.Writable {
		t.Error("uploaded roster must not be writable in place")
	}
	if err := r.SaveInPlace(); err != ErrReadOnlySource {
		t.Errorf("SaveInPlace = %v, want ErrReadOnlySource", err)
	}
}

func TestOpenProbesCandidatesInOrder(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "teams.csv")
	if err := os.WriteFile(second, []byte("Name\nAlice\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Open("", []string{filepath.Join(dir, "missing.csv"), second})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.Source.Path != second {
		t.Errorf("loaded %q, want %q", r.Source.Path, second)
	}

	if _, err := Open("", []string{filepath.Join(dir, "missing.csv")}); err != ErrNoRoster {
		t.Errorf("Open with no candidates = %v, want ErrNoRoster", err)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	r := New(
		[]string{"Team Name", "Name", "Srn"},
		[][]string{
			{"Rocket", "Alice", "1"},
			{"Comet", "Bob", "2"},
		},
		Source{},
	)

	var buf bytes.Buffer
	if err := r.WriteXLSX(&buf); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	loaded, err := LoadXLSX(bytes.NewReader(buf.Bytes()), Source{Format: FormatXLSX})
	if err != nil {
		t.Fatalf("LoadXLSX: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("rows = %d, want 2", loaded.Len())
	}
	if got := loaded.Schema.NameOf(loaded.Records[1]); got != "Bob" {
		t.Errorf("row 1 name = %q, want Bob", got)
	}
	if got := loaded.Schema.TeamNameOf(loaded.Records[0]); got != "Rocket" {
		t.Errorf("row 0 team = %q, want Rocket", got)
	}
}

func TestSaveInPlaceOverwritesSourceCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teams.csv")
	if err := os.WriteFile(path, []byte("Name,Srn\nAlice,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	r.Records[0]["Srn"] = "42"
	if err := r.SaveInPlace(); err != nil {
		t.Fatalf("SaveInPlace: %v", err)
	}

	reloaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Records[0]["Srn"]; got != "42" {
		t.Errorf("Srn after save = %q, want 42", got)
	}
	// attendance columns are now part of the file
	if got := reloaded.Records[0]["Pizza"]; got != "False" {
		t.Errorf("Pizza = %q, want False", got)
	}
}
