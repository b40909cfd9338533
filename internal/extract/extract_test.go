package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeJSON(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "team_a.json", `{
		"teamName": "Rocket",
		"campus": "RR",
		"members": [
			{"name": "Alice", "srn": "PES1", "email": "a@x.com", "phone": "111",
			 "semester": [5, 6], "section": "B", "department": ["CSE"]},
			{"name": "Alice", "srn": "PES1", "email": "a@x.com", "phone": "111"},
			{"fullName": "Bob", "SRN": "PES2", "paymentUrl": "http://pay/2"}
		]
	}`)
	writeJSON(t, dir, "team_b.json", `{
		"team_name": "Comet",
		"members": [
			{"name": "Carol", "email": "c@x.com", "hostel": "Day scholar"}
		]
	}`)

	r, err := FromDir(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}

	// Alice deduped by SRN: 2 from team_a + 1 from team_b
	if r.Len() != 3 {
		t.Fatalf("rows = %d, want 3", r.Len())
	}

	alice := r.Records[0]
	if alice["Team Name"] != "Rocket" || alice["Campus"] != "RR" {
		t.Errorf("alice = %v", alice)
	}
	if alice["Sem"] != "5, 6" {
		t.Errorf("Sem = %q, want \"5, 6\"", alice["Sem"])
	}
	if alice["Dep"] != "CSE" {
		t.Errorf("Dep = %q, want CSE", alice["Dep"])
	}

	bob := r.Records[1]
	if bob["Name"] != "Bob" || bob["Srn"] != "PES2" {
		t.Errorf("bob = %v", bob)
	}
	if bob["Payment_url"] != "http://pay/2" {
		t.Errorf("Payment_url = %q", bob["Payment_url"])
	}

	carol := r.Records[2]
	if carol["Team Name"] != "Comet" || carol["Hostel/Day scholar"] != "Day scholar" {
		t.Errorf("carol = %v", carol)
	}
}

func TestFromDirSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "bad.json", `{not json`)
	writeJSON(t, dir, "good.json", `{"teamName": "Rocket", "members": [{"name": "Alice", "srn": "1"}]}`)

	r, err := FromDir(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("rows = %d, want 1", r.Len())
	}
}

func TestFromDirEmpty(t *testing.T) {
	if _, err := FromDir(t.TempDir(), zerolog.Nop()); err == nil {
		t.Error("empty dir should fail")
	}
}

func TestMembersWithNoKeyAreSkipped(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "team.json", `{
		"teamName": "Rocket",
		"members": [
			{"semester": "5"},
			{"name": "Alice", "phone": "111"}
		]
	}`)

	r, err := FromDir(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}
	// the keyless member is dropped; Alice keys on name+phone
	if r.Len() != 1 {
		t.Fatalf("rows = %d, want 1", r.Len())
	}
	if r.Records[0]["Name"] != "Alice" {
		t.Errorf("row = %v", r.Records[0])
	}
}

func TestExtractedRosterHasNoAttendanceColumns(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "team.json", `{"teamName": "Rocket", "members": [{"name": "Alice", "srn": "1"}]}`)

	r, err := FromDir(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range r.Columns {
		if c == "Dinner" {
			t.Error("extraction output must match the registration data, no attendance columns")
		}
	}
}
