package models

// Category represents one attendance check-in category
type Category string

const (
	CategoryDinner    Category = "Dinner"
	CategoryPizza     Category = "Pizza"
	CategoryBreakfast Category = "Breakfast"
	CategoryMRD       Category = "MRD"
)

// Categories lists all attendance categories in column order
var Categories = []Category{
	CategoryDinner,
	CategoryPizza,
	CategoryBreakfast,
	CategoryMRD,
}

// ValidCategories is used for request validation
var ValidCategories = map[Category]bool{
	CategoryDinner:    true,
	CategoryPizza:     true,
	CategoryBreakfast: true,
	CategoryMRD:       true,
}

// TimestampColumn returns the paired timestamp column for the category.
// Every attendance flag column has exactly one companion timestamp column.
func (c Category) TimestampColumn() string {
	return string(c) + "_ts"
}

// Record is a single roster row: column name to cell value.
// All cells are held as strings; flags are "True"/"False" on disk.
type Record map[string]string

// Schema maps canonical roles to the actual header names found in the
// source file. Candidate headers are resolved once at load time; an
// empty value means the file has no column for that role.
type Schema struct {
	TeamName string `json:"team_name"`
	Name     string `json:"name"`
	Srn      string `json:"srn"`
	Email    string `json:"email"`
}

// TeamNameCandidates are tried in order when resolving the team column
var TeamNameCandidates = []string{"Team Name", "teamName", "team", "Team"}

// NameCandidates are tried in order when resolving the name column
var NameCandidates = []string{"Name", "name", "Full Name", "FullName"}

// SrnCandidates are tried in order when resolving the SRN column
var SrnCandidates = []string{"Srn", "SRN", "srn"}

// EmailCandidates are tried in order when resolving the email column
var EmailCandidates = []string{"Email", "email", "E-mail"}

// TeamNameOf returns the record's team name via the schema, or ""
func (s Schema) TeamNameOf(r Record) string {
	if s.TeamName == "" {
		return ""
	}
	return r[s.TeamName]
}

// NameOf returns the record's participant name via the schema, or ""
func (s Schema) NameOf(r Record) string {
	if s.Name == "" {
		return ""
	}
	return r[s.Name]
}

// SrnOf returns the record's SRN via the schema, or ""
func (s Schema) SrnOf(r Record) string {
	if s.Srn == "" {
		return ""
	}
	return r[s.Srn]
}

// EmailOf returns the record's email via the schema, or ""
func (s Schema) EmailOf(r Record) string {
	if s.Email == "" {
		return ""
	}
	return r[s.Email]
}
