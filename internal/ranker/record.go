package ranker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muhammadolammi/resumescreener/internal/identity"
)

// Document is one uploaded resume. Filename is only used to sniff the
// format and to label log lines.
type Document struct {
	Filename string
	Data     []byte
}

// Record is the screening result for one resume.
type Record struct {
	Filename   string   `json:"filename"`
	Name       string   `json:"candidate"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Matched    []string `json:"matched_skills"`
	Missing    []string `json:"missing_skills"`
	Percentage float64  `json:"matching_percentage"`
}

// Columns is the order of the fields rendered by Row.
var Columns = []string{
	"Candidate", "Matching Percentage", "Phone", "Email", "Matched Skills", "Missing Skills",
}

// Row is the six-field display form of a Record.
type Row struct {
	Candidate          string  `json:"Candidate"`
	MatchingPercentage float64 `json:"Matching Percentage"`
	Phone              string  `json:"Phone"`
	Email              string  `json:"Email"`
	MatchedSkills      string  `json:"Matched Skills"`
	MissingSkills      string  `json:"Missing Skills"`
}

// Row renders r for display and export. Skill lists are comma joined, or
// the not-found sentinel when empty.
func (r Record) Row() Row {
	return Row{
		Candidate:          r.Name,
		MatchingPercentage: r.Percentage,
		Phone:              r.Phone,
		Email:              r.Email,
		MatchedSkills:      joinSkills(r.Matched),
		MissingSkills:      joinSkills(r.Missing),
	}
}

// Strings returns the row cells in Columns order.
func (r Row) Strings() []string {
	return []string{
		r.Candidate,
		strconv.FormatFloat(r.MatchingPercentage, 'f', 2, 64),
		r.Phone,
		r.Email,
		r.MatchedSkills,
		r.MissingSkills,
	}
}

// Rows renders every record.
func Rows(records []Record) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = r.Row()
	}
	return rows
}

func joinSkills(skills []string) string {
	if len(skills) == 0 {
		return identity.NotFound
	}
	return strings.Join(skills, ", ")
}

// DocumentError is why a document was left out of the results.
type DocumentError struct {
	Filename string
	Op       string
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Filename, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Is matches any DocumentError when target carries no fields.
func (e *DocumentError) Is(target error) bool {
	t, ok := target.(*DocumentError)
	return ok && t.Filename == "" && t.Op == "" && t.Err == nil
}

// ErrDocument matches every DocumentError under errors.Is.
var ErrDocument error = &DocumentError{}
