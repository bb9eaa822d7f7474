// Package eligibility decides whether a student may start a test.
package eligibility

import (
	"strings"

	"github.com/saulo-duarte/testbank-api/internal/section"
	"github.com/saulo-duarte/testbank-api/internal/testbank"
)

type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNotPublic     Reason = "not_public"
	ReasonNotAssigned   Reason = "not_assigned"
	ReasonPrerequisites Reason = "prerequisites"
)

type Student struct {
	ID        string
	Course    string
	YearLevel string
	Section   string
}

func (s Student) SectionTokens() []string {
	return section.StudentTokens(s.Course, s.YearLevel, s.Section)
}

// Facts is what the caller knows about the student's history.
type Facts struct {
	// Passed holds the ids of tests the student has a passed attempt on.
	Passed map[string]bool
	// Titles resolves prerequisite ids to titles for messages; missing entries fall back to the id.
	Titles map[string]string
}

type Prerequisite struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Decision struct {
	Eligible bool           `json:"eligible"`
	Reason   Reason         `json:"reason,omitempty"`
	Message  string         `json:"message,omitempty"`
	Missing  []Prerequisite `json:"missing"`
}

// Check applies visibility, section assignment and prerequisites, in that order,
// and stops at the first failing rule.
func Check(student Student, test *testbank.Test, facts Facts) Decision {
	if test.Access != testbank.AccessPublic {
		return Decision{
			Reason:  ReasonNotPublic,
			Message: "This test is not publicly available.",
			Missing: []Prerequisite{},
		}
	}

	if !section.Matches(student.SectionTokens(), test.AssignedSections) {
		return Decision{
			Reason:  ReasonNotAssigned,
			Message: "This test is not assigned to your section.",
			Missing: []Prerequisite{},
		}
	}

	missing := MissingPrerequisites(test, facts)
	if len(missing) > 0 {
		titles := make([]string, len(missing))
		for i, m := range missing {
			titles[i] = m.Title
		}
		return Decision{
			Reason:  ReasonPrerequisites,
			Message: "You must pass all prerequisite tests before taking this exam. Missing: " + strings.Join(titles, ", "),
			Missing: missing,
		}
	}

	return Decision{Eligible: true, Missing: []Prerequisite{}}
}

func MissingPrerequisites(test *testbank.Test, facts Facts) []Prerequisite {
	var missing []Prerequisite
	for _, id := range test.Prerequisites {
		if facts.Passed[id] {
			continue
		}
		title := facts.Titles[id]
		if title == "" {
			title = id
		}
		missing = append(missing, Prerequisite{ID: id, Title: title})
	}
	return missing
}
