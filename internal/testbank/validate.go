package testbank

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/saulo-duarte/testbank-api/internal/apperr"
)

// MaxPointsForHowMany is the best score reachable when howMany questions are drawn:
// the sum of the howMany largest point values.
func MaxPointsForHowMany(questions []Question, howMany int) float64 {
	if howMany <= 0 || len(questions) == 0 {
		return 0
	}
	points := make([]float64, len(questions))
	for i, q := range questions {
		points[i] = q.Points
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(points)))
	if howMany > len(points) {
		howMany = len(points)
	}

	var sum float64
	for _, p := range points[:howMany] {
		sum += p
	}
	return sum
}

// Validate enforces the authoring rules of a test. The returned error is an
// *apperr.ValidationError whose message is the first problem found.
func Validate(t *Test) error {
	var fields []apperr.FieldError
	add := func(field, msg string) {
		fields = append(fields, apperr.FieldError{Field: field, Error: msg})
	}

	if strings.TrimSpace(t.Title) == "" || strings.TrimSpace(t.SubjectCode) == "" {
		add("title", "title and subjectCode are required")
	}
	if !t.Access.IsValid() {
		add("access", "access must be Public or Private")
	}
	if t.TimeLimit < 0 {
		add("timeLimit", "timeLimit cannot be negative")
	}
	if len(t.Questions) == 0 {
		add("questions", "test must contain at least one question")
	}

	ids := make(map[string]bool, len(t.Questions))
	for i, q := range t.Questions {
		field := "questions[" + strconv.Itoa(i) + "]"
		if q.ID == "" {
			add(field, "question id is required")
		} else if ids[q.ID] {
			add(field, "duplicate question id "+q.ID)
		}
		ids[q.ID] = true
		if err := q.Validate(); err != nil {
			add(field, err.Error())
		}
	}

	switch {
	case t.HowManyQuestions <= 0:
		add("howManyQuestions", "howManyQuestions must be greater than 0")
	case t.HowManyQuestions > len(t.Questions):
		add("howManyQuestions", "howManyQuestions cannot be more than total questions")
	}

	if t.PassingPoints < 0 {
		add("passingPoints", "passingPoints cannot be negative")
	} else if t.HowManyQuestions > 0 && t.HowManyQuestions <= len(t.Questions) {
		if maxPoints := MaxPointsForHowMany(t.Questions, t.HowManyQuestions); t.PassingPoints > maxPoints {
			add("passingPoints", fmt.Sprintf(
				"passingPoints cannot exceed maximum possible points (%s) for howManyQuestions=%d",
				strconv.FormatFloat(maxPoints, 'f', -1, 64), t.HowManyQuestions))
		}
	}

	for _, p := range t.Prerequisites {
		if p == t.ID {
			add("prerequisites", "a test cannot be its own prerequisite")
			break
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return apperr.NewValidationError(errors.New(fields[0].Error), fields...)
}
