// Package grading scores a submitted answer set against the questions a student was shown.
package grading

import (
	"encoding/json"

	"github.com/saulo-duarte/testbank-api/internal/testbank"
)

type QuestionResult struct {
	QuestionID    string                `json:"questionId"`
	QuestionText  string                `json:"questionText"`
	QuestionType  testbank.QuestionType `json:"questionType"`
	StudentAnswer string                `json:"studentAnswer"`
	CorrectAnswer string                `json:"correctAnswer"`
	IsCorrect     bool                  `json:"isCorrect"`
	PointsEarned  float64               `json:"pointsEarned"`
	MaxPoints     float64               `json:"maxPoints"`
	Feedback      *testbank.Feedback    `json:"feedback,omitempty"`
}

// Warning reports a shown question that no longer exists in the test.
type Warning struct {
	Position   int    `json:"position"`
	QuestionID string `json:"questionId"`
}

type Result struct {
	Score       float64          `json:"score"`
	TotalPoints float64          `json:"totalPoints"`
	Passed      bool             `json:"passed"`
	Results     []QuestionResult `json:"results"`
	Warnings    []Warning        `json:"warnings,omitempty"`
}

// Grade scores answers[i] against the question whose id is shownIDs[i], looked up in
// test.Questions. Missing answers grade as empty. Ids that do not resolve are skipped and
// reported as warnings; they count toward neither score nor total.
func Grade(test *testbank.Test, shownIDs []string, answers []json.RawMessage) *Result {
	res := &Result{Results: make([]QuestionResult, 0, len(shownIDs))}

	for i, id := range shownIDs {
		q, ok := test.QuestionByID(id)
		if !ok {
			res.Warnings = append(res.Warnings, Warning{Position: i, QuestionID: id})
			continue
		}

		var raw json.RawMessage
		if i < len(answers) {
			raw = answers[i]
		}
		o := gradeQuestion(q, raw)

		qr := QuestionResult{
			QuestionID:    q.ID,
			QuestionText:  q.Text,
			QuestionType:  q.Type,
			StudentAnswer: o.studentDisplay,
			CorrectAnswer: o.correctDisplay,
			IsCorrect:     o.correct,
			MaxPoints:     q.Points,
			Feedback:      q.FeedbackWhenIncorrect,
		}
		if o.correct {
			qr.PointsEarned = q.Points
			qr.Feedback = q.FeedbackWhenCorrect
		}

		res.Score += qr.PointsEarned
		res.TotalPoints += q.Points
		res.Results = append(res.Results, qr)
	}

	res.Passed = res.Score >= test.PassingPoints
	return res
}
