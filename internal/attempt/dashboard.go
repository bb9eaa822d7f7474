package attempt

import (
	"context"
	"time"

	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/eligibility"
	"github.com/saulo-duarte/testbank-api/internal/testbank"
)

type AssignedTest struct {
	testbank.Summary
	HasPrerequisites bool `json:"hasPrerequisites"`
}

type CompletedTest struct {
	TestID      string    `json:"testId"`
	Title       string    `json:"title"`
	SubjectCode string    `json:"subjectCode"`
	Score       float64   `json:"score"`
	TotalPoints float64   `json:"totalPoints"`
	Passed      bool      `json:"passed"`
	IsRetake    bool      `json:"isRetake"`
	TakenAt     time.Time `json:"takenAt"`
}

type Dashboard struct {
	Assigned  []AssignedTest  `json:"assigned"`
	Completed []CompletedTest `json:"completed"`
}

type SearchHit struct {
	AssignedTest
	IsCompleted bool `json:"isCompleted"`
}

// Dashboard lists the tests a student can take, expired ones included with their
// status, and the tests the student has already completed.
func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	log := config.WithContext(ctx)
	_, student, err := currentStudent(ctx)
	if err != nil {
		return nil, err
	}

	visible, err := s.tests.ListByAccess(ctx, testbank.AccessPublic)
	if err != nil {
		log.WithError(err).Error("Failed to list public tests")
		return nil, err
	}
	attempts, err := s.repo.ListByStudent(ctx, student.ID)
	if err != nil {
		log.WithError(err).Error("Failed to list student attempts")
		return nil, err
	}
	facts, err := s.facts(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	completed := make(map[string]*Attempt, len(attempts))
	for _, a := range attempts {
		completed[a.TestID] = a
	}

	now := s.now()
	out := &Dashboard{Assigned: []AssignedTest{}, Completed: []CompletedTest{}}
	byID := make(map[string]*testbank.Test, len(visible))
	for _, t := range visible {
		byID[t.ID] = t
		if _, done := completed[t.ID]; done {
			continue
		}
		if !eligibility.Check(student, t, facts).Eligible {
			continue
		}
		out.Assigned = append(out.Assigned, assigned(t, now))
	}

	for _, a := range attempts {
		c := CompletedTest{
			TestID:      a.TestID,
			Score:       a.Score,
			TotalPoints: a.TotalPoints,
			Passed:      a.Passed,
			IsRetake:    a.IsRetake,
			TakenAt:     a.TakenAt,
		}
		t := byID[a.TestID]
		if t == nil {
			if t, err = s.tests.GetByID(ctx, a.TestID); err != nil {
				return nil, err
			}
		}
		if t == nil {
			continue
		}
		c.Title = t.Title
		c.SubjectCode = t.SubjectCode
		out.Completed = append(out.Completed, c)
	}
	return out, nil
}

// Search matches title, subject code or description among the tests the student
// can take before their deadline.
func (s *service) Search(ctx context.Context, query string) ([]SearchHit, error) {
	log := config.WithContext(ctx).WithField("query", query)
	_, student, err := currentStudent(ctx)
	if err != nil {
		return nil, err
	}

	found, err := s.tests.Search(ctx, testbank.AccessPublic, query)
	if err != nil {
		log.WithError(err).Error("Failed to search tests")
		return nil, err
	}
	facts, err := s.facts(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.repo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(attempts))
	for _, a := range attempts {
		done[a.TestID] = true
	}

	now := s.now()
	hits := []SearchHit{}
	for _, t := range found {
		if t.IsExpired(now) || !eligibility.Check(student, t, facts).Eligible {
			continue
		}
		hits = append(hits, SearchHit{AssignedTest: assigned(t, now), IsCompleted: done[t.ID]})
	}
	return hits, nil
}

func (s *service) Eligibility(ctx context.Context, testID string) (*eligibility.Decision, error) {
	_, student, err := currentStudent(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.loadTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	facts, err := s.facts(ctx, student.ID, t)
	if err != nil {
		return nil, err
	}
	d := eligibility.Check(student, t, facts)
	return &d, nil
}

func assigned(t *testbank.Test, now time.Time) AssignedTest {
	return AssignedTest{Summary: t.Summary(now), HasPrerequisites: len(t.Prerequisites) > 0}
}
