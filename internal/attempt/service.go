package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/eligibility"
	"github.com/saulo-duarte/testbank-api/internal/grading"
	"github.com/saulo-duarte/testbank-api/internal/session"
	"github.com/saulo-duarte/testbank-api/internal/testbank"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyAttempted  = errors.New("test already attempted")
	ErrNoTestInProgress  = errors.New("no test in progress for this test")
	ErrDeadlinePassed    = errors.New("test deadline has passed")
	ErrTimeLimitExceeded = errors.New("time limit exceeded")
	ErrAttemptNotFound   = errors.New("attempt not found")
)

// NotEligibleError carries the decision that blocked a student.
type NotEligibleError struct {
	Decision eligibility.Decision
}

func (e *NotEligibleError) Error() string {
	return e.Decision.Message
}

type StartedTest struct {
	TestID      string                    `json:"testId"`
	Title       string                    `json:"title"`
	SubjectCode string                    `json:"subjectCode"`
	TimeLimit   int                       `json:"timeLimit"`
	Deadline    *time.Time                `json:"deadline,omitempty"`
	StartedAt   time.Time                 `json:"startedAt"`
	ExpiresAt   *time.Time                `json:"expiresAt,omitempty"`
	IsRetake    bool                      `json:"isRetake"`
	Questions   []testbank.PublicQuestion `json:"questions"`
}

type SubmitDTO struct {
	Answers  []json.RawMessage `json:"answers"`
	IsRetake bool              `json:"isRetake"`
}

type SubmitResult struct {
	Success     bool                     `json:"success"`
	Score       float64                  `json:"score"`
	TotalPoints float64                  `json:"totalPoints"`
	Passed      bool                     `json:"passed"`
	Results     []grading.QuestionResult `json:"results"`
	IsRetake    bool                     `json:"isRetake"`
}

type ResultView struct {
	*Attempt
	Test *testbank.Summary `json:"test,omitempty"`
}

type Service interface {
	Start(ctx context.Context, testID string, retake bool) (*StartedTest, error)
	Submit(ctx context.Context, testID string, dto SubmitDTO) (*SubmitResult, error)
	Result(ctx context.Context, testID string) (*ResultView, error)
	ListByStudent(ctx context.Context) ([]*Attempt, error)
	Report(ctx context.Context, testID string) (*Report, error)

	Dashboard(ctx context.Context) (*Dashboard, error)
	Search(ctx context.Context, query string) ([]SearchHit, error)
	Eligibility(ctx context.Context, testID string) (*eligibility.Decision, error)
}

type service struct {
	repo      Repository
	tests     testbank.Repository
	sessions  *session.Manager
	directory Directory
	grace     time.Duration
	now       func() time.Time
	selectFn  func([]testbank.Question, int) []testbank.Question
}

// NewService wires the attempt flow. directory may be nil, in which case reports
// carry student ids only.
func NewService(repo Repository, tests testbank.Repository, sessions *session.Manager, directory Directory, grace time.Duration) Service {
	return &service{
		repo:      repo,
		tests:     tests,
		sessions:  sessions,
		directory: directory,
		grace:     grace,
		now:       time.Now,
		selectFn:  testbank.Select,
	}
}

func currentStudent(ctx context.Context) (*session.Session, eligibility.Student, error) {
	s, err := auth.GetSessionFromContext(ctx)
	if err != nil {
		return nil, eligibility.Student{}, apperr.ErrUnauthorized
	}
	return s, eligibility.Student{
		ID:        s.AccountID,
		Course:    s.Course,
		YearLevel: s.YearLevel,
		Section:   s.Section,
	}, nil
}

func (s *service) loadTest(ctx context.Context, id string) (*testbank.Test, error) {
	t, err := s.tests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, testbank.ErrTestNotFound
	}
	return t, nil
}

// facts gathers the passed tests of a student and the titles of the prerequisites of tests.
func (s *service) facts(ctx context.Context, studentID string, tests ...*testbank.Test) (eligibility.Facts, error) {
	passed, err := s.repo.PassedTestIDs(ctx, studentID)
	if err != nil {
		return eligibility.Facts{}, err
	}

	var ids []string
	for _, t := range tests {
		ids = append(ids, t.Prerequisites...)
	}
	titles := make(map[string]string, len(ids))
	if len(ids) > 0 {
		prereqs, err := s.tests.GetByIDs(ctx, ids)
		if err != nil {
			return eligibility.Facts{}, err
		}
		for _, p := range prereqs {
			titles[p.ID] = p.Title
		}
	}
	return eligibility.Facts{Passed: passed, Titles: titles}, nil
}

func (s *service) Start(ctx context.Context, testID string, retake bool) (*StartedTest, error) {
	log := config.WithContext(ctx).WithField("test_id", testID)
	sess, student, err := currentStudent(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.loadTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if t.IsExpired(now) {
		return nil, ErrDeadlinePassed
	}

	facts, err := s.facts(ctx, student.ID, t)
	if err != nil {
		log.WithError(err).Error("Failed to load eligibility facts")
		return nil, err
	}
	if d := eligibility.Check(student, t, facts); !d.Eligible {
		log.WithField("reason", d.Reason).Info("Student not eligible to start test")
		return nil, &NotEligibleError{Decision: d}
	}

	existing, err := s.repo.Get(ctx, student.ID, t.ID)
	if err != nil {
		log.WithError(err).Error("Failed to check previous attempt")
		return nil, err
	}
	if existing != nil && !retake {
		return nil, ErrAlreadyAttempted
	}

	shown := s.selectFn(t.Questions, t.HowManyQuestions)
	marker := session.TestInProgress{
		TestID:              t.ID,
		OriginalQuestionIDs: testbank.IDs(t.Questions),
		ShownQuestionIDs:    testbank.IDs(shown),
		StartedAt:           now,
		Retake:              existing != nil,
	}
	if err := s.sessions.SetCurrentTest(ctx, sess.ID, marker); err != nil {
		log.WithError(err).Error("Failed to store test in progress")
		return nil, err
	}

	out := &StartedTest{
		TestID:      t.ID,
		Title:       t.Title,
		SubjectCode: t.SubjectCode,
		TimeLimit:   t.TimeLimit,
		Deadline:    t.Deadline,
		StartedAt:   now,
		IsRetake:    marker.Retake,
		Questions:   make([]testbank.PublicQuestion, len(shown)),
	}
	for i, q := range shown {
		out.Questions[i] = q.Public()
	}
	if limit := t.TimeLimitDuration(); limit > 0 {
		expires := now.Add(limit)
		out.ExpiresAt = &expires
	}

	log.WithFields(logrus.Fields{
		"shown":  len(shown),
		"retake": marker.Retake,
	}).Info("Test started")
	return out, nil
}

func (s *service) Submit(ctx context.Context, testID string, dto SubmitDTO) (*SubmitResult, error) {
	log := config.WithContext(ctx).WithField("test_id", testID)
	sess, student, err := currentStudent(ctx)
	if err != nil {
		return nil, err
	}

	marker, err := s.sessions.CurrentTest(ctx, sess.ID)
	if err != nil {
		log.WithError(err).Error("Failed to load test in progress")
		return nil, err
	}
	if marker == nil || marker.TestID != testID {
		return nil, ErrNoTestInProgress
	}
	defer func() {
		if cErr := s.sessions.ClearCurrentTest(context.WithoutCancel(ctx), sess.ID); cErr != nil {
			log.WithError(cErr).Warn("Failed to clear test in progress")
		}
	}()

	t, err := s.loadTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if t.IsExpired(now.Add(-s.grace)) {
		return nil, ErrDeadlinePassed
	}
	if limit := t.TimeLimitDuration(); limit > 0 && now.Sub(marker.StartedAt) > limit+s.grace {
		log.WithField("elapsed", now.Sub(marker.StartedAt).String()).Warn("Submission after time limit")
		return nil, ErrTimeLimitExceeded
	}

	graded := grading.Grade(t, marker.ShownQuestionIDs, dto.Answers)
	for _, w := range graded.Warnings {
		log.WithFields(logrus.Fields{
			"position":    w.Position,
			"question_id": w.QuestionID,
		}).Warn("Shown question no longer in test, skipped")
	}

	retake := marker.Retake || dto.IsRetake
	a := &Attempt{
		ID:              uuid.NewString(),
		StudentID:       student.ID,
		TestID:          t.ID,
		Score:           graded.Score,
		TotalPoints:     graded.TotalPoints,
		Passed:          graded.Passed,
		QuestionResults: graded.Results,
		TakenAt:         now,
		IsRetake:        retake,
	}

	if retake {
		err = s.repo.Replace(ctx, a)
	} else {
		err = s.repo.Insert(ctx, a)
	}
	if err != nil {
		if !errors.Is(err, ErrAlreadyAttempted) {
			log.WithError(err).Error("Failed to save attempt")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"score":        a.Score,
		"total_points": a.TotalPoints,
		"passed":       a.Passed,
		"retake":       retake,
	}).Info("Test submitted")

	return &SubmitResult{
		Success:     true,
		Score:       a.Score,
		TotalPoints: a.TotalPoints,
		Passed:      a.Passed,
		Results:     graded.Results,
		IsRetake:    retake,
	}, nil
}

func (s *service) Result(ctx context.Context, testID string) (*ResultView, error) {
	_, student, err := currentStudent(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.Get(ctx, student.ID, testID)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("test_id", testID).Error("Failed to load attempt")
		return nil, err
	}
	if a == nil {
		return nil, ErrAttemptNotFound
	}

	view := &ResultView{Attempt: a}
	t, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	if t != nil {
		summary := t.Summary(s.now())
		view.Test = &summary
	}
	return view, nil
}

func (s *service) ListByStudent(ctx context.Context) ([]*Attempt, error) {
	_, student, err := currentStudent(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, student.ID)
}
