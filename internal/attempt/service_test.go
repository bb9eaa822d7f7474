package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/saulo-duarte/testbank-api/internal/eligibility"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
	"github.com/saulo-duarte/testbank-api/internal/session"
	"github.com/saulo-duarte/testbank-api/internal/testbank"
	"github.com/saulo-duarte/testbank-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *service
	tests    testbank.Repository
	repo     Repository
	sessions *session.Manager
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &testbank.Test{}, &Attempt{})
	f := &fixture{
		tests:    testbank.NewRepository(db),
		repo:     NewRepository(db),
		sessions: session.NewManager(session.NewMemoryStore(), time.Hour),
		clock:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.repo, f.tests, f.sessions, fakeDirectory{}, 2*time.Minute).(*service)
	f.svc.now = func() time.Time { return f.clock }
	f.svc.selectFn = func(all []testbank.Question, n int) []testbank.Question { return all[:n] }
	return f
}

func (f *fixture) student(t *testing.T, id, section string) context.Context {
	t.Helper()
	s, err := f.sessions.Create(context.Background(), session.Session{
		AccountID: id,
		Role:      string(rbac.RoleStudent),
		Course:    "BSIT",
		YearLevel: "1st Year",
		Section:   section,
	})
	require.NoError(t, err)
	return testutil.AsUser(context.Background(), s)
}

func (f *fixture) addTest(t *testing.T, test *testbank.Test) *testbank.Test {
	t.Helper()
	if test.Access == "" {
		test.Access = testbank.AccessPublic
	}
	if test.AssignedSections == nil {
		test.AssignedSections = []string{"BSIT1-A"}
	}
	if test.CreatedBy == "" {
		test.CreatedBy = "prof-1"
	}
	require.NoError(t, f.tests.Create(context.Background(), test))
	return test
}

// scenarioTest has points [2,2,3,4,1], draws 3 and passes at 6.
func scenarioTest(id string) *testbank.Test {
	tf := func(qid string, pts float64) testbank.Question {
		return testbank.Question{ID: qid, Text: "statement " + qid, Type: testbank.TypeTrueFalse, Points: pts, Key: testbank.TrueFalseKey{Value: true}}
	}
	return &testbank.Test{
		ID:               id,
		Title:            "Quiz " + id,
		SubjectCode:      "IT101",
		HowManyQuestions: 3,
		PassingPoints:    6,
		Questions:        []testbank.Question{tf("q1", 2), tf("q2", 2), tf("q3", 3), tf("q4", 4), tf("q5", 1)},
	}
}

func answers(vals ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(vals))
	for i, v := range vals {
		out[i] = json.RawMessage(v)
	}
	return out
}

type fakeDirectory struct{}

func (fakeDirectory) Students(_ context.Context, ids []string) (map[string]StudentInfo, error) {
	out := map[string]StudentInfo{}
	for _, id := range ids {
		out[id] = StudentInfo{FullName: "Student " + id, Section: "BSIT1-A"}
	}
	return out, nil
}

func TestStartAndSubmit(t *testing.T) {
	f := newFixture(t)
	f.addTest(t, scenarioTest("t1"))
	ctx := f.student(t, "stu-1", "A")

	started, err := f.svc.Start(ctx, "t1", false)
	require.NoError(t, err)
	require.Len(t, started.Questions, 3)
	assert.False(t, started.IsRetake)
	assert.Nil(t, started.ExpiresAt)

	raw, _ := json.Marshal(started)
	assert.NotContains(t, string(raw), "correctAnswer")

	// q1 and q3 right, q2 wrong: 2 + 3 = 5 < 6.
	res, err := f.svc.Submit(ctx, "t1", SubmitDTO{Answers: answers(`"true"`, `"false"`, `true`)})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 5.0, res.Score)
	assert.Equal(t, 7.0, res.TotalPoints)
	assert.False(t, res.Passed)
	assert.Len(t, res.Results, 3)

	stored, err := f.svc.Result(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, stored.Score)
	assert.Equal(t, f.clock, stored.TakenAt.UTC())
	require.NotNil(t, stored.Test)
	assert.Equal(t, "Quiz t1", stored.Test.Title)

	_, err = f.svc.Submit(ctx, "t1", SubmitDTO{Answers: answers(`"true"`)})
	assert.ErrorIs(t, err, ErrNoTestInProgress, "marker is consumed by the first submit")

	_, err = f.svc.Start(ctx, "t1", false)
	assert.ErrorIs(t, err, ErrAlreadyAttempted)
}

func TestRetakeReplacesAttempt(t *testing.T) {
	f := newFixture(t)
	f.addTest(t, scenarioTest("t1"))
	ctx := f.student(t, "stu-1", "A")

	_, err := f.svc.Start(ctx, "t1", false)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "t1", SubmitDTO{Answers: answers(`"false"`, `"false"`, `"false"`)})
	require.NoError(t, err)

	started, err := f.svc.Start(ctx, "t1", true)
	require.NoError(t, err)
	assert.True(t, started.IsRetake)

	res, err := f.svc.Submit(ctx, "t1", SubmitDTO{Answers: answers(`"true"`, `"true"`, `"true"`)})
	require.NoError(t, err)
	assert.True(t, res.IsRetake)
	assert.True(t, res.Passed)

	all, err := f.repo.ListByTest(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, all, 1, "a retake leaves exactly one attempt")
	assert.Equal(t, 7.0, all[0].Score)
	assert.True(t, all[0].IsRetake)
}

func TestSubmitWithoutStart(t *testing.T) {
	f := newFixture(t)
	f.addTest(t, scenarioTest("t1"))
	f.addTest(t, scenarioTest("t2"))
	ctx := f.student(t, "stu-1", "A")

	_, err := f.svc.Submit(ctx, "t1", SubmitDTO{})
	assert.ErrorIs(t, err, ErrNoTestInProgress)

	_, err = f.svc.Start(ctx, "t2", false)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "t1", SubmitDTO{})
	assert.ErrorIs(t, err, ErrNoTestInProgress)

	sess, _, err := currentStudent(ctx)
	require.NoError(t, err)
	marker, err := f.sessions.CurrentTest(context.Background(), sess.ID)
	require.NoError(t, err)
	require.NotNil(t, marker, "a mismatched submit leaves the other test in progress")
	assert.Equal(t, "t2", marker.TestID)
}

func TestStartEligibility(t *testing.T) {
	f := newFixture(t)
	private := scenarioTest("private")
	private.Access = testbank.AccessPrivate
	f.addTest(t, private)

	other := scenarioTest("other")
	other.AssignedSections = []string{"BSCS2-B"}
	f.addTest(t, other)

	f.addTest(t, scenarioTest("basics"))
	advanced := scenarioTest("advanced")
	advanced.Prerequisites = []string{"basics"}
	f.addTest(t, advanced)

	ctx := f.student(t, "stu-1", "A")

	reason := func(id string) eligibility.Decision {
		_, err := f.svc.Start(ctx, id, false)
		var notEligible *NotEligibleError
		require.True(t, errors.As(err, &notEligible), "expected NotEligibleError, got %v", err)
		return notEligible.Decision
	}

	assert.Equal(t, eligibility.ReasonNotPublic, reason("private").Reason)
	assert.Equal(t, eligibility.ReasonNotAssigned, reason("other").Reason)

	d := reason("advanced")
	assert.Equal(t, eligibility.ReasonPrerequisites, d.Reason)
	assert.Equal(t, "You must pass all prerequisite tests before taking this exam. Missing: Quiz basics", d.Message)
	require.Len(t, d.Missing, 1)
	assert.Equal(t, "basics", d.Missing[0].ID)

	_, err := f.svc.Start(ctx, "basics", false)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "basics", SubmitDTO{Answers: answers(`"true"`, `"true"`, `"true"`)})
	require.NoError(t, err)

	decision, err := f.svc.Eligibility(ctx, "advanced")
	require.NoError(t, err)
	assert.True(t, decision.Eligible)
}

func TestDeadlineAndTimeLimit(t *testing.T) {
	f := newFixture(t)

	closed := scenarioTest("closed")
	past := f.clock.Add(-time.Hour)
	closed.Deadline = &past
	f.addTest(t, closed)

	timed := scenarioTest("timed")
	timed.TimeLimit = 10
	f.addTest(t, timed)

	ctx := f.student(t, "stu-1", "A")

	_, err := f.svc.Start(ctx, "closed", false)
	assert.ErrorIs(t, err, ErrDeadlinePassed)

	started, err := f.svc.Start(ctx, "timed", false)
	require.NoError(t, err)
	require.NotNil(t, started.ExpiresAt)
	assert.Equal(t, f.clock.Add(10*time.Minute), *started.ExpiresAt)

	f.clock = f.clock.Add(13 * time.Minute)
	_, err = f.svc.Submit(ctx, "timed", SubmitDTO{Answers: answers(`"true"`)})
	assert.ErrorIs(t, err, ErrTimeLimitExceeded)

	_, err = f.svc.Submit(ctx, "timed", SubmitDTO{Answers: answers(`"true"`)})
	assert.ErrorIs(t, err, ErrNoTestInProgress, "a rejected submit still ends the attempt")

	_, err = f.svc.Start(ctx, "timed", false)
	require.NoError(t, err)
	f.clock = f.clock.Add(11 * time.Minute)
	_, err = f.svc.Submit(ctx, "timed", SubmitDTO{Answers: answers(`"true"`)})
	assert.NoError(t, err, "submissions inside the grace window are accepted")
}

func TestDeadlineDuringAttempt(t *testing.T) {
	f := newFixture(t)
	test := scenarioTest("t1")
	deadline := f.clock.Add(5 * time.Minute)
	test.Deadline = &deadline
	f.addTest(t, test)
	ctx := f.student(t, "stu-1", "A")

	_, err := f.svc.Start(ctx, "t1", false)
	require.NoError(t, err)

	f.clock = deadline.Add(3 * time.Minute)
	_, err = f.svc.Submit(ctx, "t1", SubmitDTO{Answers: answers(`"true"`)})
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestRepositoryUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := &Attempt{ID: "a1", StudentID: "stu-1", TestID: "t1", Score: 1, TakenAt: f.clock}
	require.NoError(t, f.repo.Insert(ctx, first))

	dup := &Attempt{ID: "a2", StudentID: "stu-1", TestID: "t1", Score: 2, TakenAt: f.clock}
	assert.ErrorIs(t, f.repo.Insert(ctx, dup), ErrAlreadyAttempted)

	other := &Attempt{ID: "a3", StudentID: "stu-2", TestID: "t1", Score: 3, Passed: true, TakenAt: f.clock}
	require.NoError(t, f.repo.Insert(ctx, other))

	retake := &Attempt{ID: "a4", StudentID: "stu-1", TestID: "t1", Score: 4, Passed: true, TakenAt: f.clock, IsRetake: true}
	require.NoError(t, f.repo.Replace(ctx, retake))

	got, err := f.repo.Get(ctx, "stu-1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "a4", got.ID)

	missing, err := f.repo.Get(ctx, "stu-9", "t1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	passed, err := f.repo.PassedTestIDs(ctx, "stu-2")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"t1": true}, passed)
}

func TestDashboardAndSearch(t *testing.T) {
	f := newFixture(t)
	f.addTest(t, scenarioTest("basics"))
	advanced := scenarioTest("advanced")
	advanced.Prerequisites = []string{"basics"}
	f.addTest(t, advanced)

	expired := scenarioTest("expired")
	past := f.clock.Add(-time.Hour)
	expired.Deadline = &past
	expired.Title = "Old basics"
	f.addTest(t, expired)

	ctx := f.student(t, "stu-1", "A")

	d, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	statuses := map[string]testbank.DeadlineStatus{}
	for _, a := range d.Assigned {
		statuses[a.ID] = a.Status
	}
	assert.Equal(t, map[string]testbank.DeadlineStatus{
		"basics":  testbank.StatusNoDeadline,
		"expired": testbank.StatusExpired,
	}, statuses)
	assert.Empty(t, d.Completed)

	hits, err := f.svc.Search(ctx, "BASICS")
	require.NoError(t, err)
	require.Len(t, hits, 1, "expired tests are not searchable")
	assert.Equal(t, "basics", hits[0].ID)
	assert.False(t, hits[0].IsCompleted)

	_, err = f.svc.Start(ctx, "basics", false)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "basics", SubmitDTO{Answers: answers(`"true"`, `"true"`, `"true"`)})
	require.NoError(t, err)

	d, err = f.svc.Dashboard(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, a := range d.Assigned {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{"advanced", "expired"}, ids)
	require.Len(t, d.Completed, 1)
	assert.Equal(t, "Quiz basics", d.Completed[0].Title)
	assert.True(t, d.Completed[0].Passed)
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	f.addTest(t, scenarioTest("t1"))

	for _, id := range []string{"stu-1", "stu-2"} {
		ctx := f.student(t, id, "A")
		_, err := f.svc.Start(ctx, "t1", false)
		require.NoError(t, err)
		vals := answers(`"true"`, `"true"`, `"true"`)
		if id == "stu-2" {
			vals = answers(`"false"`)
		}
		_, err = f.svc.Submit(ctx, "t1", SubmitDTO{Answers: vals})
		require.NoError(t, err)
	}

	staff := func(id string, role rbac.Role) context.Context {
		return testutil.AsUser(context.Background(), &session.Session{AccountID: id, Role: string(role)})
	}

	_, err := f.svc.Report(staff("prof-2", rbac.RoleProfessor), "t1")
	assert.ErrorIs(t, err, testbank.ErrNotOwner)

	report, err := f.svc.Report(staff("prof-1", rbac.RoleProfessor), "t1")
	require.NoError(t, err)
	assert.Len(t, report.Attempts, 2)
	assert.Equal(t, 1, report.PassedCount)
	assert.Equal(t, 3.5, report.AverageScore)
	assert.Equal(t, "Student stu-1", func() string {
		for _, r := range report.Attempts {
			if r.StudentID == "stu-1" {
				return r.StudentName
			}
		}
		return ""
	}())

	_, err = f.svc.Report(staff("dean-1", rbac.RoleDean), "t1")
	assert.NoError(t, err)
}
