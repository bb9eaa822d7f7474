package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/saulo-duarte/testbank-api/internal/account"
	"github.com/saulo-duarte/testbank-api/internal/attempt"
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
	"github.com/saulo-duarte/testbank-api/internal/router"
	"github.com/saulo-duarte/testbank-api/internal/section"
	"github.com/saulo-duarte/testbank-api/internal/session"
	"github.com/saulo-duarte/testbank-api/internal/testbank"
	"github.com/saulo-duarte/testbank-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func (c apiClient) call(method, path, token, body string) (int, map[string]interface{}) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var out map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func (c apiClient) login(email, password string) string {
	c.t.Helper()
	code, body := c.call(http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(c.t, http.StatusOK, code, "login %s", email)
	return body["token"].(string)
}

func newAPI(t *testing.T) (apiClient, account.Service) {
	t.Helper()
	t.Setenv("JWT_SECRET", "router-tests-secret")
	auth.Init()

	db := testutil.NewDB(t, &account.Account{}, &section.Section{}, &testbank.Test{}, &attempt.Attempt{})
	sessions := session.NewManager(session.NewMemoryStore(), time.Hour)
	authHandler := auth.NewHandler(sessions, auth.CookieConfig{Name: "session"})

	accounts := account.NewContainer(db, authHandler, nil)
	tests := testbank.NewContainer(db)
	attempts := attempt.NewContainer(db, tests.Repo, sessions, accounts.Directory, time.Minute)

	h := router.New(router.RouterConfig{
		AuthHandler:    authHandler,
		AccountHandler: accounts.Handler,
		SectionHandler: section.NewContainer(db).Handler,
		TestHandler:    tests.Handler,
		AttemptHandler: attempts.Handler,
	})
	return apiClient{t: t, handler: h}, accounts.Service
}

const testPayload = `{
	"title": "Networking Prelim",
	"subjectCode": "NET101",
	"access": "Public",
	"assignedSections": ["bsit 1-a"],
	"howManyQuestions": 2,
	"passingPoints": 2,
	"questions": [
		{"text": "OSI layers?", "type": "identification", "points": 1, "answers": ["7", "seven"]},
		{"text": "TCP is connection oriented", "type": "truefalse", "points": 1, "correctAnswer": "true"}
	]
}`

func TestEndToEnd(t *testing.T) {
	api, accounts := newAPI(t)
	ctx := context.Background()

	_, err := accounts.Create(ctx, account.CreateAccountDTO{
		Email: "prof@school.edu", Password: "professor-pass", Role: rbac.RoleProfessor, FullName: "Prof Santos",
	})
	require.NoError(t, err)
	_, err = accounts.Create(ctx, account.CreateAccountDTO{
		Email: "ana@school.edu", Password: "student-pass", Role: rbac.RoleStudent, FullName: "Ana Reyes",
		Course: "BSIT", YearLevel: "1st Year", Section: "A",
	})
	require.NoError(t, err)

	prof := api.login("prof@school.edu", "professor-pass")
	student := api.login("ana@school.edu", "student-pass")

	code, created := api.call(http.MethodPost, "/tests", prof, testPayload)
	require.Equal(t, http.StatusCreated, code, "%v", created)
	testID := created["id"].(string)
	assert.Equal(t, 2.0, created["maxPoints"])

	code, _ = api.call(http.MethodPost, "/tests", student, testPayload)
	assert.Equal(t, http.StatusForbidden, code, "students cannot author tests")

	code, dash := api.call(http.MethodGet, "/student/dashboard", student, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, dash["assigned"], 1)

	code, started := api.call(http.MethodPost, "/student/tests/"+testID+"/start", student, "")
	require.Equal(t, http.StatusOK, code, "%v", started)
	questions := started["questions"].([]interface{})
	require.Len(t, questions, 2)

	answers := make([]string, len(questions))
	for i, q := range questions {
		if q.(map[string]interface{})["type"] == "truefalse" {
			answers[i] = `"True"`
		} else {
			answers[i] = `" Seven "`
		}
	}
	code, result := api.call(http.MethodPost, "/student/tests/"+testID+"/submit", student,
		`{"answers":[`+strings.Join(answers, ",")+`]}`)
	require.Equal(t, http.StatusOK, code, "%v", result)
	assert.Equal(t, 2.0, result["score"])
	assert.Equal(t, true, result["passed"])

	code, _ = api.call(http.MethodPost, "/student/tests/"+testID+"/start", student, "")
	assert.Equal(t, http.StatusConflict, code)

	code, stored := api.call(http.MethodGet, "/student/tests/"+testID+"/result", student, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2.0, stored["score"])

	code, report := api.call(http.MethodGet, "/tests/"+testID+"/attempts", prof, "")
	require.Equal(t, http.StatusOK, code, "%v", report)
	rows := report["attempts"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana Reyes", rows[0].(map[string]interface{})["studentName"])

	code, _ = api.call(http.MethodPost, "/auth/logout", student, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.call(http.MethodGet, "/student/dashboard", student, "")
	assert.Equal(t, http.StatusUnauthorized, code, "logout destroys the session")
}

func TestPublicEndpoints(t *testing.T) {
	api, _ := newAPI(t)

	code, body := api.call(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, _ = api.call(http.MethodGet, "/tests", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
}
