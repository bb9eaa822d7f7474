package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
	"github.com/saulo-duarte/testbank-api/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestRouter(t *testing.T, google *GoogleAuth) (http.Handler, *service) {
	t.Helper()
	t.Setenv("JWT_SECRET", "account-handler-tests-secret")
	auth.Init()

	svc, _ := newTestService(t)
	sessions := session.NewManager(session.NewMemoryStore(), time.Hour)
	h := NewHandler(svc, auth.NewHandler(sessions, auth.CookieConfig{Name: "session"}), google)

	r := chi.NewRouter()
	r.Route("/auth", LoginRoutes(h))
	return r, svc
}

func fakeGoogle(t *testing.T, email string) *GoogleAuth {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_, _ = w.Write([]byte(`{"access_token":"google-token","token_type":"Bearer","expires_in":3600}`))
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer google-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(googleUser{Email: email, EmailVerified: true})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	return &GoogleAuth{
		oauth: &oauth2.Config{
			ClientID:     "client",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost/auth/google/callback",
			Endpoint:     oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"},
		},
		userInfoURL: srv.URL + "/userinfo",
	}
}

func TestLoginHandler(t *testing.T) {
	router, svc := newTestRouter(t, nil)
	_, err := svc.Create(context.Background(), studentDTO("juan@school.edu"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"juan@school.edu","password":"correct-horse"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	require.Len(t, rec.Result().Cookies(), 1)

	claims, err := auth.ValidateJWT(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, string(rbac.RoleStudent), claims.Role)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"juan@school.edu","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestGoogleLoginRedirect(t *testing.T) {
	router, _ := newTestRouter(t, fakeGoogle(t, "prof@school.edu"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))
	require.Equal(t, http.StatusFound, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookie, cookies[0].Name)
	assert.Contains(t, rec.Header().Get("Location"), "state="+cookies[0].Value)
}

func TestGoogleCallback(t *testing.T) {
	callback := func(router http.Handler, state, cookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+state, nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: stateCookie, Value: cookie})
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Staff", func(t *testing.T) {
		router, svc := newTestRouter(t, fakeGoogle(t, "Prof@School.edu"))
		_, err := svc.Create(context.Background(), CreateAccountDTO{Email: "prof@school.edu", Password: "long-enough", Role: rbac.RoleProfessor, FullName: "Prof"})
		require.NoError(t, err)

		rec := callback(router, "s1", "s1")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"role":"Professor"`)
	})

	t.Run("StateMismatch", func(t *testing.T) {
		router, _ := newTestRouter(t, fakeGoogle(t, "prof@school.edu"))
		assert.Equal(t, http.StatusBadRequest, callback(router, "s1", "other").Code)
		assert.Equal(t, http.StatusBadRequest, callback(router, "s1", "").Code)
	})

	t.Run("StudentRefused", func(t *testing.T) {
		router, svc := newTestRouter(t, fakeGoogle(t, "juan@school.edu"))
		_, err := svc.Create(context.Background(), studentDTO("juan@school.edu"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, callback(router, "s1", "s1").Code)
	})

	t.Run("Disabled", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)
		assert.Equal(t, http.StatusNotFound, callback(router, "s1", "s1").Code)
	})
}
