package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
	"github.com/sirupsen/logrus"
)

const stateCookie = "oauth_state"

type Handler struct {
	service Service
	auth    *auth.Handler
	google  *GoogleAuth
}

func NewHandler(s Service, authHandler *auth.Handler, google *GoogleAuth) *Handler {
	return &Handler{service: s, auth: authHandler, google: google}
}

type loginResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    *Account `json:"user"`
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, a *Account) {
	log := config.WithContext(r.Context())

	_, token, err := h.auth.StartSession(r.Context(), w, a.Identity())
	if err != nil {
		log.WithError(err).Error("Failed to start session")
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.WithFields(logrus.Fields{
		"account_id": a.ID,
		"role":       a.Role,
	}).Info("Signed in")
	config.JSON(w, http.StatusOK, loginResponse{Success: true, Token: token, User: a})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for login")
		apperr.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.service.Authenticate(r.Context(), dto)
	switch {
	case err == nil:
		h.startSession(w, r, a)
	case apperr.IsValidation(err):
		apperr.WriteValidation(w, err)
	case errors.Is(err, ErrInvalidCredentials):
		apperr.Write(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		apperr.Write(w, http.StatusNotFound, ErrGoogleDisabled.Error())
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   config.Current.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())
	if h.google == nil {
		apperr.Write(w, http.StatusNotFound, ErrGoogleDisabled.Error())
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		log.Warn("Google callback with mismatched state")
		apperr.Write(w, http.StatusBadRequest, "invalid oauth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth/google", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		apperr.Write(w, http.StatusBadRequest, "missing code")
		return
	}

	email, err := h.google.Email(r.Context(), code)
	if err != nil {
		log.WithError(err).Warn("Google sign-in failed")
		apperr.Write(w, http.StatusUnauthorized, "google sign-in failed")
		return
	}

	a, err := h.service.FindStaffByEmail(r.Context(), email)
	switch {
	case err == nil:
		h.startSession(w, r, a)
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrNotStaff):
		log.WithField("email", email).Warn("Google sign-in refused")
		apperr.Write(w, http.StatusForbidden, ErrNotStaff.Error())
	default:
		log.WithError(err).Error("Failed to resolve Google account")
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateAccountDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for create account")
		apperr.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.service.Create(r.Context(), dto)
	switch {
	case err == nil:
		config.JSON(w, http.StatusCreated, a)
	case apperr.IsValidation(err):
		apperr.WriteValidation(w, err)
	case errors.Is(err, ErrEmailTaken):
		apperr.Write(w, http.StatusConflict, err.Error())
	default:
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context(), rbac.Role(r.URL.Query().Get("role")))
	switch {
	case err == nil:
		config.JSON(w, http.StatusOK, accounts)
	case apperr.IsValidation(err):
		apperr.WriteValidation(w, err)
	default:
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrAccountNotFound):
		apperr.Write(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrCannotDeleteSelf):
		apperr.Write(w, http.StatusConflict, err.Error())
	default:
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
	}
}
