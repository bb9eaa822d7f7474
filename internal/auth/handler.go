package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/session"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	sessions *session.Manager
	cookie   CookieConfig
}

func NewHandler(sessions *session.Manager, cookie CookieConfig) *Handler {
	return &Handler{sessions: sessions, cookie: cookie}
}

func (h *Handler) Sessions() *session.Manager {
	return h.sessions
}

// StartSession persists a new session for identity and sets the session cookie.
func (h *Handler) StartSession(ctx context.Context, w http.ResponseWriter, identity session.Session) (*session.Session, string, error) {
	s, err := h.sessions.Create(ctx, identity)
	if err != nil {
		return nil, "", err
	}
	token, err := GenerateJWT(s.AccountID, s.Role, s.ID, h.sessions.TTL())
	if err != nil {
		_ = h.sessions.Destroy(ctx, s.ID)
		return nil, "", err
	}
	h.cookie.set(w, token, h.sessions.TTL())
	return s, token, nil
}

func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenStr := h.cookie.tokenFromRequest(r)
		if tokenStr == "" {
			apperr.Write(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := ValidateJWT(tokenStr)
		if err != nil {
			log.WithError(err).Warn("Rejected session token")
			apperr.Write(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		s, err := h.sessions.Get(r.Context(), claims.SessionID)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.WithError(err).Error("Failed to load session")
			}
			apperr.Write(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		if s.AccountID != claims.UserID {
			log.WithFields(logrus.Fields{
				"session_id": claims.SessionID,
				"claim_user": claims.UserID,
			}).Warn("Session does not belong to token subject")
			apperr.Write(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		if err := h.sessions.Touch(r.Context(), s); err != nil {
			log.WithError(err).Warn("Failed to refresh session expiry")
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims, s)))
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if claims, err := GetUserClaimsFromContext(r.Context()); err == nil {
		if err := h.sessions.Destroy(r.Context(), claims.SessionID); err != nil {
			log.WithError(err).Error("Failed to destroy session on logout")
		}
	}
	h.cookie.clear(w)

	config.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "logout successful",
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, err := GetSessionFromContext(r.Context())
	if err != nil {
		apperr.Write(w, http.StatusUnauthorized, "authentication required")
		return
	}
	config.JSON(w, http.StatusOK, map[string]interface{}{
		"id":        s.AccountID,
		"role":      s.Role,
		"email":     s.Email,
		"fullName":  s.FullName,
		"course":    s.Course,
		"yearLevel": s.YearLevel,
		"section":   s.Section,
	})
}
