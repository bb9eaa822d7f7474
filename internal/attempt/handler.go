package attempt

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/eligibility"
	"github.com/saulo-duarte/testbank-api/internal/testbank"
	"github.com/sirupsen/logrus"
)

const alreadyAttemptedMessage = "Test already attempted. Use retake option if available."

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

type notEligibleResponse struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Reason  eligibility.Reason         `json:"reason"`
	Missing []eligibility.Prerequisite `json:"missing"`
}

func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var notEligible *NotEligibleError
	switch {
	case errors.As(err, &notEligible):
		config.JSON(w, http.StatusForbidden, notEligibleResponse{
			Message: notEligible.Decision.Message,
			Reason:  notEligible.Decision.Reason,
			Missing: notEligible.Decision.Missing,
		})
	case errors.Is(err, ErrAlreadyAttempted):
		apperr.Write(w, http.StatusConflict, alreadyAttemptedMessage)
	case errors.Is(err, ErrNoTestInProgress):
		apperr.Write(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrDeadlinePassed), errors.Is(err, ErrTimeLimitExceeded), errors.Is(err, testbank.ErrNotOwner):
		apperr.Write(w, http.StatusForbidden, err.Error())
	case errors.Is(err, testbank.ErrTestNotFound), errors.Is(err, ErrAttemptNotFound):
		apperr.Write(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		apperr.Write(w, http.StatusUnauthorized, "unauthorized")
	default:
		log.WithError(err).Error("Unhandled attempt error")
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())
	retake, _ := strconv.ParseBool(r.URL.Query().Get("retake"))

	started, err := h.service.Start(r.Context(), chi.URLParam(r, "id"), retake)
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, started)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto SubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for submit")
		apperr.Write(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	view, err := h.service.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	attempts, err := h.service.ListByStudent(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, attempts)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, d)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	hits, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, hits)
}

func (h *Handler) Eligibility(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	d, err := h.service.Eligibility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, d)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	report, err := h.service.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, report)
}
