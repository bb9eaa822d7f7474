package testbank

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	switch {
	case apperr.IsValidation(err):
		apperr.WriteValidation(w, err)
	case errors.Is(err, ErrTestNotFound):
		apperr.Write(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotOwner):
		apperr.Write(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		apperr.Write(w, http.StatusUnauthorized, "unauthorized")
	default:
		log.WithError(err).Error("Unhandled test bank error")
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpsertTestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for create test")
		apperr.Write(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Create(r.Context(), dto)
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpsertTestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for update test")
		apperr.Write(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	resp, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	tests, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, tests)
}
