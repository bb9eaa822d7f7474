package section

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/testbank-api/internal/apperr"
	"github.com/saulo-duarte/testbank-api/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateSectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for create section")
		apperr.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sec, err := h.service.Create(r.Context(), dto)
	switch {
	case err == nil:
		config.JSON(w, http.StatusCreated, sec)
	case apperr.IsValidation(err):
		apperr.WriteValidation(w, err)
	case errors.Is(err, ErrSectionExists):
		apperr.Write(w, http.StatusConflict, err.Error())
	default:
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sections, err := h.service.List(r.Context())
	if err != nil {
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
		return
	}
	config.JSON(w, http.StatusOK, sections)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrSectionNotFound):
		apperr.Write(w, http.StatusNotFound, err.Error())
	default:
		apperr.Write(w, http.StatusInternalServerError, "internal server error")
	}
}
