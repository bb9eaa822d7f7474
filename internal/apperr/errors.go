package apperr

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/testbank-api/internal/config"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidID    = errors.New("invalid id format")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}

type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func Write(w http.ResponseWriter, status int, message string, fields ...FieldError) {
	config.JSON(w, status, Response{Success: false, Message: message, Fields: fields})
}

// WriteValidation writes a 400 carrying the field errors of err.
func WriteValidation(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		Write(w, http.StatusBadRequest, vErr.Error(), vErr.Fields...)
		return
	}
	Write(w, http.StatusBadRequest, err.Error())
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
