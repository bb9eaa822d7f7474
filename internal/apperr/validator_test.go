package apperr_test

import (
	"errors"
	"testing"

	"github.com/saulo-duarte/testbank-api/internal/apperr"
)

type sample struct {
	Title string `json:"title" validate:"notblank"`
	Email string `json:"email" validate:"required,email"`
}

func TestCheck(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		if err := apperr.Check(sample{Title: "Quiz", Email: "a@b.edu"}, "invalid"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("FieldsUseJSONNames", func(t *testing.T) {
		err := apperr.Check(sample{Title: "   "}, "invalid sample")
		var vErr *apperr.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.Error() != "invalid sample" {
			t.Errorf("message = %q", vErr.Error())
		}
		got := map[string]string{}
		for _, f := range vErr.Fields {
			got[f.Field] = f.Error
		}
		if got["title"] != "this field cannot be blank" {
			t.Errorf("title error = %q", got["title"])
		}
		if _, ok := got["email"]; !ok {
			t.Errorf("expected email field error, got %v", vErr.Fields)
		}
	})
}
