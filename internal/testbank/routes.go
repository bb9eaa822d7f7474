package testbank

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
)

// Routes mounts the authoring endpoints. extra lets other features hang
// read-only reports under /tests/{id}.
func Routes(h *Handler, extra func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(rbac.Require(rbac.PermTestsAuthor))

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	if extra != nil {
		extra(r)
	}
	return r
}
