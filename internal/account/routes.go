package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
)

// LoginRoutes are the public sign-in endpoints mounted under /auth.
func LoginRoutes(h *Handler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Get("/google/login", h.GoogleLogin)
		r.Get("/google/callback", h.GoogleCallback)
	}
}

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(rbac.Require(rbac.PermAccountsManage))

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
	return r
}
