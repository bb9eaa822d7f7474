package section

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.With(rbac.Require(rbac.PermSectionsRead)).Get("/", h.List)
	r.With(rbac.Require(rbac.PermSectionsManage)).Post("/", h.Create)
	r.With(rbac.Require(rbac.PermSectionsManage)).Delete("/{id}", h.Delete)
	return r
}
